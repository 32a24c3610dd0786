package core

import (
	"errors"
	"testing"
)

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantErr  error
	}{
		{
			name:     "valid text category",
			category: Category{Key: "insta_ads", Label: "Insta Advertisements Data", Kind: KindText},
			wantErr:  nil,
		},
		{
			name:     "valid structured category",
			category: Category{Key: "fit_distance", Label: "Fit Distance", Kind: KindStructured, Measure: "distance"},
			wantErr:  nil,
		},
		{
			name:     "empty key",
			category: Category{Label: "Apps", Kind: KindText},
			wantErr:  ErrEmptyKey,
		},
		{
			name:     "key with path separator",
			category: Category{Key: "../apps", Label: "Apps", Kind: KindText},
			wantErr:  ErrEmptyKey,
		},
		{
			name:     "uppercase key",
			category: Category{Key: "Apps", Label: "Apps", Kind: KindText},
			wantErr:  ErrEmptyKey,
		},
		{
			name:     "empty label",
			category: Category{Key: "apps", Kind: KindText},
			wantErr:  ErrEmptyLabel,
		},
		{
			name:     "invalid kind",
			category: Category{Key: "apps", Label: "Apps", Kind: Kind(99)},
			wantErr:  ErrInvalidKind,
		},
		{
			name:     "structured without measure",
			category: Category{Key: "fit", Label: "Fit", Kind: KindStructured},
			wantErr:  ErrMissingMeasure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.category)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCategory() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCategory() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCategory) {
				t.Errorf("ValidateCategory() error should wrap ErrInvalidCategory, got %v", err)
			}
		})
	}
}

func TestDimension(t *testing.T) {
	dim, err := Dimension(nil)
	if err != nil || dim != 0 {
		t.Errorf("empty input: got (%d, %v)", dim, err)
	}

	dim, err = Dimension([]Vector{{1, 2, 3}, {4, 5, 6}})
	if err != nil || dim != 3 {
		t.Errorf("uniform input: got (%d, %v)", dim, err)
	}

	_, err = Dimension([]Vector{{1, 2, 3}, {4, 5, 6, 7}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("mixed input: expected ErrDimensionMismatch, got %v", err)
	}
}

func TestNormalizeVector(t *testing.T) {
	v := NormalizeVector(Vector{3, 4})
	if v[0] != 0.6 || v[1] != 0.8 {
		t.Errorf("expected [0.6 0.8], got %v", v)
	}

	zero := NormalizeVector(Vector{0, 0, 0})
	for _, c := range zero {
		if c != 0 {
			t.Errorf("zero vector should stay zero, got %v", zero)
		}
	}

	if got := NormalizeVector(nil); len(got) != 0 {
		t.Errorf("nil input should stay empty, got %v", got)
	}
}
