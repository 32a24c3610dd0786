package storage

import (
	"math"
	"testing"

	"github.com/poiesic/udmine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVectors(t *testing.T) {
	tests := []struct {
		name    string
		vectors []core.Vector
	}{
		{"empty list", []core.Vector{}},
		{"single element", []core.Vector{{1}}},
		{"several vectors", []core.Vector{{0.1, 0.2, 0.3}, {-1, 0, 1}, {3.5, math.MaxFloat32, -math.SmallestNonzeroFloat32}}},
		{"zero-length vector", []core.Vector{{}, {1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVectors(tt.vectors)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalVectors(data)
			require.NoError(t, err)
			require.Len(t, decoded, len(tt.vectors))
			for i := range tt.vectors {
				assert.Equal(t, []float32(tt.vectors[i]), []float32(decoded[i]), "vector %d", i)
			}
		})
	}
}

func TestMarshalVectors_NilEqualsEmpty(t *testing.T) {
	assert.Equal(t, MarshalVectors([]core.Vector{}), MarshalVectors(nil))

	decoded, err := UnmarshalVectors(MarshalVectors(nil))
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestMarshalVectors_Deterministic(t *testing.T) {
	vectors := []core.Vector{{1, 2, 3}, {4, 5, 6}}
	assert.Equal(t, MarshalVectors(vectors), MarshalVectors(vectors))
}

func TestMarshalVectors_PreservesNaNBits(t *testing.T) {
	nan := math.Float32frombits(0x7fc00001)
	decoded, err := UnmarshalVectors(MarshalVectors([]core.Vector{{nan}}))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x7fc00001), math.Float32bits(decoded[0][0]))
}

func TestUnmarshalVectors_Corrupt(t *testing.T) {
	valid := MarshalVectors([]core.Vector{{1, 2}, {3, 4}})

	flipped := append([]byte(nil), valid...)
	flipped[len(magic)+3] ^= 0xff

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'X'

	badVersion := append([]byte(nil), valid...)
	badVersion[len(magic)] = 99

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty data", []byte{}, ErrTruncatedData},
		{"header only", valid[:len(magic)+1], ErrTruncatedData},
		{"truncated", valid[:len(valid)-3], ErrChecksumMismatch},
		{"flipped payload byte", flipped, ErrChecksumMismatch},
		{"bad magic", badMagic, ErrBadMagic},
		{"bad version", badVersion, ErrUnsupportedVersion},
		{"not an entry", []byte("this is definitely not a vector file"), ErrBadMagic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalVectors(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, core.ErrSerialization)
		})
	}
}

func TestVectorsMUS_ForgedCount(t *testing.T) {
	// count of 1000 vectors with only two bytes following
	_, _, err := VectorsMUS.Unmarshal([]byte{0xe8, 0x07, 0x01, 0x00})
	assert.ErrorIs(t, err, core.ErrSerialization)
}

func TestVectorsMUS_SizeMatchesMarshal(t *testing.T) {
	vectors := []core.Vector{{1, 2, 3}, make(core.Vector, 200)}
	buf := make([]byte, VectorsMUS.Size(vectors))
	n := VectorsMUS.Marshal(vectors, buf)
	assert.Equal(t, len(buf), n)

	skipped, err := VectorsMUS.Skip(buf)
	require.NoError(t, err)
	assert.Equal(t, n, skipped)
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("insta_ads"))
	assert.ErrorIs(t, ValidateKey("../etc/passwd"), ErrInvalidKey)
	assert.ErrorIs(t, ValidateKey(""), ErrInvalidKey)
}
