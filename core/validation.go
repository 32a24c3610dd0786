// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
)

// ValidateCategory validates a Category according to domain rules.
//
// Validation rules:
//   - Key must be a valid cache key (see ValidKey)
//   - Label must not be empty
//   - Kind must be Text or Structured
//   - Structured categories must name a Measure
func ValidateCategory(c Category) error {
	if !ValidKey(c.Key) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidCategory, ErrEmptyKey, c.Key)
	}

	if c.Label == "" {
		return fmt.Errorf("%w: %w: %q", ErrInvalidCategory, ErrEmptyLabel, c.Key)
	}

	if c.Kind != KindText && c.Kind != KindStructured {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidCategory, ErrInvalidKind, c.Kind)
	}

	if c.Kind == KindStructured && c.Measure == "" {
		return fmt.Errorf("%w: %w: %q", ErrInvalidCategory, ErrMissingMeasure, c.Key)
	}

	return nil
}

// ValidKey reports whether key is usable as a cache key.
// Keys are lowercase ASCII letters, digits, '_' and '-'.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// Dimension returns the shared dimensionality of vectors.
// Empty input has dimension 0. Mixed lengths return ErrDimensionMismatch.
func Dimension(vectors []Vector) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}
	dim := len(vectors[0])
	for i, v := range vectors[1:] {
		if len(v) != dim {
			return 0, fmt.Errorf("%w: vector %d has %d components, expected %d", ErrDimensionMismatch, i+1, len(v), dim)
		}
	}
	return dim, nil
}

// NormalizeVector normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v Vector) Vector {
	if len(v) == 0 {
		return v
	}

	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	result := make(Vector, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}
