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


package storage

import (
	"errors"
	"fmt"

	"github.com/poiesic/udmine/core"
)

var (
	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidKey indicates a key that cannot address a cache entry.
	ErrInvalidKey = errors.New("invalid cache key")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = fmt.Errorf("%w: truncated data", core.ErrSerialization)

	// ErrBadMagic indicates the data is not a vector list.
	ErrBadMagic = fmt.Errorf("%w: bad magic", core.ErrSerialization)

	// ErrUnsupportedVersion indicates an encoding version this build cannot read.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", core.ErrSerialization)

	// ErrChecksumMismatch indicates the payload does not match its checksum.
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", core.ErrSerialization)
)

// ValidateKey returns ErrInvalidKey unless key is usable as a cache key.
func ValidateKey(key string) error {
	if !core.ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
