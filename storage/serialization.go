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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/udmine/core"
)

// Encoding layout of a cache entry:
//
//	magic "UDVC" | version byte | varint count | count x (varint dim | dim x float32) | 8-byte checksum
//
// The checksum is core.Fingerprint over every preceding byte.
const (
	encodingVersion byte = 1
	checksumSize         = 8
	float32Size          = 4
)

var magic = []byte("UDVC")

// VectorsMUS serializes an ordered list of vectors without the envelope.
var VectorsMUS = vectorsSer{}

var _ mus.Serializer[[]core.Vector] = VectorsMUS

type vectorsSer struct{}

func (vectorsSer) Marshal(vectors []core.Vector, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(len(vectors)), bs)
	for _, v := range vectors {
		n += varint.Uint64.Marshal(uint64(len(v)), bs[n:])
		for _, c := range v {
			n += raw.Float32.Marshal(c, bs[n:])
		}
	}
	return n
}

func (vectorsSer) Unmarshal(bs []byte) (vectors []core.Vector, n int, err error) {
	count, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return nil, n, fmt.Errorf("%w: vector count: %w", core.ErrSerialization, err)
	}
	// Every vector occupies at least one byte, which bounds a forged count.
	if count > uint64(len(bs)-n) {
		return nil, n, ErrTruncatedData
	}

	vectors = make([]core.Vector, 0, count)
	for i := uint64(0); i < count; i++ {
		dim, m, err := varint.Uint64.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, fmt.Errorf("%w: dimension of vector %d: %w", core.ErrSerialization, i, err)
		}
		if dim > uint64(len(bs)-n)/float32Size {
			return nil, n, ErrTruncatedData
		}

		v := make(core.Vector, dim)
		for j := range v {
			v[j], m, err = raw.Float32.Unmarshal(bs[n:])
			n += m
			if err != nil {
				return nil, n, fmt.Errorf("%w: vector %d: %w", core.ErrSerialization, i, err)
			}
		}
		vectors = append(vectors, v)
	}
	return vectors, n, nil
}

func (vectorsSer) Size(vectors []core.Vector) (size int) {
	size = varint.Uint64.Size(uint64(len(vectors)))
	for _, v := range vectors {
		size += varint.Uint64.Size(uint64(len(v)))
		for _, c := range v {
			size += raw.Float32.Size(c)
		}
	}
	return size
}

func (s vectorsSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// MarshalVectors encodes vectors into a self-checking cache entry.
// The output is a pure function of the input.
func MarshalVectors(vectors []core.Vector) []byte {
	header := len(magic) + 1
	buf := make([]byte, header+VectorsMUS.Size(vectors)+checksumSize)

	copy(buf, magic)
	buf[len(magic)] = encodingVersion
	n := header + VectorsMUS.Marshal(vectors, buf[header:])

	binary.LittleEndian.PutUint64(buf[n:], core.Fingerprint(buf[:n]))
	return buf
}

// UnmarshalVectors decodes a cache entry produced by MarshalVectors.
// Any corruption surfaces as an error wrapping core.ErrSerialization.
func UnmarshalVectors(data []byte) ([]core.Vector, error) {
	header := len(magic) + 1
	if len(data) < header+checksumSize {
		return nil, ErrTruncatedData
	}
	if !bytes.Equal(data[:len(magic)], magic) {
		return nil, ErrBadMagic
	}
	if data[len(magic)] != encodingVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[len(magic)])
	}

	body := data[:len(data)-checksumSize]
	want := binary.LittleEndian.Uint64(data[len(body):])
	if core.Fingerprint(body) != want {
		return nil, ErrChecksumMismatch
	}

	vectors, n, err := VectorsMUS.Unmarshal(body[header:])
	if err != nil {
		return nil, err
	}
	if header+n != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes", core.ErrSerialization, len(body)-header-n)
	}
	return vectors, nil
}
