// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"math/bits"
	"math/rand"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

var hashkey [2]uint64

func init() {
	hashkey[0] = rand.Uint64()
	hashkey[1] = rand.Uint64()
}

const (
	m1 = 0xa0761d6478bd642f
	m2 = 0xe7037ed1a0b428db
	m3 = 0x8ebc6af09c88c6e3
	m5 = 0x1d8e4e27c47d124f
)

func mix(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return hi ^ lo
}

// Hash64 is the wyhash finalizer of a fixed size value.
func Hash64(x uint64) uint64 {
	return mix(m5^8, mix(x^m2, x^hashkey[1]^hashkey[0]^m1))
}

// Combine folds the hash of a tail value into the hash of its head.
func Combine(h, t uint64) uint64 {
	return mix(h^m2, t^m3)
}

// HashFunc returns the hash of V. Floats hash -0 and +0 alike.
func HashFunc[V Scalar]() func(V) uint64 {
	var v V
	switch any(v).(type) {
	case string:
		return func(v V) uint64 {
			return xxhash.Sum64String(*(*string)(unsafe.Pointer(&v)))
		}
	case float32, float64:
		return func(v V) uint64 {
			var zero V
			if v == zero {
				v = zero
			}
			return Hash64(load64(v))
		}
	}
	return func(v V) uint64 {
		return Hash64(load64(v))
	}
}

func load64[V Scalar](v V) uint64 {
	switch unsafe.Sizeof(v) {
	case 1:
		return uint64(*(*uint8)(unsafe.Pointer(&v)))
	case 2:
		return uint64(*(*uint16)(unsafe.Pointer(&v)))
	case 4:
		return uint64(*(*uint32)(unsafe.Pointer(&v)))
	}
	return *(*uint64)(unsafe.Pointer(&v))
}
