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

package hashtable

import (
	"github.com/matrixorigin/batcore/pkg/common/mpool"
)

// FixedMap is the direct small table: one position per slot, no chains.
// Callers detect a collision when a slot they put into already holds a
// different key and must then fall back to Hash.
type FixedMap struct {
	mp        *mpool.MPool
	bucketCnt uint64
	// slot value is position + 1, 0 is empty
	bucketData []int32
}

// NewFixedMap sizes the table at four slots per expected key.
func NewFixedMap(mp *mpool.MPool, n int) (*FixedMap, error) {
	cnt := uint64(kInitialBucketCnt)
	for cnt < uint64(n)*4 {
		cnt <<= 1
	}
	data, err := mpool.MakeSlice[int32](mp, int(cnt), int(cnt))
	if err != nil {
		return nil, err
	}
	return &FixedMap{mp: mp, bucketCnt: cnt, bucketData: data}, nil
}

// Get returns the position stored in the slot of hv, or End.
func (ht *FixedMap) Get(hv uint64) int {
	return int(ht.bucketData[hv&(ht.bucketCnt-1)]) - 1
}

// Insert stores pos in the slot of hv if it is empty and returns the
// position that occupies the slot afterwards.
func (ht *FixedMap) Insert(hv uint64, pos int) int {
	slot := hv & (ht.bucketCnt - 1)
	if v := ht.bucketData[slot]; v != 0 {
		return int(v) - 1
	}
	ht.bucketData[slot] = int32(pos + 1)
	return pos
}

func (ht *FixedMap) Free() {
	if ht == nil {
		return
	}
	mpool.FreeSlice(ht.mp, ht.bucketData)
	ht.bucketData = nil
}
