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

// Package hashtable holds the index structures consumed by operators: a
// chained hash over the positions of a column and a fixed slot table for
// small probe sides.
package hashtable

import (
	"github.com/matrixorigin/batcore/pkg/common/mpool"
)

const (
	kInitialBucketCntBits = 4
	kInitialBucketCnt     = 1 << kInitialBucketCntBits

	kLoadFactorNumerator   = 1
	kLoadFactorDenominator = 1
)

// End terminates a chain.
const End = -1

// Hash is a chained index over positions 0..Len()-1. Chains are threaded
// through links, buckets hold the most recently added position of a chain.
// The hash of every position is kept so the table can be resized without
// access to the keys.
type Hash struct {
	mp         *mpool.MPool
	mask       uint64
	maxElemCnt int
	buckets    []int32
	links      []int32
	hashes     []uint64
}

// New creates an index sized for n positions.
func New(mp *mpool.MPool, n int) (*Hash, error) {
	cnt := uint64(kInitialBucketCnt)
	for cnt*kLoadFactorNumerator/kLoadFactorDenominator < uint64(n) {
		cnt <<= 1
	}
	h := &Hash{mp: mp}
	if err := h.allocBuckets(cnt); err != nil {
		return nil, err
	}
	var err error
	if h.links, err = mpool.MakeSlice[int32](mp, 0, n); err != nil {
		h.Free()
		return nil, err
	}
	if h.hashes, err = mpool.MakeSlice[uint64](mp, 0, n); err != nil {
		h.Free()
		return nil, err
	}
	return h, nil
}

func (h *Hash) allocBuckets(cnt uint64) error {
	buckets, err := mpool.MakeSlice[int32](h.mp, int(cnt), int(cnt))
	if err != nil {
		return err
	}
	for i := range buckets {
		buckets[i] = End
	}
	mpool.FreeSlice(h.mp, h.buckets)
	h.buckets = buckets
	h.mask = cnt - 1
	h.maxElemCnt = int(cnt * kLoadFactorNumerator / kLoadFactorDenominator)
	return nil
}

// Len returns the number of indexed positions.
func (h *Hash) Len() int {
	return len(h.links)
}

// Add indexes the next position, Len(), with hash hv.
func (h *Hash) Add(hv uint64) error {
	if err := h.resizeOnDemand(1); err != nil {
		return err
	}
	pos := int32(len(h.links))
	links, err := grow(h.mp, h.links)
	if err != nil {
		return err
	}
	h.links = links
	hashes, err := grow(h.mp, h.hashes)
	if err != nil {
		return err
	}
	h.hashes = hashes
	slot := hv & h.mask
	h.links = append(h.links, h.buckets[slot])
	h.hashes = append(h.hashes, hv)
	h.buckets[slot] = pos
	return nil
}

func grow[T any](mp *mpool.MPool, s []T) ([]T, error) {
	if len(s) < cap(s) {
		return s, nil
	}
	c := cap(s) * 2
	if c < kInitialBucketCnt {
		c = kInitialBucketCnt
	}
	return mpool.GrowSlice(mp, s, c)
}

func (h *Hash) resizeOnDemand(n int) error {
	if len(h.links)+n <= h.maxElemCnt {
		return nil
	}
	cnt := uint64(len(h.buckets)) << 1
	for int(cnt*kLoadFactorNumerator/kLoadFactorDenominator) < len(h.links)+n {
		cnt <<= 1
	}
	if err := h.allocBuckets(cnt); err != nil {
		return err
	}
	// rethread from the first position so chains keep the newest first
	for i, hv := range h.hashes {
		slot := hv & h.mask
		h.links[i] = h.buckets[slot]
		h.buckets[slot] = int32(i)
	}
	return nil
}

// Pop removes the last added position.
func (h *Hash) Pop() {
	last := len(h.links) - 1
	if last < 0 {
		return
	}
	h.buckets[h.hashes[last]&h.mask] = h.links[last]
	h.links = h.links[:last]
	h.hashes = h.hashes[:last]
}

// First returns the newest position whose hash shares the bucket of hv, or
// End.
func (h *Hash) First(hv uint64) int {
	return int(h.buckets[hv&h.mask])
}

// Next returns the position following pos in its chain, or End.
func (h *Hash) Next(pos int) int {
	return int(h.links[pos])
}

// HashAt returns the hash recorded for pos.
func (h *Hash) HashAt(pos int) uint64 {
	return h.hashes[pos]
}

// Find walks the chain of hv and returns the first position accepted by eq,
// or End.
func (h *Hash) Find(hv uint64, eq func(pos int) bool) int {
	for p := h.First(hv); p != End; p = h.Next(p) {
		if h.hashes[p] == hv && eq(p) {
			return p
		}
	}
	return End
}

// Size returns the bytes charged to the pool.
func (h *Hash) Size() int64 {
	return int64(cap(h.buckets))*4 + int64(cap(h.links))*4 + int64(cap(h.hashes))*8
}

func (h *Hash) Free() {
	if h == nil {
		return
	}
	mpool.FreeSlice(h.mp, h.buckets)
	mpool.FreeSlice(h.mp, h.links)
	mpool.FreeSlice(h.mp, h.hashes)
	h.buckets, h.links, h.hashes = nil, nil, nil
}
