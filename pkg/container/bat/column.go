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

package bat

import (
	"sync/atomic"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/container/hashtable"
	"github.com/matrixorigin/batcore/pkg/container/nulls"
	"github.com/matrixorigin/batcore/pkg/container/types"
)

var nextAlign atomic.Int64

// dense describes a column whose value at position i is base + i. It holds
// the conversions between V and int64, so only integer columns get one.
type dense[V types.Scalar] struct {
	base int64
	at   func(int64) V
	off  func(V) (int64, bool)
}

func newDense[V types.Integer](base int64) *dense[V] {
	return &dense[V]{
		base: base,
		at:   func(k int64) V { return V(k) },
		off: func(v V) (int64, bool) {
			k := int64(v)
			return k, V(k) == v && (k < 0) == (v < 0)
		},
	}
}

// Column is one side of a BAT. A dense column stores nothing until a value
// breaking its sequence is appended.
type Column[V types.Scalar] struct {
	mp     *mpool.MPool
	typ    types.T
	vals   []V
	n      int
	dense  *dense[V]
	nsp    nulls.Nulls
	isNil  func(V) bool
	hashFn func(V) uint64
	hash   *hashtable.Hash
	// align identifies the content of the column, 0 means not assigned yet
	align int64

	sorted    bool
	revsorted bool
	key       bool
}

func newColumn[V types.Scalar](mp *mpool.MPool) *Column[V] {
	return &Column[V]{
		mp:        mp,
		typ:       types.TypeOf[V](),
		isNil:     types.NilFunc[V](),
		hashFn:    types.HashFunc[V](),
		sorted:    true,
		revsorted: true,
		key:       true,
	}
}

func (c *Column[V]) Type() types.T {
	return c.typ
}

func (c *Column[V]) Len() int {
	return c.n
}

// Get returns the value at position i.
func (c *Column[V]) Get(i int) V {
	if c.dense != nil {
		return c.dense.at(c.dense.base + int64(i))
	}
	return c.vals[i]
}

// IsNil reports whether position i holds the nil sentinel.
func (c *Column[V]) IsNil(i int) bool {
	return c.nsp.Contains(uint64(i))
}

func (c *Column[V]) Hash(v V) uint64 {
	return c.hashFn(v)
}

func (c *Column[V]) Sorted() bool {
	return c.sorted
}

func (c *Column[V]) RevSorted() bool {
	return c.revsorted
}

func (c *Column[V]) Key() bool {
	return c.key
}

func (c *Column[V]) NoNil() bool {
	return !c.nsp.Any()
}

func (c *Column[V]) Dense() bool {
	return c.dense != nil
}

func (c *Column[V]) SetSorted(v bool) {
	c.sorted = v
}

func (c *Column[V]) SetRevSorted(v bool) {
	c.revsorted = v
}

// SetKey declares the column free of duplicates. Only operators that know
// it set it, appends keep it as long as they can prove it.
func (c *Column[V]) SetKey(v bool) {
	c.key = v
}

// Base returns the first value of a dense column.
func (c *Column[V]) Base() int64 {
	return c.dense.base
}

// Offset converts v to the integer domain of a dense column, false when v
// does not fit in it.
func (c *Column[V]) Offset(v V) (int64, bool) {
	return c.dense.off(v)
}

// At converts back from the integer domain of a dense column.
func (c *Column[V]) At(k int64) V {
	return c.dense.at(k)
}

// DensePos returns the position of v in a dense column.
func (c *Column[V]) DensePos(v V) (int, bool) {
	k, ok := c.dense.off(v)
	if !ok || k < c.dense.base || k-c.dense.base >= int64(c.n) {
		return 0, false
	}
	return int(k - c.dense.base), true
}

// AlignID identifies the content of the column: two columns with the same
// id and length hold the same values row for row.
func (c *Column[V]) AlignID() int64 {
	if c.align == 0 {
		c.align = nextAlign.Add(1)
	}
	return c.align
}

func (c *Column[V]) HasHash() bool {
	return c.hash != nil
}

// HashIndex returns the hash built on the column, nil when there is none.
func (c *Column[V]) HashIndex() *hashtable.Hash {
	return c.hash
}

// BuildHash attaches a hash index over the column. The index is a cache:
// later appends maintain it. It reports whether a new index was built.
func (c *Column[V]) BuildHash() (bool, error) {
	if c.hash != nil {
		return false, nil
	}
	h, err := hashtable.New(c.mp, c.n)
	if err != nil {
		return false, err
	}
	for i := 0; i < c.n; i++ {
		if err = h.Add(c.hashFn(c.Get(i))); err != nil {
			h.Free()
			return false, err
		}
	}
	c.hash = h
	return true, nil
}

// DropHash frees the hash index.
func (c *Column[V]) DropHash() {
	c.hash.Free()
	c.hash = nil
}

// Find returns a position holding v using the hash index, or -1.
func (c *Column[V]) Find(v V) int {
	return c.hash.Find(c.hashFn(v), func(p int) bool { return c.Get(p) == v })
}

func (c *Column[V]) reserve(n int) error {
	if c.dense != nil || cap(c.vals) >= n {
		return nil
	}
	vals, err := mpool.GrowSlice(c.mp, c.vals, n)
	if err != nil {
		return err
	}
	c.vals = vals
	return nil
}

// materialize stores the values of a dense column in a slice of capacity cp.
func (c *Column[V]) materialize(cp int) error {
	if cp < c.n+1 {
		cp = c.n + 1
	}
	vals, err := mpool.MakeSlice[V](c.mp, c.n, cp)
	if err != nil {
		return err
	}
	for i := range vals {
		vals[i] = c.dense.at(c.dense.base + int64(i))
	}
	c.vals = vals
	c.dense = nil
	return nil
}

// prepare does everything that can fail before v is written at position n.
func (c *Column[V]) prepare(v V, cp int) error {
	if c.dense != nil {
		if k, ok := c.dense.off(v); !ok || k != c.dense.base+int64(c.n) || c.isNil(v) {
			if err := c.materialize(cp); err != nil {
				return err
			}
		}
	}
	if c.hash != nil {
		if c.key && c.Find(v) != hashtable.End {
			c.key = false
		}
		if err := c.hash.Add(c.hashFn(v)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Column[V]) rollback() {
	if c.hash != nil {
		c.hash.Pop()
	}
}

func (c *Column[V]) commit(v V) {
	if c.n > 0 {
		prev := c.Get(c.n - 1)
		if c.key && c.hash == nil && !(c.sorted && prev < v) && !(c.revsorted && prev > v) {
			c.key = false
		}
		c.sorted = c.sorted && prev <= v
		c.revsorted = c.revsorted && prev >= v
	}
	if c.isNil(v) {
		c.nsp.Set(uint64(c.n))
	}
	if c.dense == nil {
		c.vals = append(c.vals, v)
	}
	c.n++
	c.align = 0
}

func (c *Column[V]) clone(mp *mpool.MPool) (*Column[V], error) {
	r := newColumn[V](mp)
	r.n = c.n
	r.dense = c.dense
	r.align = c.AlignID()
	r.sorted, r.revsorted, r.key = c.sorted, c.revsorted, c.key
	if np := c.nsp.Clone(); np != nil {
		r.nsp = *np
	}
	if c.dense == nil {
		vals, err := mpool.MakeSlice[V](mp, c.n, c.n)
		if err != nil {
			return nil, err
		}
		copy(vals, c.vals)
		r.vals = vals
	}
	return r, nil
}

func (c *Column[V]) free() {
	mpool.FreeSlice(c.mp, c.vals)
	c.vals = nil
	c.DropHash()
}

func checkDense[V types.Integer](base V, n int) (int64, error) {
	b := int64(base)
	if V(b) != base || (b < 0) != (base < 0) {
		return 0, moerr.NewInvalidArgNoCtx("dense base", base)
	}
	if n == 0 {
		return b, nil
	}
	last := V(b + int64(n-1))
	if b+int64(n-1) < b || last < base || int64(last) != b+int64(n-1) {
		return 0, moerr.NewInvalidArgNoCtx("dense count", n)
	}
	if types.IsNil(base) || types.IsNil(last) {
		return 0, moerr.NewInvalidArgNoCtx("dense range", base)
	}
	return b, nil
}
