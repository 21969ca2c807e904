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

// Package bat implements the Binary Association Table: an ordered sequence
// of (head, tail) pairs with per column properties, the engine's universal
// relation representation.
package bat

import (
	"bytes"
	"fmt"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/container/types"
	"github.com/matrixorigin/batcore/pkg/util/metric"
)

const minGrowth = 8

// store is shared by a BAT and its mirrors.
type store struct {
	mp     *mpool.MPool
	cap    int
	setKey bool
}

// BAT is a sequence of pairs. A BAT and its Mirror alias the same
// columns: appending through one is visible through the other.
type BAT[H, T types.Scalar] struct {
	head *Column[H]
	tail *Column[T]
	st   *store
}

// New creates an empty BAT able to hold capacity pairs without growing.
func New[H, T types.Scalar](mp *mpool.MPool, capacity int) (*BAT[H, T], error) {
	b := &BAT[H, T]{
		head: newColumn[H](mp),
		tail: newColumn[T](mp),
		st:   &store{mp: mp, setKey: true},
	}
	if err := b.EnsureRoom(capacity); err != nil {
		b.Free()
		return nil, err
	}
	return b, nil
}

// FromSlices creates a BAT holding the pairs (heads[i], tails[i]).
func FromSlices[H, T types.Scalar](mp *mpool.MPool, heads []H, tails []T) (*BAT[H, T], error) {
	if len(heads) != len(tails) {
		return nil, moerr.NewInvalidArgNoCtx("tails", len(tails))
	}
	b, err := New[H, T](mp, len(heads))
	if err != nil {
		return nil, err
	}
	for i := range heads {
		if err = b.Append(heads[i], tails[i]); err != nil {
			b.Free()
			return nil, err
		}
	}
	return b, nil
}

// NewDenseHead creates a BAT whose head is the sequence base, base+1, ...
// over the given tails.
func NewDenseHead[H types.Integer, T types.Scalar](mp *mpool.MPool, base H, tails []T) (*BAT[H, T], error) {
	hb, err := checkDense(base, len(tails))
	if err != nil {
		return nil, err
	}
	b := &BAT[H, T]{
		head: newColumn[H](mp),
		tail: newColumn[T](mp),
		st:   &store{mp: mp, setKey: true},
	}
	b.head.dense = newDense[H](hb)
	if err = b.EnsureRoom(len(tails)); err != nil {
		b.Free()
		return nil, err
	}
	for _, t := range tails {
		if err = b.Append(base+H(b.Count()), t); err != nil {
			b.Free()
			return nil, err
		}
	}
	return b, nil
}

// NewDense creates a BAT of n pairs whose head and tail are both dense.
func NewDense[H, T types.Integer](mp *mpool.MPool, hbase H, tbase T, n int) (*BAT[H, T], error) {
	hb, err := checkDense(hbase, n)
	if err != nil {
		return nil, err
	}
	tb, err := checkDense(tbase, n)
	if err != nil {
		return nil, err
	}
	b := &BAT[H, T]{
		head: newColumn[H](mp),
		tail: newColumn[T](mp),
		st:   &store{mp: mp, setKey: true, cap: n},
	}
	b.head.dense = newDense[H](hb)
	b.tail.dense = newDense[T](tb)
	b.head.n, b.tail.n = n, n
	b.head.revsorted, b.tail.revsorted = n <= 1, n <= 1
	return b, nil
}

// Valid is false for a nil BAT.
func (b *BAT[H, T]) Valid() bool {
	return b != nil
}

func (b *BAT[H, T]) MPool() *mpool.MPool {
	return b.st.mp
}

func (b *BAT[H, T]) Count() int {
	return b.head.n
}

func (b *BAT[H, T]) Capacity() int {
	return b.st.cap
}

func (b *BAT[H, T]) Head() *Column[H] {
	return b.head
}

func (b *BAT[H, T]) Tail() *Column[T] {
	return b.tail
}

func (b *BAT[H, T]) Get(i int) (H, T) {
	return b.head.Get(i), b.tail.Get(i)
}

// Mirror returns the BAT with head and tail swapped, sharing storage.
func (b *BAT[H, T]) Mirror() *BAT[T, H] {
	return &BAT[T, H]{head: b.tail, tail: b.head, st: b.st}
}

// SetKey reports whether full pairs are known to be unique.
func (b *BAT[H, T]) SetKey() bool {
	return b.st.setKey || b.head.key || b.tail.key
}

func (b *BAT[H, T]) SetSetKey(v bool) {
	b.st.setKey = v
}

// EnsureRoom guarantees room for additional more pairs.
func (b *BAT[H, T]) EnsureRoom(additional int) error {
	need := b.Count() + additional
	if need <= b.st.cap {
		return nil
	}
	cp := b.st.cap * 2
	if cp < need {
		cp = need
	}
	if cp < minGrowth {
		cp = minGrowth
	}
	return b.growTo(cp)
}

func (b *BAT[H, T]) growTo(cp int) error {
	if cp <= b.st.cap {
		return nil
	}
	if err := b.head.reserve(cp); err != nil {
		return err
	}
	if err := b.tail.reserve(cp); err != nil {
		return err
	}
	if b.st.cap > 0 {
		metric.GrowthInc()
	}
	b.st.cap = cp
	return nil
}

// Append adds a pair at the end, growing the BAT when it is full. On error
// the BAT is unchanged.
func (b *BAT[H, T]) Append(h H, t T) error {
	if err := b.EnsureRoom(1); err != nil {
		return err
	}
	if err := b.head.prepare(h, b.st.cap); err != nil {
		return err
	}
	if err := b.tail.prepare(t, b.st.cap); err != nil {
		b.head.rollback()
		return err
	}
	b.head.commit(h)
	b.tail.commit(t)
	if !b.head.key && !b.tail.key {
		b.st.setKey = false
	}
	return nil
}

// Copy returns a BAT with the same pairs and properties, aligned with b.
// Hash indexes are not copied.
func (b *BAT[H, T]) Copy(mp *mpool.MPool) (*BAT[H, T], error) {
	head, err := b.head.clone(mp)
	if err != nil {
		return nil, err
	}
	tail, err := b.tail.clone(mp)
	if err != nil {
		head.free()
		return nil, err
	}
	cp := b.Count()
	return &BAT[H, T]{head: head, tail: tail, st: &store{mp: mp, cap: cp, setKey: b.st.setKey}}, nil
}

// Free releases the storage of b and its mirrors.
func (b *BAT[H, T]) Free() {
	if b == nil {
		return
	}
	b.head.free()
	b.tail.free()
	b.st.cap = 0
}

// Heads returns a copy of the head values.
func (b *BAT[H, T]) Heads() []H {
	r := make([]H, b.Count())
	for i := range r {
		r[i] = b.head.Get(i)
	}
	return r
}

// Tails returns a copy of the tail values.
func (b *BAT[H, T]) Tails() []T {
	r := make([]T, b.Count())
	for i := range r {
		r[i] = b.tail.Get(i)
	}
	return r
}

func (b *BAT[H, T]) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "BAT[%s,%s] count %d\n", b.head.typ, b.tail.typ, b.Count())
	for i := 0; i < b.Count() && i < 16; i++ {
		h, t := b.Get(i)
		fmt.Fprintf(&buf, "  %v\t%v\n", h, t)
	}
	return buf.String()
}

// Aligned reports whether a and b have row for row identical heads,
// without looking at the values.
func Aligned[H1, T1, H2, T2 types.Scalar](a *BAT[H1, T1], b *BAT[H2, T2]) bool {
	return a.Count() == b.Count() && a.head.AlignID() == b.head.AlignID()
}

// SetAligned records that dst holds the same pairs as src, row for row.
func SetAligned[H, T types.Scalar](dst, src *BAT[H, T]) {
	dst.head.align = src.head.AlignID()
	dst.tail.align = src.tail.AlignID()
}
