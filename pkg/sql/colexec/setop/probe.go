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

package setop

import (
	"sort"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/hashtable"
	"github.com/matrixorigin/batcore/pkg/container/types"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

// prober appends to res the rows of l that match in r, or the ones that
// miss when keep is false. The operands may be mirrored views.
type prober[H, T types.Scalar] struct {
	proc      *process.Process
	op        colexec.Op
	l, r, res *bat.BAT[H, T]
	full      bool
	keep      bool
}

func runProbe[H, T types.Scalar](proc *process.Process, op colexec.Op, s colexec.Strategy, l, r, res *bat.BAT[H, T],
	full, keep bool) error {
	p := &prober[H, T]{proc: proc, op: op, l: l, r: r, res: res, full: full, keep: keep}
	switch s {
	case colexec.Empty:
		return p.each(0, l.Count(), p.miss)
	case colexec.Dense:
		return p.dense()
	case colexec.Direct:
		ok, err := p.direct()
		if err != nil || ok {
			return err
		}
		colexec.NoteFallback(proc.Ctx, proc.Tracer, op, colexec.Direct, colexec.Hash)
		return p.hash()
	case colexec.Hash:
		return p.hash()
	case colexec.Merge:
		return p.merge()
	}
	return moerr.NewInternalError(proc.Ctx, "%s strategy %s", op, s)
}

func (p *prober[H, T]) miss(int) bool {
	return false
}

// each visits the rows of l in [from, to). match is only asked about rows
// without nil.
func (p *prober[H, T]) each(from, to int, match func(i int) bool) error {
	for i := from; i < to; i++ {
		matched := matchable(p.l, i, p.full) && match(i)
		if matched != p.keep {
			continue
		}
		if err := p.res.Append(p.l.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

// dense looks positions up in the dense head of r. A sorted l is cut in
// three, only the rows inside the range of r are looked up.
func (p *prober[H, T]) dense() error {
	lh, lt := p.l.Head(), p.l.Tail()
	rh, rt := p.r.Head(), p.r.Tail()
	n := p.l.Count()
	lo, hi := 0, n
	if lh.Sorted() {
		first, last := rh.Get(0), rh.Get(p.r.Count()-1)
		lo = sort.Search(n, func(i int) bool { return lh.Get(i) >= first })
		hi = sort.Search(n, func(i int) bool { return lh.Get(i) > last })
	}
	if err := p.each(0, lo, p.miss); err != nil {
		return err
	}
	err := p.each(lo, hi, func(i int) bool {
		pos, ok := rh.DensePos(lh.Get(i))
		return ok && (!p.full || rt.Get(pos) == lt.Get(i))
	})
	if err != nil {
		return err
	}
	return p.each(hi, n, p.miss)
}

// direct uses a table with one row of r per slot. It returns false when two
// different keys of r share a slot, nothing is appended then.
func (p *prober[H, T]) direct() (bool, error) {
	fm, err := hashtable.NewFixedMap(p.proc.Mp, p.r.Count())
	if err != nil {
		return false, err
	}
	defer fm.Free()
	for j := 0; j < p.r.Count(); j++ {
		if !matchable(p.r, j, p.full) {
			continue
		}
		if q := fm.Insert(keyHash(p.r, j, p.full), j); q != j && !sameKey(p.r, q, p.r, j, p.full) {
			return false, nil
		}
	}
	return true, p.each(0, p.l.Count(), func(i int) bool {
		q := fm.Get(keyHash(p.l, i, p.full))
		return q != hashtable.End && sameKey(p.r, q, p.l, i, p.full)
	})
}

// hash probes the hash index of r.head, building it when missing. A built
// index stays on r unless the call fails.
func (p *prober[H, T]) hash() error {
	rh := p.r.Head()
	built, err := rh.BuildHash()
	if err != nil {
		return err
	}
	idx := rh.HashIndex()
	lh := p.l.Head()
	err = p.each(0, p.l.Count(), func(i int) bool {
		v := lh.Get(i)
		if !p.full {
			return rh.Find(v) != hashtable.End
		}
		hv := rh.Hash(v)
		for q := idx.First(hv); q != hashtable.End; q = idx.Next(q) {
			if idx.HashAt(q) == hv && sameKey(p.r, q, p.l, i, true) {
				return true
			}
		}
		return false
	})
	if err != nil && built {
		rh.DropHash()
	}
	return err
}

// merge walks both heads in ascending order with one cursor on r.
func (p *prober[H, T]) merge() error {
	lh, lt := p.l.Head(), p.l.Tail()
	rh, rt := p.r.Head(), p.r.Tail()
	m, j := p.r.Count(), 0
	return p.each(0, p.l.Count(), func(i int) bool {
		v := lh.Get(i)
		for j < m && rh.Get(j) < v {
			j++
		}
		if !p.full {
			return j < m && rh.Get(j) == v
		}
		for k := j; k < m && rh.Get(k) == v; k++ {
			if rt.Get(k) == lt.Get(i) {
				return true
			}
		}
		return false
	})
}
