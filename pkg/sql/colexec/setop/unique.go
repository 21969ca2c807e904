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
	"encoding/binary"
	"time"

	hll "github.com/axiomhq/hyperloglog"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/hashtable"
	"github.com/matrixorigin/batcore/pkg/container/types"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

// Unique returns the first row of every distinct key of b, in b order.
// Nils are values here: all nil keys collapse into one row.
func Unique[H, T types.Scalar](proc *process.Process, b *bat.BAT[H, T], full bool) (*bat.BAT[H, T], error) {
	start := time.Now()
	if err := checkOperands(proc, colexec.Unique, full, uniqueNames, b); err != nil {
		return nil, err
	}
	bm := b.Meta()
	s := chooseUnique(bm, full, proc.Tuning)
	colexec.NoteStrategy(proc.Ctx, proc.Tracer, colexec.Unique, s, bm, bat.Meta{})

	var res *bat.BAT[H, T]
	var err error
	if s == colexec.Copy {
		res, err = b.Copy(proc.Mp)
	} else {
		res, err = bat.New[H, T](proc.Mp, estimate(proc, b, full))
		if err == nil {
			u := &deduper[H, T]{proc: proc, b: b, res: res, full: full}
			err = u.run(s)
		}
	}
	if err != nil {
		res.Free()
		return nil, moerr.AttachCall(proc.Ctx, err)
	}
	colexec.PropagateUnique(res, b, full)
	colexec.NoteDone(proc.Ctx, proc.Tracer, colexec.Unique, res.Count(), start)
	return res, nil
}

// estimate sizes the result. Large inputs are sized from a distinct count
// estimate, the others from their count.
func estimate[H, T types.Scalar](proc *process.Process, b *bat.BAT[H, T], full bool) int {
	n := b.Count()
	if n <= proc.Tuning.EstimateLimit {
		return n
	}
	sk := hll.New()
	var buf [8]byte
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(buf[:], keyHash(b, i, full))
		sk.Insert(buf[:])
	}
	est := sk.Estimate()
	proc.Tracer.Estimate(proc.Ctx, colexec.Unique, n, est)
	if est < uint64(n) {
		return int(est)
	}
	return n
}

type deduper[H, T types.Scalar] struct {
	proc   *process.Process
	b, res *bat.BAT[H, T]
	full   bool
}

func (u *deduper[H, T]) run(s colexec.Strategy) error {
	switch s {
	case colexec.Sorted:
		return u.sorted()
	case colexec.Direct:
		from, err := u.direct()
		if err != nil || from == u.b.Count() {
			return err
		}
		colexec.NoteFallback(u.proc.Ctx, u.proc.Tracer, colexec.Unique, colexec.Direct, colexec.Hash)
		return u.hash(from)
	case colexec.Hash:
		return u.hash(0)
	}
	return moerr.NewInternalError(u.proc.Ctx, "unique strategy %s", s)
}

// sorted keeps the first row of each run of equal heads.
func (u *deduper[H, T]) sorted() error {
	bh := u.b.Head()
	for i := 0; i < u.b.Count(); i++ {
		if i > 0 && bh.Get(i) == bh.Get(i-1) {
			continue
		}
		if err := u.res.Append(u.b.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

// direct dedups through a table with one result row per slot. It returns
// the row where two different keys met in a slot, or the count of b.
func (u *deduper[H, T]) direct() (int, error) {
	fm, err := hashtable.NewFixedMap(u.proc.Mp, u.b.Count())
	if err != nil {
		return 0, err
	}
	defer fm.Free()
	for i := 0; i < u.b.Count(); i++ {
		hv := keyHash(u.b, i, u.full)
		if q := fm.Get(hv); q != hashtable.End {
			if sameKey(u.res, q, u.b, i, u.full) {
				continue
			}
			return i, nil
		}
		if err = u.res.Append(u.b.Get(i)); err != nil {
			return 0, err
		}
		fm.Insert(hv, u.res.Count()-1)
	}
	return u.b.Count(), nil
}

// hash dedups rows from on through the hash index of the result head,
// which appends keep up to date.
func (u *deduper[H, T]) hash(from int) error {
	rh, rt := u.res.Head(), u.res.Tail()
	if _, err := rh.BuildHash(); err != nil {
		return err
	}
	idx := rh.HashIndex()
	for i := from; i < u.b.Count(); i++ {
		h, t := u.b.Get(i)
		if !u.full {
			if rh.Find(h) != hashtable.End {
				continue
			}
		} else if found(idx, rh, rt, h, t) {
			continue
		}
		if err := u.res.Append(h, t); err != nil {
			return err
		}
	}
	return nil
}

func found[H, T types.Scalar](idx *hashtable.Hash, rh *bat.Column[H], rt *bat.Column[T], h H, t T) bool {
	hv := rh.Hash(h)
	for q := idx.First(hv); q != hashtable.End; q = idx.Next(q) {
		if idx.HashAt(q) == hv && rh.Get(q) == h && rt.Get(q) == t {
			return true
		}
	}
	return false
}
