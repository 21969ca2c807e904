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

// Package setop implements union, difference, intersection and
// deduplication of BATs. With full false rows are compared on their head
// only, with full true on the whole (head, tail) pair. A row holding a nil
// in a compared column never matches.
package setop

import (
	"time"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/types"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

var (
	chooseProbe  = colexec.ChooseProbe
	chooseUnion  = colexec.ChooseUnion
	chooseUnique = colexec.ChooseUnique
)

var (
	operandNames = []string{"l", "r"}
	uniqueNames  = []string{"b"}
)

// Diff returns the rows of l without a match in r, in l order.
func Diff[H, T types.Scalar](proc *process.Process, l, r *bat.BAT[H, T], full bool) (*bat.BAT[H, T], error) {
	return probe(proc, colexec.Diff, l, r, full, false)
}

// Intersect returns the rows of l with a match in r, in l order.
func Intersect[H, T types.Scalar](proc *process.Process, l, r *bat.BAT[H, T], full bool) (*bat.BAT[H, T], error) {
	return probe(proc, colexec.Intersect, l, r, full, true)
}

func probe[H, T types.Scalar](proc *process.Process, op colexec.Op, l, r *bat.BAT[H, T],
	full, keep bool) (*bat.BAT[H, T], error) {
	start := time.Now()
	if err := checkOperands(proc, op, full, operandNames, l, r); err != nil {
		return nil, err
	}
	lm, rm := l.Meta(), r.Meta()
	s, flip := chooseProbe(lm, rm, full, proc.Tuning)
	colexec.NoteStrategy(proc.Ctx, proc.Tracer, op, s, lm, rm)

	cp := l.Count()
	if keep && r.Count() < cp {
		cp = r.Count()
	}
	res, err := bat.New[H, T](proc.Mp, cp)
	if err != nil {
		return nil, moerr.AttachCall(proc.Ctx, err)
	}
	if flip {
		err = runProbe(proc, op, s, l.Mirror(), r.Mirror(), res.Mirror(), full, keep)
	} else {
		err = runProbe(proc, op, s, l, r, res, full, keep)
	}
	if err != nil {
		res.Free()
		return nil, moerr.AttachCall(proc.Ctx, err)
	}
	colexec.PropagateSubset(res, l)
	colexec.NoteDone(proc.Ctx, proc.Tracer, op, res.Count(), start)
	return res, nil
}

func checkOperands[H, T types.Scalar](proc *process.Process, op colexec.Op, full bool, names []string,
	bats ...*bat.BAT[H, T]) error {
	ops := make([]colexec.Operand, len(bats))
	for i, b := range bats {
		ops[i] = b
	}
	if err := colexec.CheckOperands(proc.Ctx, names, ops...); err != nil {
		return err
	}
	if err := colexec.CheckRegistered(proc.Ctx, op, types.TypeOf[H]()); err != nil {
		return err
	}
	if full {
		return colexec.CheckRegistered(proc.Ctx, op, types.TypeOf[T]())
	}
	return nil
}

// keyHash hashes the compared columns of row i.
func keyHash[H, T types.Scalar](b *bat.BAT[H, T], i int, full bool) uint64 {
	h := b.Head().Hash(b.Head().Get(i))
	if full {
		h = types.Combine(h, b.Tail().Hash(b.Tail().Get(i)))
	}
	return h
}

func sameKey[H, T types.Scalar](a *bat.BAT[H, T], i int, b *bat.BAT[H, T], j int, full bool) bool {
	if a.Head().Get(i) != b.Head().Get(j) {
		return false
	}
	return !full || a.Tail().Get(i) == b.Tail().Get(j)
}

// matchable reports whether row i holds no nil in a compared column.
func matchable[H, T types.Scalar](b *bat.BAT[H, T], i int, full bool) bool {
	if b.Head().IsNil(i) {
		return false
	}
	return !full || !b.Tail().IsNil(i)
}

func appendAll[H, T types.Scalar](res, b *bat.BAT[H, T]) error {
	for i := 0; i < b.Count(); i++ {
		if err := res.Append(b.Get(i)); err != nil {
			return err
		}
	}
	return nil
}
