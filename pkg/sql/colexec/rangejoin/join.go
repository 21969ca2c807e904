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

// Package rangejoin joins a BAT against per row bounds: a left row x
// matches row i when rl.tail[i] <= x.tail <= rh.tail[i], each bound being
// inclusive or exclusive.
package rangejoin

import (
	"time"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/types"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

var operandNames = []string{"left", "rl", "rh"}

// Join returns (left.head[x], rl.head[i]) for every left row x and bound
// row i whose tails satisfy the predicate. Output follows the left order.
func Join[H1, V, H2 types.Scalar](proc *process.Process, left *bat.BAT[H1, V], rl, rh *bat.BAT[H2, V],
	loIncl, hiIncl bool) (*bat.BAT[H1, H2], error) {
	start := time.Now()
	if err := colexec.CheckOperands(proc.Ctx, operandNames, left, rl, rh); err != nil {
		return nil, err
	}
	if err := colexec.CheckLinear(proc.Ctx, colexec.RangeJoin, "tail", left.Tail().Type()); err != nil {
		return nil, err
	}
	if err := checkAligned(proc, rl, rh); err != nil {
		return nil, err
	}

	s := colexec.Nested
	if left.Count() == 0 || rl.Count() == 0 {
		s = colexec.Empty
	}
	colexec.NoteStrategy(proc.Ctx, proc.Tracer, colexec.RangeJoin, s, left.Meta(), rl.Meta())

	res, err := bat.New[H1, H2](proc.Mp, 0)
	if err != nil {
		return nil, moerr.AttachCall(proc.Ctx, err)
	}
	if s == colexec.Nested {
		if err = nested(res, left, rl, rh, predicate[V](loIncl, hiIncl)); err != nil {
			res.Free()
			return nil, moerr.AttachCall(proc.Ctx, err)
		}
	}
	colexec.PropagateJoin(res, left.Head().Meta(), true)
	colexec.NoteDone(proc.Ctx, proc.Tracer, colexec.RangeJoin, res.Count(), start)
	return res, nil
}

// checkAligned requires the bounds to describe the same rows.
func checkAligned[H2, V types.Scalar](proc *process.Process, rl, rh *bat.BAT[H2, V]) error {
	if rl.Count() != rh.Count() {
		return moerr.NewMisalignedOperand(proc.Ctx, "rl, rh", "count %d != %d", rl.Count(), rh.Count())
	}
	if bat.Aligned(rl, rh) {
		return nil
	}
	lh, hh := rl.Head(), rh.Head()
	for i := 0; i < rl.Count(); i++ {
		if lh.Get(i) != hh.Get(i) {
			return moerr.NewMisalignedOperand(proc.Ctx, "rl, rh", "head %v != %v at row %d", lh.Get(i), hh.Get(i), i)
		}
	}
	return nil
}

func predicate[V types.Scalar](loIncl, hiIncl bool) func(x, lo, hi V) bool {
	switch {
	case loIncl && hiIncl:
		return func(x, lo, hi V) bool { return lo <= x && x <= hi }
	case loIncl:
		return func(x, lo, hi V) bool { return lo <= x && x < hi }
	case hiIncl:
		return func(x, lo, hi V) bool { return lo < x && x <= hi }
	default:
		return func(x, lo, hi V) bool { return lo < x && x < hi }
	}
}

func nested[H1, V, H2 types.Scalar](res *bat.BAT[H1, H2], left *bat.BAT[H1, V], rl, rh *bat.BAT[H2, V],
	match func(x, lo, hi V) bool) error {
	g := bat.NewGrower(res, left.Count())
	lt, lot, hit := left.Tail(), rl.Tail(), rh.Tail()
	for i := 0; i < left.Count(); i++ {
		if lt.IsNil(i) {
			g.Next()
			continue
		}
		x := lt.Get(i)
		for j := 0; j < rl.Count(); j++ {
			if lot.IsNil(j) || hit.IsNil(j) {
				continue
			}
			if match(x, lot.Get(j), hit.Get(j)) {
				if err := g.Append(left.Head().Get(i), rl.Head().Get(j)); err != nil {
					return err
				}
			}
		}
		g.Next()
	}
	return nil
}
