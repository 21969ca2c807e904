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
	"time"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/types"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

// Union returns l followed by the rows of r without a match in l. Sorted
// operands whose head ranges do not overlap are concatenated lowest first.
func Union[H, T types.Scalar](proc *process.Process, l, r *bat.BAT[H, T], full bool) (*bat.BAT[H, T], error) {
	start := time.Now()
	if err := checkOperands(proc, colexec.Union, full, operandNames, l, r); err != nil {
		return nil, err
	}
	lm, rm := l.Meta(), r.Meta()
	first, second, disjoint := ordered(l, r)
	s, flip := chooseUnion(lm, rm, full, disjoint, proc.Tuning)
	colexec.NoteStrategy(proc.Ctx, proc.Tracer, colexec.Union, s, lm, rm)

	var res *bat.BAT[H, T]
	var err error
	switch s {
	case colexec.Copy:
		first = l
		if l.Count() == 0 {
			first = r
		}
		res, err = first.Copy(proc.Mp)
	case colexec.Disjoint:
		res, err = bat.New[H, T](proc.Mp, l.Count()+r.Count())
		if err == nil {
			if err = appendAll(res, first); err == nil {
				err = appendAll(res, second)
			}
		}
	default:
		first = l
		res, err = bat.New[H, T](proc.Mp, l.Count()+r.Count())
		if err == nil {
			err = appendAll(res, l)
		}
		if err == nil {
			if flip {
				err = runProbe(proc, colexec.Union, s, r.Mirror(), l.Mirror(), res.Mirror(), full, false)
			} else {
				err = runProbe(proc, colexec.Union, s, r, l, res, full, false)
			}
		}
	}
	if err != nil {
		res.Free()
		return nil, moerr.AttachCall(proc.Ctx, err)
	}
	colexec.PropagateUnion(res, l, r, first, full)
	colexec.NoteDone(proc.Ctx, proc.Tracer, colexec.Union, res.Count(), start)
	return res, nil
}

// ordered reports whether l and r are sorted with head ranges apart, and
// returns them lowest first.
func ordered[H, T types.Scalar](l, r *bat.BAT[H, T]) (*bat.BAT[H, T], *bat.BAT[H, T], bool) {
	if l.Count() == 0 || r.Count() == 0 || !l.Head().Sorted() || !r.Head().Sorted() {
		return l, r, false
	}
	lh, rh := l.Head(), r.Head()
	switch {
	case lh.Get(l.Count()-1) < rh.Get(0):
		return l, r, true
	case rh.Get(r.Count()-1) < lh.Get(0):
		return r, l, true
	}
	return l, r, false
}
