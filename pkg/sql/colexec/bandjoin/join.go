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

// Package bandjoin joins left.tail against right.head with a band
// predicate right.head - lm <= left.tail <= right.head + hm.
package bandjoin

import (
	"time"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/types"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

var operandNames = []string{"left", "right"}

var chooseBand = colexec.ChooseBand

// Join returns (left.head[x], right.tail[y]) for every pair of rows with
// right.head[y] - lm <= left.tail[x] <= right.head[y] + hm. loIncl and
// hiIncl select <= or < on each side. Margins must not be negative.
func Join[H types.Scalar, V types.Number, T types.Scalar](proc *process.Process, left *bat.BAT[H, V], right *bat.BAT[V, T],
	lm, hm V, loIncl, hiIncl bool) (*bat.BAT[H, T], error) {
	start := time.Now()
	if err := colexec.CheckOperands(proc.Ctx, operandNames, left, right); err != nil {
		return nil, err
	}
	if err := colexec.CheckNumeric(proc.Ctx, colexec.BandJoin, "tail", left.Tail().Type()); err != nil {
		return nil, err
	}
	var zero V
	if !(lm >= zero) {
		return nil, moerr.NewInvalidArg(proc.Ctx, "band low margin", lm)
	}
	if !(hm >= zero) {
		return nil, moerr.NewInvalidArg(proc.Ctx, "band high margin", hm)
	}
	p := &band[V]{lm: lm, hm: hm, loIncl: loIncl, hiIncl: hiIncl}

	lmeta, rmeta := left.Meta(), right.Meta()
	s := chooseBand(lmeta, rmeta, proc.Tuning)
	colexec.NoteStrategy(proc.Ctx, proc.Tracer, colexec.BandJoin, s, lmeta, rmeta)

	res, err := bat.New[H, T](proc.Mp, 0)
	if err != nil {
		return nil, moerr.AttachCall(proc.Ctx, err)
	}
	// left order is kept by left driven loops only
	ordered := true
	switch s {
	case colexec.Empty:
	case colexec.Nested:
		err = nested(res, left, right, p)
	case colexec.Merge:
		ordered = false
		err = merge(proc.Mp, res, left, right, p)
	case colexec.DenseRight, colexec.DenseLeft:
		var fits bool
		if s == colexec.DenseRight {
			fits, err = denseRight(res, left, right, p)
		} else {
			ordered = false
			fits, err = denseLeft(res, left, right, p)
		}
		if err == nil && !fits {
			colexec.NoteFallback(proc.Ctx, proc.Tracer, colexec.BandJoin, s, colexec.Nested)
			ordered = true
			err = nested(res, left, right, p)
		}
	default:
		err = moerr.NewInternalError(proc.Ctx, "band join strategy %s", s)
	}
	if err != nil {
		res.Free()
		return nil, moerr.AttachCall(proc.Ctx, err)
	}
	colexec.PropagateJoin(res, lmeta.Head, ordered)
	colexec.NoteDone(proc.Ctx, proc.Tracer, colexec.BandJoin, res.Count(), start)
	return res, nil
}

func nested[H types.Scalar, V types.Number, T types.Scalar](res *bat.BAT[H, T], left *bat.BAT[H, V], right *bat.BAT[V, T],
	p *band[V]) error {
	g := bat.NewGrower(res, left.Count())
	lt := left.Tail()
	for i := 0; i < left.Count(); i++ {
		if !lt.IsNil(i) {
			if err := scanRight(g, left.Head().Get(i), lt.Get(i), right, p); err != nil {
				return err
			}
		}
		g.Next()
	}
	return nil
}

// scanRight appends (h, right.tail[y]) for every y matching x.
func scanRight[H types.Scalar, V types.Number, T types.Scalar](g *bat.Grower[H, T], h H, x V, right *bat.BAT[V, T],
	p *band[V]) error {
	rh, rt := right.Head(), right.Tail()
	for j := 0; j < right.Count(); j++ {
		if rh.IsNil(j) || !p.match(x, rh.Get(j)) {
			continue
		}
		if err := g.Append(h, rt.Get(j)); err != nil {
			return err
		}
	}
	return nil
}

// scanLeft appends (left.head[x], t) for every x matching ref.
func scanLeft[H types.Scalar, V types.Number, T types.Scalar](g *bat.Grower[H, T], left *bat.BAT[H, V], ref V, t T,
	p *band[V]) error {
	lh, lt := left.Head(), left.Tail()
	for i := 0; i < left.Count(); i++ {
		if lt.IsNil(i) || !p.match(lt.Get(i), ref) {
			continue
		}
		if err := g.Append(lh.Get(i), t); err != nil {
			return err
		}
	}
	return nil
}

// merge slides a window over left sorted on its tail while right is
// walked in head order. Both bounds of the window only move forward.
func merge[H types.Scalar, V types.Number, T types.Scalar](mp *mpool.MPool, res *bat.BAT[H, T], left *bat.BAT[H, V],
	right *bat.BAT[V, T], p *band[V]) error {
	sl, owned, err := bat.Sorted(mp, left.Mirror())
	if err != nil {
		return err
	}
	if owned {
		defer sl.Free()
	}
	sr, owned, err := bat.Sorted(mp, right)
	if err != nil {
		return err
	}
	if owned {
		defer sr.Free()
	}

	l := sl.Mirror()
	lh, lt := l.Head(), l.Tail()
	rh, rt := sr.Head(), sr.Tail()
	g := bat.NewGrower(res, sr.Count())
	lo, end, n := 0, 0, l.Count()
	for j := 0; j < sr.Count(); j++ {
		if rh.IsNil(j) {
			g.Next()
			continue
		}
		ref := rh.Get(j)
		for lo < n && !p.lower(lt.Get(lo), ref) {
			lo++
		}
		if end < lo {
			end = lo
		}
		for end < n && p.upper(lt.Get(end), ref) {
			end++
		}
		t := rt.Get(j)
		for i := lo; i < end; i++ {
			if lt.IsNil(i) {
				continue
			}
			if err = g.Append(lh.Get(i), t); err != nil {
				return err
			}
		}
		g.Next()
	}
	return nil
}

// denseRight computes the matching right positions of each left value.
// It returns false, having written nothing, when a margin is out of the
// offset range of the dense column.
func denseRight[H types.Scalar, V types.Number, T types.Scalar](res *bat.BAT[H, T], left *bat.BAT[H, V],
	right *bat.BAT[V, T], p *band[V]) (bool, error) {
	rh, rt := right.Head(), right.Tail()
	lmk, ok1 := rh.Offset(p.lm)
	hmk, ok2 := rh.Offset(p.hm)
	if !ok1 || !ok2 {
		return false, nil
	}
	below, above := hmk, lmk
	if !p.hiIncl {
		below--
	}
	if !p.loIncl {
		above--
	}

	g := bat.NewGrower(res, left.Count())
	lh, lt := left.Head(), left.Tail()
	for i := 0; i < left.Count(); i++ {
		if lt.IsNil(i) {
			g.Next()
			continue
		}
		x := lt.Get(i)
		k, ok := rh.Offset(x)
		if !ok {
			if err := scanRight(g, lh.Get(i), x, right, p); err != nil {
				return true, err
			}
			g.Next()
			continue
		}
		from, to := span(rh, satSub(k, below), satAdd(k, above))
		for j := from; j <= to; j++ {
			if err := g.Append(lh.Get(i), rt.Get(j)); err != nil {
				return true, err
			}
		}
		g.Next()
	}
	return true, nil
}

// denseLeft computes the matching left positions of each right value, see
// denseRight.
func denseLeft[H types.Scalar, V types.Number, T types.Scalar](res *bat.BAT[H, T], left *bat.BAT[H, V],
	right *bat.BAT[V, T], p *band[V]) (bool, error) {
	lh, lt := left.Head(), left.Tail()
	lmk, ok1 := lt.Offset(p.lm)
	hmk, ok2 := lt.Offset(p.hm)
	if !ok1 || !ok2 {
		return false, nil
	}
	below, above := lmk, hmk
	if !p.loIncl {
		below--
	}
	if !p.hiIncl {
		above--
	}

	g := bat.NewGrower(res, right.Count())
	rh, rt := right.Head(), right.Tail()
	for j := 0; j < right.Count(); j++ {
		if rh.IsNil(j) {
			g.Next()
			continue
		}
		ref, t := rh.Get(j), rt.Get(j)
		k, ok := lt.Offset(ref)
		if !ok {
			if err := scanLeft(g, left, ref, t, p); err != nil {
				return true, err
			}
			g.Next()
			continue
		}
		from, to := span(lt, satSub(k, below), satAdd(k, above))
		for i := from; i <= to; i++ {
			if err := g.Append(lh.Get(i), t); err != nil {
				return true, err
			}
		}
		g.Next()
	}
	return true, nil
}
