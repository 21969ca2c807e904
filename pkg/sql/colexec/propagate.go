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

package colexec

import (
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/types"
)

// Appends keep sortedness and nil presence of a result exact. The
// functions below add what can only be derived from the operands, and
// never claim a property the values contradict.

func trivial[H, T types.Scalar](res *bat.BAT[H, T]) {
	if res.Count() > 1 {
		return
	}
	for _, c := range []interface {
		SetSorted(bool)
		SetRevSorted(bool)
		SetKey(bool)
	}{res.Head(), res.Tail()} {
		c.SetSorted(true)
		c.SetRevSorted(true)
		c.SetKey(true)
	}
}

// PropagateSubset derives the properties of res, a subsequence of l in
// order, as produced by intersect and diff.
func PropagateSubset[H, T types.Scalar](res, l *bat.BAT[H, T]) {
	if l.Head().Key() {
		res.Head().SetKey(true)
	}
	if l.Tail().Key() {
		res.Tail().SetKey(true)
	}
	if l.SetKey() {
		res.SetSetKey(true)
	}
	if res.Count() == l.Count() {
		bat.SetAligned(res, l)
	}
	trivial(res)
}

// PropagateJoin derives the properties of a join result. Its head keeps the
// order of the left head only when the left rows were enumerated in order;
// its tail is never known sorted.
func PropagateJoin[H, T types.Scalar](res *bat.BAT[H, T], leftHead bat.ColMeta, ordered bool) {
	h, t := res.Head(), res.Tail()
	h.SetSorted(h.Sorted() && ordered && leftHead.Sorted)
	h.SetRevSorted(h.RevSorted() && ordered && leftHead.RevSorted)
	t.SetSorted(false)
	t.SetRevSorted(false)
	trivial(res)
}

// PropagateUnion derives the properties of a union. first is the operand
// whose rows lead the result, l except for a disjoint union with r first.
func PropagateUnion[H, T types.Scalar](res, l, r, first *bat.BAT[H, T], full bool) {
	// nil rows never match, a nil in both operands is kept twice
	if !full && l.Head().Key() && r.Head().Key() && (l.Head().NoNil() || r.Head().NoNil()) {
		res.Head().SetKey(true)
	}
	if full && l.SetKey() && r.SetKey() && (noNil(l) || noNil(r)) {
		res.SetSetKey(true)
	}
	if res.Count() == first.Count() {
		bat.SetAligned(res, first)
	}
	trivial(res)
}

func noNil[H, T types.Scalar](b *bat.BAT[H, T]) bool {
	return b.Head().NoNil() && b.Tail().NoNil()
}

func PropagateUnique[H, T types.Scalar](res, b *bat.BAT[H, T], full bool) {
	if !full {
		res.Head().SetKey(true)
	}
	res.SetSetKey(true)
	if b.Tail().Key() {
		res.Tail().SetKey(true)
	}
	if res.Count() == b.Count() {
		bat.SetAligned(res, b)
	}
	trivial(res)
}
