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
	"github.com/matrixorigin/batcore/pkg/config"
	"github.com/matrixorigin/batcore/pkg/container/bat"
)

// ChooseBand picks the band join strategy for left, compared on its tail,
// and right, compared on its head.
func ChooseBand(l, r bat.Meta, t config.Tuning) Strategy {
	switch {
	case l.Count == 0 || r.Count == 0:
		return Empty
	case r.Head.Dense:
		return DenseRight
	case l.Tail.Dense:
		return DenseLeft
	case l.Count < t.NestedLoopLimit && !l.Tail.Sorted,
		r.Count < t.NestedLoopLimit && !r.Head.Sorted:
		return Nested
	}
	return Merge
}

// ChooseProbe picks how each row of l looks for a match in r. flip asks to
// run on the mirrors of both operands so that the hash already built on the
// tail of r is the one probed, full pair semantics only.
func ChooseProbe(l, r bat.Meta, full bool, t config.Tuning) (s Strategy, flip bool) {
	switch {
	case l.Count == 0 || r.Count == 0:
		return Empty, false
	case r.Head.Dense:
		return Dense, false
	case r.Count <= t.DirectHashLimit:
		return Direct, false
	case full && r.Tail.HasHash && !r.Head.HasHash:
		return Hash, true
	case r.Head.HasHash:
		return Hash, false
	case l.Head.Sorted && r.Head.Sorted:
		return Merge, false
	}
	return Hash, false
}

// ChooseUnion picks the union strategy. disjoint tells both heads are
// sorted and their value ranges do not overlap. Other unions copy l and
// probe l with the rows of r, the returned strategy is then the probe one.
func ChooseUnion(l, r bat.Meta, full, disjoint bool, t config.Tuning) (s Strategy, flip bool) {
	switch {
	case l.Count == 0 || r.Count == 0:
		return Copy, false
	case disjoint:
		return Disjoint, false
	}
	return ChooseProbe(r, l, full, t)
}

// ChooseUnique picks the dedup strategy of b.
func ChooseUnique(b bat.Meta, full bool, t config.Tuning) Strategy {
	switch {
	case b.Count <= 1:
		return Copy
	case !full && (b.Head.Key || b.Head.Dense):
		return Copy
	case full && (b.SetKey || b.Head.Dense || b.Tail.Dense):
		return Copy
	case !full && (b.Head.Sorted || b.Head.RevSorted):
		return Sorted
	case b.Count <= t.DirectHashLimit:
		return Direct
	}
	return Hash
}
