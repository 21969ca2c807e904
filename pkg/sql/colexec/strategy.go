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

// Package colexec holds what the join and set operators share: strategy
// selection, property propagation of results, observability and operand
// checks.
package colexec

// Op names an operator.
type Op string

const (
	RangeJoin Op = "rangejoin"
	BandJoin  Op = "bandjoin"
	Union     Op = "union"
	Diff      Op = "diff"
	Intersect Op = "intersect"
	Unique    Op = "unique"
)

func (op Op) String() string {
	return string(op)
}

// Strategy is the algorithm an operator call runs with.
type Strategy uint8

const (
	// Empty: an operand is empty, nothing is compared.
	Empty Strategy = iota
	// Nested: nested loop over both operands.
	Nested
	// Merge: both operands are walked in order.
	Merge
	// DenseRight: the right head is dense, positions are computed.
	DenseRight
	// DenseLeft: the left tail is dense, positions are computed.
	DenseLeft
	// Dense: the probed head is dense.
	Dense
	// Direct: the probed side fits the direct small table.
	Direct
	// Hash: the probed side is hashed.
	Hash
	// Copy: the result is a copy of an operand.
	Copy
	// Sorted: adjacent runs of a sorted head are collapsed.
	Sorted
	// Disjoint: operands are sorted with non overlapping heads.
	Disjoint
)

var strategyNames = [...]string{
	Empty:      "empty",
	Nested:     "nested",
	Merge:      "merge",
	DenseRight: "dense-right",
	DenseLeft:  "dense-left",
	Dense:      "dense",
	Direct:     "direct",
	Hash:       "hash",
	Copy:       "copy",
	Sorted:     "sorted",
	Disjoint:   "disjoint",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}
