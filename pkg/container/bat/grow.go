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

package bat

import (
	"github.com/matrixorigin/batcore/pkg/container/types"
)

// Grower extends an output BAT while a loop over outer rows produces a
// variable number of pairs per row. When the BAT is full it extrapolates
// the yield of the finished rows to the rows left, so that neither a
// sparse nor an exploding join reallocates more than a few times.
type Grower[H, T types.Scalar] struct {
	b         *BAT[H, T]
	outer     int
	processed int
	// pairs produced by the processed rows
	done int
	// processed rows at the last extrapolation
	lastProcessed int
}

func NewGrower[H, T types.Scalar](b *BAT[H, T], outer int) *Grower[H, T] {
	return &Grower[H, T]{b: b, outer: outer, lastProcessed: -1}
}

func (g *Grower[H, T]) BAT() *BAT[H, T] {
	return g.b
}

// Next marks one more outer row as processed.
func (g *Grower[H, T]) Next() {
	g.processed++
	g.done = g.b.Count()
}

// Append adds a pair, growing the BAT by extrapolation when it is full.
func (g *Grower[H, T]) Append(h H, t T) error {
	if g.b.Count() >= g.b.Capacity() {
		if err := g.b.growTo(g.capacity(1)); err != nil {
			return err
		}
	}
	return g.b.Append(h, t)
}

// capacity returns the capacity to grow to for room of additional pairs.
// Without a finished outer row since the last growth it doubles instead.
func (g *Grower[H, T]) capacity(additional int) int {
	need := g.b.Count() + additional
	if g.processed == 0 || g.processed == g.lastProcessed {
		cp := g.b.Capacity() * 2
		if cp < need {
			cp = need
		}
		if cp < minGrowth {
			cp = minGrowth
		}
		return cp
	}
	g.lastProcessed = g.processed
	if cp := Extrapolate(g.done, g.processed, g.outer, additional); cp > need {
		return cp
	}
	return need
}

// Extrapolate returns produced + ceil(produced/processed) * remaining +
// additional, the capacity for the output of outer rows after processed of
// them yielded produced pairs.
func Extrapolate(produced, processed, outer, additional int) int {
	if processed == 0 {
		return produced + additional
	}
	remaining := outer - processed
	if remaining < 0 {
		remaining = 0
	}
	return produced + (produced+processed-1)/processed*remaining + additional
}
