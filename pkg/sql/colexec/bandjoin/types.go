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

package bandjoin

import (
	"math"

	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/container/types"
)

// band is the predicate ref - lm <= x <= ref + hm, each side possibly
// exclusive, with x a left tail value and ref a right head value.
type band[V types.Number] struct {
	lm, hm         V
	loIncl, hiIncl bool
}

// lower is monotone: true for every x above a true one.
func (p *band[V]) lower(x, ref V) bool {
	return types.Within(ref, x, p.lm, p.loIncl)
}

// upper is monotone: true for every x below a true one.
func (p *band[V]) upper(x, ref V) bool {
	return types.Within(x, ref, p.hm, p.hiIncl)
}

func (p *band[V]) match(x, ref V) bool {
	return p.lower(x, ref) && p.upper(x, ref)
}

// span maps the closed value interval [lo, hi] of a dense column to
// positions, clipped to the column. An empty interval returns hi < lo.
func span[V types.Number](c *bat.Column[V], lo, hi int64) (int, int) {
	lo = satSub(lo, c.Base())
	hi = satSub(hi, c.Base())
	if lo < 0 {
		lo = 0
	}
	if last := int64(c.Len() - 1); hi > last {
		hi = last
	}
	if lo > hi {
		return 0, -1
	}
	return int(lo), int(hi)
}

func satAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

func satSub(a, b int64) int64 {
	if b == math.MinInt64 {
		return satAdd(satAdd(a, math.MaxInt64), 1)
	}
	return satAdd(a, -b)
}
