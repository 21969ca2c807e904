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

package types

// Compare returns -1, 0 or 1.
func Compare[V Scalar](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Gap returns hi - lo for hi >= lo. ok is false when the difference does
// not fit in V, it then exceeds every value of V. That only happens for
// signed integers.
func Gap[V Number](hi, lo V) (V, bool) {
	var zero V
	d := hi - lo
	return d, d >= zero
}

// Within reports whether a - b <= m, or a - b < m when incl is false, for a
// margin m >= 0 without computing a - b when it could overflow.
func Within[V Number](a, b, m V, incl bool) bool {
	if a < b {
		return true
	}
	if a == b {
		var zero V
		return incl || m > zero
	}
	d, ok := Gap(a, b)
	if !ok {
		return false
	}
	if incl {
		return d <= m
	}
	return d < m
}
