// Copyright 2021 Matrix Origin
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

package nulls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNulls(t *testing.T) {
	var nsp Nulls
	require.False(t, nsp.Any())
	require.False(t, nsp.Contains(0))

	nsp.Set(3)
	Add(&nsp, 1, 7)
	Add(&nsp)
	require.True(t, nsp.Any())
	require.True(t, nsp.Contains(7))
	require.False(t, nsp.Contains(2))

	c := nsp.Clone()
	nsp.Set(2)
	require.True(t, nsp.Contains(2))
	require.False(t, c.Contains(2))
	require.True(t, c.Contains(3))

	var empty *Nulls
	require.Nil(t, empty.Clone())
	require.False(t, Any(empty))
	require.False(t, Contains(empty, 1))
	require.False(t, (&Nulls{}).Clone().Any())
}
