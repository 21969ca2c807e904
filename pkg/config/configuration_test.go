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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 4096, cfg.Tuning.NestedLoopLimit)
	require.Equal(t, 256, cfg.Tuning.DirectHashLimit)
	require.Equal(t, 65536, cfg.Tuning.EstimateLimit)
	require.True(t, cfg.Metric.Enable)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[log]
level = "debug"
format = "json"
max-size = 64

[mpool]
name = "bench"
cap = 1048576

[tuning]
direct-hash-limit = 16

[debug]
algo = true
`)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 64, cfg.Log.MaxSize)
	require.Equal(t, "bench", cfg.MPool.Name)
	require.Equal(t, int64(1048576), cfg.MPool.Cap)
	require.Equal(t, 16, cfg.Tuning.DirectHashLimit)
	// untouched keys keep their defaults
	require.Equal(t, 4096, cfg.Tuning.NestedLoopLimit)
	require.True(t, cfg.Debug.Algo)
	require.False(t, cfg.Debug.Esti)
}

func TestBadConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[tuning"},
		{"negative cap", "[mpool]\ncap = -1"},
		{"no name", "[mpool]\nname = \"\""},
		{"format", "[log]\nformat = \"xml\""},
		{"nested", "[tuning]\nnested-loop-limit = -1"},
		{"direct", "[tuning]\ndirect-hash-limit = 1000000"},
		{"estimate", "[tuning]\nestimate-limit = -5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "%v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte("[metric]\nenable = false\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Metric.Enable)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestContext(t *testing.T) {
	require.Equal(t, Default(), GetConfig(context.Background()))
	cfg := Default()
	cfg.MPool.Name = "ctx"
	require.Equal(t, "ctx", GetConfig(WithConfig(context.Background(), cfg)).MPool.Name)
}
