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

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/logutil"
)

type ConfigurationKeyType int

const (
	ConfigKey ConfigurationKeyType = 1
)

const (
	defaultNestedLoopLimit = 4096
	defaultDirectHashLimit = 256
	defaultEstimateLimit   = 65536
	// the direct table is sized at four slots per key and must stay small
	maxDirectHashLimit = 1 << 16
)

// Config of a batcore process
type Config struct {
	Log    logutil.LogConfig `toml:"log"`
	MPool  MPool             `toml:"mpool"`
	Tuning Tuning            `toml:"tuning"`
	Debug  Debug             `toml:"debug"`
	Metric Metric            `toml:"metric"`
}

// MPool names the pool operators allocate from.
type MPool struct {
	Name string `toml:"name"`
	// Cap in bytes, 0 means unlimited
	Cap int64 `toml:"cap"`
}

// Tuning holds the thresholds strategy selection uses. They are not part of
// any operator contract, results do not depend on them.
type Tuning struct {
	// NestedLoopLimit is the row count below which an unsorted band join
	// operand is scanned by nested loop instead of being sorted.
	NestedLoopLimit int `toml:"nested-loop-limit"`
	// DirectHashLimit is the largest probed side served by the direct table.
	DirectHashLimit int `toml:"direct-hash-limit"`
	// EstimateLimit is the input count above which unique pre-sizes its
	// output from a distinct count estimate.
	EstimateLimit int `toml:"estimate-limit"`
}

type Debug struct {
	// Algo logs every strategy decision.
	Algo bool `toml:"algo"`
	// Esti logs the distinct count estimates.
	Esti bool `toml:"esti"`
}

type Metric struct {
	Enable bool `toml:"enable"`
}

func DefaultTuning() Tuning {
	return Tuning{
		NestedLoopLimit: defaultNestedLoopLimit,
		DirectHashLimit: defaultDirectHashLimit,
		EstimateLimit:   defaultEstimateLimit,
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: logutil.LogConfig{
			Level:  "info",
			Format: "console",
		},
		MPool: MPool{
			Name: "batcore",
		},
		Tuning: DefaultTuning(),
		Metric: Metric{Enable: true},
	}
}

// Load parses the toml file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, moerr.NewBadConfigNoCtx("parse %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes toml text over the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, moerr.NewBadConfigNoCtx("parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.MPool.Cap < 0 {
		return moerr.NewBadConfigNoCtx("mpool cap %d is negative", cfg.MPool.Cap)
	}
	if cfg.MPool.Name == "" {
		return moerr.NewBadConfigNoCtx("mpool name is empty")
	}
	switch cfg.Log.Format {
	case "", "json", "console":
	default:
		return moerr.NewBadConfigNoCtx("log format %s", cfg.Log.Format)
	}
	return cfg.Tuning.Validate()
}

func (t Tuning) Validate() error {
	if t.NestedLoopLimit < 0 {
		return moerr.NewBadConfigNoCtx("nested-loop-limit %d is negative", t.NestedLoopLimit)
	}
	if t.DirectHashLimit < 0 || t.DirectHashLimit > maxDirectHashLimit {
		return moerr.NewBadConfigNoCtx("direct-hash-limit %d out of [0, %d]", t.DirectHashLimit, maxDirectHashLimit)
	}
	if t.EstimateLimit < 0 {
		return moerr.NewBadConfigNoCtx("estimate-limit %d is negative", t.EstimateLimit)
	}
	return nil
}

// WithConfig attaches cfg to ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

// GetConfig gets the configuration from the context, the default one when
// none is attached.
func GetConfig(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ConfigKey).(*Config); ok && cfg != nil {
		return cfg
	}
	return Default()
}
