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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/config"
	"github.com/matrixorigin/batcore/pkg/logutil"
	"github.com/matrixorigin/batcore/pkg/util/metric"
)

var (
	configFile = flag.String("cfg", "", "toml configuration, defaults are used when empty")
	rows       = flag.Int("rows", 10000, "rows of each generated operand")
	trials     = flag.Int("trials", 8, "number of trials")
	workers    = flag.Int("workers", 0, "concurrent trials, 0 means one per cpu")
	seed       = flag.Int64("seed", 1, "seed of the first trial")
)

func main() {
	flag.Parse()

	cfg, err := parseConfig(*configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config from %s, error: %s", *configFile, err.Error()))
	}
	setupLogger(cfg)
	metric.SetEnable(cfg.Metric.Enable)
	mpool.InitCap(cfg.MPool.Cap)

	mp, err := mpool.NewMPool(cfg.MPool.Name, cfg.MPool.Cap)
	if err != nil {
		panic(err)
	}
	defer mpool.DeleteMPool(mp)

	rep, err := run(context.Background(), cfg, mp, options{
		rows:    *rows,
		trials:  *trials,
		workers: *workers,
		seed:    *seed,
	})
	if err != nil {
		if me, ok := err.(*moerr.Error); ok {
			fmt.Fprintf(os.Stderr, "bat-bench: %s (code %d)\n", me.Display(), me.ErrorCode())
		} else {
			fmt.Fprintf(os.Stderr, "bat-bench: %v\n", err)
		}
		if moerr.IsMoErrCode(err, moerr.ErrOOM) {
			fmt.Fprintln(os.Stderr, "bat-bench: raise [mpool] cap or lower -rows")
		}
		os.Exit(1)
	}
	rep.print(os.Stdout)
}

func parseConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogger(cfg *config.Config) {
	logutil.SetupMOLogger(&cfg.Log)
}
