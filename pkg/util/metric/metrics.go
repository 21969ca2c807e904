// Copyright 2023 Matrix Origin
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

package metric

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	registry = prometheus.NewRegistry()
	enabled  atomic.Bool
)

func init() {
	enabled.Store(true)
	initColexecMetrics()
	initBatMetrics()
}

func initColexecMetrics() {
	registry.MustRegister(strategyCounter)
	registry.MustRegister(rowsCounter)
}

func initBatMetrics() {
	registry.MustRegister(GrowthCounter)
}

// SetEnable turns counting on or off for the whole process.
func SetEnable(enable bool) {
	enabled.Store(enable)
}

func Enabled() bool {
	return enabled.Load()
}

// GetRegistry returns the registry every batcore metric is registered on.
func GetRegistry() *prometheus.Registry {
	return registry
}

// Gather collects the current values of all registered metrics.
func Gather() ([]*dto.MetricFamily, error) {
	return registry.Gather()
}
