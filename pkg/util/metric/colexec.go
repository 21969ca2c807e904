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

import "github.com/prometheus/client_golang/prometheus"

var (
	strategyCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "batcore",
			Subsystem: "colexec",
			Name:      "strategy_total",
			Help:      "Total number of operator calls per chosen strategy.",
		}, []string{"op", "strategy"})

	rowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "batcore",
			Subsystem: "colexec",
			Name:      "rows_total",
			Help:      "Total number of rows produced per operator.",
		}, []string{"op"})
)

var (
	GrowthCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "batcore",
			Subsystem: "bat",
			Name:      "growth_total",
			Help:      "Total number of BAT storage reallocations.",
		})
)

func StrategyInc(op, strategy string) {
	if enabled.Load() {
		strategyCounter.WithLabelValues(op, strategy).Inc()
	}
}

func RowsAdd(op string, rows int) {
	if enabled.Load() {
		rowsCounter.WithLabelValues(op).Add(float64(rows))
	}
}

func GrowthInc() {
	if enabled.Load() {
		GrowthCounter.Inc()
	}
}

// StrategyCounter exposes one series, used by reports and tests.
func StrategyCounter(op, strategy string) prometheus.Counter {
	return strategyCounter.WithLabelValues(op, strategy)
}

func RowsCounter(op string) prometheus.Counter {
	return rowsCounter.WithLabelValues(op)
}
