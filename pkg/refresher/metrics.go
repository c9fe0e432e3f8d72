// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package refresher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// resultSuccess labels successful reloads; failures are labelled with
// their error code (NOT_FOUND, TIMEOUT, ...).
const resultSuccess = "success"

var (
	reloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestd_reloads_total",
			Help: "Total number of suggestion data reloads by result (success or error code)",
		},
		[]string{"result"},
	)

	reloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestd_reload_duration_seconds",
			Help:    "Duration of suggestion data reloads in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	lastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "suggestd_last_reload_success_timestamp_seconds",
			Help: "Unix time of the last successful reload",
		},
	)

	indexIdentifiers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "suggestd_index_identifiers",
			Help: "Number of distinct identifiers in the live index",
		},
	)

	indexEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "suggestd_index_entries",
			Help: "Number of suggestion entries in the live index",
		},
	)
)
