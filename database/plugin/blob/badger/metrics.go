// Copyright 2026 Blink Labs Software
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

package badger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const badgerMetricNamePrefix = "database_blob_"

type blobMetrics struct {
	ops   *prometheus.CounterVec
	bytes *prometheus.CounterVec
}

func (d *BlobStoreBadger) registerBlobMetrics() {
	factory := promauto.With(d.promRegistry)
	d.metrics = &blobMetrics{
		ops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: badgerMetricNamePrefix + "ops_total",
				Help: "Total number of blob operations",
			},
			[]string{"op"},
		),
		bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: badgerMetricNamePrefix + "bytes_total",
				Help: "Total bytes read/written for blob operations",
			},
			[]string{"op"},
		),
	}
}

func (m *blobMetrics) observe(op string, size int) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op).Inc()
	m.bytes.WithLabelValues(op).Add(float64(size))
}
