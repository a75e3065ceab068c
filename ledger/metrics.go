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

package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type stateMetrics struct {
	transactionsInserted prometheus.Counter
	transactionsRemoved  prometheus.Counter
	requestsRejected     *prometheus.CounterVec
}

func (m *stateMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.transactionsInserted = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "govrealm_ledger_transactions_inserted_total",
		Help: "total proposal transactions inserted",
	})
	m.transactionsRemoved = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "govrealm_ledger_transactions_removed_total",
		Help: "total proposal transactions removed",
	})
	m.requestsRejected = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govrealm_ledger_requests_rejected_total",
			Help: "total rejected requests by operation and error kind",
		},
		[]string{"operation", "kind"},
	)
}
