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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/govrealm/database"
	"github.com/blinklabs-io/govrealm/event"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/govrealm/ledger"

type LedgerStateConfig struct {
	Logger         *slog.Logger
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
	EventBus       *event.EventBus
	PromRegistry   prometheus.Registerer
	TracerProvider trace.TracerProvider
}

// LedgerState hosts the transaction validators. Mutating requests are
// serialized and each runs in a single database transaction.
type LedgerState struct {
	sync.RWMutex
	config  LedgerStateConfig
	db      *database.Database
	metrics stateMetrics
	tracer  trace.Tracer
}

func NewLedgerState(cfg LedgerStateConfig) (*LedgerState, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	ls := &LedgerState{
		config: cfg,
		tracer: cfg.TracerProvider.Tracer(tracerName),
	}
	ls.metrics.init(cfg.PromRegistry)
	db, err := database.New(&database.Config{
		Logger:         cfg.Logger,
		DataDir:        cfg.DataDir,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
		PromRegistry:   cfg.PromRegistry,
	})
	if err != nil {
		var dbErr database.CommitTimestampError
		if db != nil && errors.As(err, &dbErr) {
			ls.config.Logger.Error(
				"database stores are out of sync",
				"component", "ledger",
				"metadata_timestamp", dbErr.MetadataTimestamp,
				"blob_timestamp", dbErr.BlobTimestamp,
			)
			_ = db.Close()
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	ls.db = db
	ls.config.Logger.Debug(
		"ledger state ready",
		"component", "ledger",
		"data_dir", cfg.DataDir,
	)
	return ls, nil
}

// Database returns the underlying database
func (ls *LedgerState) Database() *database.Database {
	return ls.db
}

func (ls *LedgerState) Close() error {
	ls.Lock()
	defer ls.Unlock()
	return ls.db.Close()
}
