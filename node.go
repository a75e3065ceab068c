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

package govrealm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/blinklabs-io/govrealm/api"
	"github.com/blinklabs-io/govrealm/event"
	"github.com/blinklabs-io/govrealm/ledger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Node ties together the ledger state, event bus and API server
type Node struct {
	config         Config
	eventBus       *event.EventBus
	ledgerState    *ledger.LedgerState
	apiServer      *api.Server
	tracerProvider *sdktrace.TracerProvider
	shutdownFuncs  []func(context.Context) error
	mu             sync.Mutex
	started        bool
	stopped        bool
}

func New(cfg Config) (*Node, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.shutdownTimeout == 0 {
		cfg.shutdownTimeout = 30 * time.Second
	}
	n := &Node{
		config:   cfg,
		eventBus: event.NewEventBus(cfg.promRegistry, cfg.logger),
	}
	return n, nil
}

// Start opens the database and starts the API server. It returns once
// the node is ready to serve requests.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started {
		return errors.New("node already started")
	}
	if n.stopped {
		return errors.New("node has been stopped")
	}
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(ctx); err != nil {
			return err
		}
	}
	var tracerProvider trace.TracerProvider
	if n.tracerProvider != nil {
		tracerProvider = n.tracerProvider
	}
	// Load ledger state
	ls, err := ledger.NewLedgerState(ledger.LedgerStateConfig{
		Logger:         n.config.logger,
		DataDir:        n.config.dataDir,
		BlobPlugin:     n.config.blobPlugin,
		MetadataPlugin: n.config.metadataPlugin,
		EventBus:       n.eventBus,
		PromRegistry:   n.config.promRegistry,
		TracerProvider: tracerProvider,
	})
	if err != nil {
		_ = n.shutdown()
		return fmt.Errorf("failed to load ledger state: %w", err)
	}
	n.ledgerState = ls
	n.shutdownFuncs = append(
		n.shutdownFuncs,
		func(_ context.Context) error {
			return ls.Close()
		},
	)
	// Log ledger events
	n.eventBus.SubscribeFunc(
		ledger.TransactionInsertedEventType,
		func(evt event.Event) {
			data, ok := evt.Data.(ledger.TransactionInsertedEvent)
			if !ok {
				return
			}
			n.config.logger.Debug(
				"transaction inserted event",
				"component", "node",
				"address", data.Transaction.Address.String(),
			)
		},
	)
	// API server
	if n.config.apiListenAddress != "" {
		n.apiServer = api.New(
			api.Config{
				ListenAddress:   n.config.apiListenAddress,
				ShutdownTimeout: n.config.shutdownTimeout,
			},
			ls,
			n.config.logger,
		)
		if err := n.apiServer.Start(ctx); err != nil {
			_ = n.shutdown()
			return fmt.Errorf("failed to start API server: %w", err)
		}
		srv := n.apiServer
		n.shutdownFuncs = append(n.shutdownFuncs, srv.Stop)
	}
	n.started = true
	return nil
}

// Run starts the node and blocks until ctx is cancelled
func (n *Node) Run(ctx context.Context) error {
	if err := n.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return n.Stop()
}

// Stop shuts down the node's components in reverse order of startup
func (n *Node) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.config.logger.Debug("shutting down", "component", "node")
	err := n.shutdown()
	n.started = false
	n.config.logger.Debug("shutdown complete", "component", "node")
	return err
}

func (n *Node) shutdown() error {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		n.config.shutdownTimeout,
	)
	defer cancel()
	var errs []error
	for i := len(n.shutdownFuncs) - 1; i >= 0; i-- {
		if err := n.shutdownFuncs[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	n.shutdownFuncs = nil
	n.eventBus.Stop()
	n.stopped = true
	return errors.Join(errs...)
}

// LedgerState returns the node's ledger state, or nil before Start
func (n *Node) LedgerState() *ledger.LedgerState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledgerState
}

// ApiAddr returns the bound API address, or nil when the API is disabled
func (n *Node) ApiAddr() net.Addr {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.apiServer == nil {
		return nil
	}
	return n.apiServer.Addr()
}
