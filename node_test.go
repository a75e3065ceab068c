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
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "badger", cfg.blobPlugin)
	assert.Equal(t, "sqlite", cfg.metadataPlugin)
	assert.Equal(t, ":8080", cfg.apiListenAddress)
	assert.Equal(t, 30*time.Second, cfg.shutdownTimeout)
	assert.NotNil(t, cfg.logger)
	assert.Empty(t, cfg.dataDir)
}

func TestNewConfigOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := NewConfig(
		WithDatabasePath("/tmp/govrealm"),
		WithBlobPlugin("badger"),
		WithMetadataPlugin("postgres"),
		WithApiListenAddress("127.0.0.1:9999"),
		WithPrometheusRegistry(reg),
		WithTracing(true),
		WithTracingStdout(true),
		WithShutdownTimeout(5*time.Second),
	)
	assert.Equal(t, "/tmp/govrealm", cfg.dataDir)
	assert.Equal(t, "postgres", cfg.metadataPlugin)
	assert.Equal(t, "127.0.0.1:9999", cfg.apiListenAddress)
	assert.Equal(t, reg, cfg.promRegistry)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
	require.NoError(t, cfg.validate())
}

func TestConfigValidate(t *testing.T) {
	_, err := New(NewConfig(WithTracingStdout(true)))
	require.Error(t, err)
	_, err = New(NewConfig(WithShutdownTimeout(-time.Second)))
	require.Error(t, err)
}

func TestNodeStartStop(t *testing.T) {
	n, err := New(NewConfig(
		WithApiListenAddress("127.0.0.1:0"),
		WithPrometheusRegistry(prometheus.NewRegistry()),
	))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, n.Start(ctx))
	require.Error(t, n.Start(ctx))
	require.NotNil(t, n.LedgerState())
	addr := n.ApiAddr()
	require.NotNil(t, addr)
	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	require.NoError(t, err)
	var health map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.True(t, health["is_healthy"])
	require.NoError(t, n.Stop())
	require.Error(t, n.Start(ctx))
}

func TestNodeRunWithoutApi(t *testing.T) {
	n, err := New(NewConfig(WithApiListenAddress("")))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		return n.LedgerState() != nil
	}, 5*time.Second, 10*time.Millisecond)
	assert.Nil(t, n.ApiAddr())
	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for node to stop")
	}
}

func TestNodeStartWithStdoutTracing(t *testing.T) {
	n, err := New(NewConfig(
		WithApiListenAddress(""),
		WithTracing(true),
		WithTracingStdout(true),
	))
	require.NoError(t, err)
	require.NoError(t, n.Start(context.Background()))
	require.NotNil(t, n.tracerProvider)
	require.NoError(t, n.Stop())
}
