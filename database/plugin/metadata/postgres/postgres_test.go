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

package postgres

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	store := NewWithOptions(
		WithHost("db.internal"),
		WithPort(5433),
		WithCredentials("", "secret"),
	)
	assert.Equal(
		t,
		"host=db.internal user=postgres password=secret dbname=postgres port=5433 sslmode=disable TimeZone=UTC",
		store.conn.dsnString(),
	)

	store = NewWithOptions(WithDSN("  postgres://u:p@host/db  "))
	assert.Equal(t, "postgres://u:p@host/db", store.conn.dsnString())
}

func TestPoolDefaults(t *testing.T) {
	store := NewWithOptions()
	assert.Equal(t, defaultMaxOpenConns, store.pool.maxOpen)
	assert.Equal(t, defaultMaxIdleConns, store.pool.maxIdle)
	assert.Equal(t, defaultConnMaxLifetime, store.pool.maxLifetime)

	store = NewWithOptions(WithPool(4, 2, time.Minute))
	assert.Equal(t, 4, store.pool.maxOpen)
	assert.Equal(t, 2, store.pool.maxIdle)
	assert.Equal(t, time.Minute, store.pool.maxLifetime)
}

func TestCloseBeforeStart(t *testing.T) {
	store := NewWithOptions()
	require.NoError(t, store.Close())
}

// Runs against a live server when GOVREALM_TEST_POSTGRES_DSN is set
func TestStartWithServer(t *testing.T) {
	dsn := os.Getenv("GOVREALM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GOVREALM_TEST_POSTGRES_DSN not set")
	}
	store := NewWithOptions(WithDSN(dsn))
	require.NoError(t, store.Start())
	defer store.Close()
	_, err := store.GetCommitTimestamp()
	require.NoError(t, err)
}
