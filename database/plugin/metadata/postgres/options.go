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
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PostgresOptionFunc func(*MetadataStorePostgres)

func WithLogger(logger *slog.Logger) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.logger = logger
	}
}

func WithPromRegistry(
	registry prometheus.Registerer,
) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.promRegistry = registry
	}
}

func WithHost(host string) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn.host = host
	}
}

func WithPort(port uint) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn.port = port
	}
}

// WithCredentials sets the user and password used to connect
func WithCredentials(user, password string) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn.user = user
		m.conn.password = password
	}
}

func WithDatabase(database string) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn.database = database
	}
}

func WithSSLMode(sslMode string) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn.sslMode = sslMode
	}
}

func WithTimeZone(timeZone string) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn.timeZone = timeZone
	}
}

// WithDSN specifies a full connection string, which takes precedence
// over the individual connection options
func WithDSN(dsn string) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.conn.dsn = dsn
	}
}

// WithPool sets the connection pool limits. Zero values keep the defaults.
func WithPool(maxOpen, maxIdle int, maxLifetime time.Duration) PostgresOptionFunc {
	return func(m *MetadataStorePostgres) {
		m.pool.maxOpen = maxOpen
		m.pool.maxIdle = maxIdle
		m.pool.maxLifetime = maxLifetime
	}
}
