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
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/govrealm/database/plugin/metadata/internal/gormstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultMaxOpenConns    = 100
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = time.Hour
)

type connConfig struct {
	host     string
	port     uint
	user     string
	password string
	database string
	sslMode  string
	timeZone string
	dsn      string
}

type poolConfig struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// MetadataStorePostgres stores metadata in Postgres
type MetadataStorePostgres struct {
	*gormstore.Store
	promRegistry prometheus.Registerer
	logger       *slog.Logger
	conn         connConfig
	pool         poolConfig
}

// NewWithOptions creates a Postgres metadata store. The connection is
// opened by Start().
func NewWithOptions(opts ...PostgresOptionFunc) *MetadataStorePostgres {
	db := &MetadataStorePostgres{}
	for _, opt := range opts {
		opt(db)
	}
	db.conn.applyDefaults()
	if db.pool.maxOpen <= 0 {
		db.pool.maxOpen = defaultMaxOpenConns
	}
	if db.pool.maxIdle <= 0 {
		db.pool.maxIdle = defaultMaxIdleConns
	}
	if db.pool.maxLifetime <= 0 {
		db.pool.maxLifetime = defaultConnMaxLifetime
	}
	return db
}

func (d *MetadataStorePostgres) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *MetadataStorePostgres) SetPromRegistry(registry prometheus.Registerer) {
	d.promRegistry = registry
}

func (c *connConfig) applyDefaults() {
	if c.host == "" {
		c.host = "localhost"
	}
	if c.port == 0 {
		c.port = 5432
	}
	if c.user == "" {
		c.user = "postgres"
	}
	if c.database == "" {
		c.database = "postgres"
	}
	if c.sslMode == "" {
		c.sslMode = "disable"
	}
	if c.timeZone == "" {
		c.timeZone = "UTC"
	}
}

// dsnString returns the explicit DSN when set, otherwise one assembled from the
// individual options
func (c connConfig) dsnString() string {
	if dsn := strings.TrimSpace(c.dsn); dsn != "" {
		return dsn
	}
	parts := []string{
		"host=" + c.host,
		"user=" + c.user,
		"password=" + c.password,
		"dbname=" + c.database,
		"port=" + strconv.FormatUint(uint64(c.port), 10),
		"sslmode=" + c.sslMode,
	}
	if c.timeZone != "" {
		parts = append(parts, "TimeZone="+c.timeZone)
	}
	return strings.Join(parts, " ")
}

// Start implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Start() error {
	if d.Store != nil {
		return nil
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	metadataDb, err := gorm.Open(
		postgres.Open(d.conn.dsnString()),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		},
	)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	d.logger.Info(
		"connected to postgres metadata store",
		"component", "database",
		"host", d.conn.host,
		"port", d.conn.port,
		"database", d.conn.database,
		"max_open_conns", d.pool.maxOpen,
	)
	sqlDB, err := metadataDb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(d.pool.maxOpen)
	sqlDB.SetMaxIdleConns(d.pool.maxIdle)
	sqlDB.SetConnMaxLifetime(d.pool.maxLifetime)
	store := gormstore.New(metadataDb, d.logger)
	if err := store.Init(); err != nil {
		_ = sqlDB.Close()
		return err
	}
	d.Store = store
	if d.promRegistry != nil {
		if err := d.promRegistry.Register(
			collectors.NewDBStatsCollector(sqlDB, "metadata_postgres"),
		); err != nil {
			d.logger.Warn(
				"failed to register database metrics",
				"component", "database",
				"error", err,
			)
		}
	}
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Stop() error {
	return d.Close()
}

// Close closes the connection pool. It is safe to call before Start().
func (d *MetadataStorePostgres) Close() error {
	if d.Store == nil {
		return nil
	}
	return d.Store.Close()
}
