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

package sqlite

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blinklabs-io/govrealm/database/plugin/metadata/internal/gormstore"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	vacuumInterval     = 24 * time.Hour
	defaultBusyTimeout = 5 * time.Second
)

// MetadataStoreSqlite stores metadata in SQLite. An empty data dir gives
// a private in-memory database.
type MetadataStoreSqlite struct {
	*gormstore.Store
	promRegistry prometheus.Registerer
	logger       *slog.Logger
	timerVacuum  *time.Timer
	timerMutex   sync.Mutex
	vacuumWG     sync.WaitGroup
	dataDir      string
	busyTimeout  time.Duration
	closed       bool
}

// New creates and starts a SQLite metadata store
func New(
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*MetadataStoreSqlite, error) {
	db := NewWithOptions(
		WithDataDir(dataDir),
		WithLogger(logger),
		WithPromRegistry(promRegistry),
	)
	if err := db.Start(); err != nil {
		return nil, err
	}
	return db, nil
}

// NewWithOptions creates a SQLite metadata store. The database is opened
// by Start().
func NewWithOptions(opts ...SqliteOptionFunc) *MetadataStoreSqlite {
	db := &MetadataStoreSqlite{}
	for _, opt := range opts {
		opt(db)
	}
	if db.busyTimeout <= 0 {
		db.busyTimeout = defaultBusyTimeout
	}
	return db
}

func (d *MetadataStoreSqlite) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *MetadataStoreSqlite) SetPromRegistry(registry prometheus.Registerer) {
	d.promRegistry = registry
}

// Start implements the plugin.Plugin interface
func (d *MetadataStoreSqlite) Start() error {
	if d.Store != nil {
		return nil
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var dsn string
	if d.dataDir == "" {
		// Named so that connections in the pool share one database while
		// separate stores stay isolated
		dsn = fmt.Sprintf(
			"file:govrealm-%s?mode=memory&cache=shared",
			uuid.NewString(),
		)
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(d.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(d.dataDir, fs.ModePerm); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		metadataDbPath := filepath.Join(d.dataDir, "metadata.sqlite")
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
			metadataDbPath,
			d.busyTimeout.Milliseconds(),
		)
	}
	metadataDb, err := gorm.Open(
		sqlite.Open(dsn),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := metadataDb.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	if d.dataDir == "" {
		// A transaction holds its connection, so a single connection
		// serializes access to the shared in-memory database
		sqlDB.SetMaxOpenConns(1)
	}
	store := gormstore.New(metadataDb, d.logger)
	if err := store.Init(); err != nil {
		_ = sqlDB.Close()
		return err
	}
	d.Store = store
	if d.promRegistry != nil {
		if err := d.promRegistry.Register(
			collectors.NewDBStatsCollector(sqlDB, "metadata_sqlite"),
		); err != nil {
			d.logger.Warn(
				"failed to register database metrics",
				"component", "database",
				"error", err,
			)
		}
	}
	d.scheduleVacuum()
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStoreSqlite) Stop() error {
	return d.Close()
}

// Close stops background maintenance and closes the database
func (d *MetadataStoreSqlite) Close() error {
	d.timerMutex.Lock()
	d.closed = true
	if d.timerVacuum != nil {
		d.timerVacuum.Stop()
		d.timerVacuum = nil
	}
	d.timerMutex.Unlock()
	// Wait for any in-flight vacuum to complete
	d.vacuumWG.Wait()
	if d.Store == nil {
		return nil
	}
	return d.Store.Close()
}

func (d *MetadataStoreSqlite) runVacuum() error {
	d.timerMutex.Lock()
	if d.closed {
		d.timerMutex.Unlock()
		return nil
	}
	d.vacuumWG.Add(1)
	d.timerMutex.Unlock()
	defer d.vacuumWG.Done()
	return d.DB().Exec("VACUUM").Error
}

// scheduleVacuum arranges a periodic vacuum of an on-disk database
func (d *MetadataStoreSqlite) scheduleVacuum() {
	d.timerMutex.Lock()
	defer d.timerMutex.Unlock()
	if d.closed || d.dataDir == "" {
		return
	}
	if d.timerVacuum != nil {
		d.timerVacuum.Stop()
	}
	d.timerVacuum = time.AfterFunc(vacuumInterval, func() {
		defer d.scheduleVacuum()
		d.logger.Debug(
			"running vacuum on sqlite metadata database",
			"component", "database",
		)
		if err := d.runVacuum(); err != nil {
			d.logger.Error(
				"failed to free unused space in metadata store",
				"component", "database",
				"error", err,
			)
		}
	})
}
