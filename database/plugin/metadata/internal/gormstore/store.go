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

// Package gormstore holds the gorm queries shared by the relational
// metadata store plugins
package gormstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/database/types"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

// gormTxn wraps a gorm transaction and implements types.Txn
type gormTxn struct {
	db       *gorm.DB
	finished bool
	beginErr error
}

func (t *gormTxn) Commit() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return nil
	}
	t.finished = true
	if result := t.db.Commit(); result.Error != nil {
		return result.Error
	}
	return nil
}

func (t *gormTxn) Rollback() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return nil
	}
	t.finished = true
	if result := t.db.Rollback(); result.Error != nil {
		return result.Error
	}
	return nil
}

// Store implements the metadata queries on top of an open gorm handle
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Init configures query tracing and creates the table schemas
func (s *Store) Init() error {
	if err := s.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return fmt.Errorf("configure tracing: %w", err)
	}
	for _, model := range models.MigrateModels {
		s.logger.Debug(
			fmt.Sprintf("creating table: %T", model),
			"component", "database",
		)
		if err := s.db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// DB returns the database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return sqlDB.Close()
}

// Transaction begins a gorm transaction. A failure to begin is reported
// by the first call on the returned handle.
func (s *Store) Transaction() types.Txn {
	db := s.db.Begin()
	if db.Error != nil {
		s.logger.Error(
			"failed to begin transaction",
			"component", "database",
			"error", db.Error,
		)
		return &gormTxn{beginErr: db.Error}
	}
	return &gormTxn{db: db}
}

// resolveDB returns the gorm handle for txn, or the base handle when
// txn is nil
func (s *Store) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return s.db, nil
	}
	gTxn, ok := txn.(*gormTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if gTxn.beginErr != nil {
		return nil, gTxn.beginErr
	}
	if gTxn.finished {
		return nil, types.ErrTxnFinished
	}
	return gTxn.db, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
