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

package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/govrealm/database/types"
)

// Txn pairs a metadata transaction with a blob transaction. A proposal
// transaction record spans both stores, so they commit together under a
// shared commit timestamp or not at all.
type Txn struct {
	db          *Database
	metadataTxn types.Txn
	blobTxn     types.Txn
	operation   string
	committedAt int64
	mu          sync.Mutex
	readWrite   bool
	finished    bool
}

func NewTxn(db *Database, readWrite bool) *Txn {
	t := &Txn{
		db:        db,
		readWrite: readWrite,
		operation: "unnamed",
	}
	if ms := db.Metadata(); ms != nil {
		t.metadataTxn = ms.Transaction()
	}
	if bs := db.Blob(); bs != nil {
		t.blobTxn = bs.NewTransaction(readWrite)
	}
	return t
}

// WithOperation names the ledger operation that owns the transaction.
// The name is attached to rollback and commit failure logs.
func (t *Txn) WithOperation(operation string) *Txn {
	t.operation = operation
	return t
}

func (t *Txn) DB() *Database {
	return t.db
}

func (t *Txn) Metadata() types.Txn {
	return t.metadataTxn
}

func (t *Txn) Blob() types.Txn {
	return t.blobTxn
}

// CommittedAt returns the commit timestamp in milliseconds, or 0 if the
// transaction has not committed both stores
func (t *Txn) CommittedAt() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committedAt
}

// Do runs fn inside the transaction. The transaction commits when fn
// returns nil and rolls back otherwise, so a rejected request never
// leaves a partial record behind.
func (t *Txn) Do(fn func(*Txn) error) error {
	if err := fn(t); err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			return fmt.Errorf(
				"rollback failed: %w: original error: %w",
				rbErr,
				err,
			)
		}
		t.db.logger.Debug(
			"transaction rolled back",
			"component", "database",
			"operation", t.operation,
			"reason", err,
		)
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return nil
	}
	if !t.readWrite {
		return t.rollback()
	}
	if t.metadataTxn == nil && t.blobTxn == nil {
		t.finished = true
		return types.ErrNoStoreAvailable
	}
	var ts int64
	if t.metadataTxn != nil && t.blobTxn != nil {
		ts = time.Now().UnixMilli()
		if err := t.db.updateCommitTimestamp(t, ts); err != nil {
			_ = t.rollback()
			return fmt.Errorf("failed to update commit timestamp: %w", err)
		}
	}
	err := t.commitStores()
	t.finished = true
	if err != nil {
		t.db.logger.Error(
			"commit failed",
			"component", "database",
			"operation", t.operation,
			"error", err,
		)
		return err
	}
	t.committedAt = ts
	return nil
}

// commitStores commits the blob store first. A blob failure leaves the
// metadata uncommitted, and metadata rows are what make a record visible.
func (t *Txn) commitStores() error {
	if t.blobTxn != nil {
		if err := t.blobTxn.Commit(); err != nil {
			if t.metadataTxn != nil {
				_ = t.metadataTxn.Rollback()
			}
			return fmt.Errorf("blob commit failed: %w", err)
		}
	}
	if t.metadataTxn != nil {
		if err := t.metadataTxn.Commit(); err != nil {
			_ = t.metadataTxn.Rollback()
			return fmt.Errorf(
				"partial commit: metadata commit failed after blob commit: %w",
				err,
			)
		}
	}
	return nil
}

func (t *Txn) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rollback()
}

func (t *Txn) rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	var errs []error
	if t.metadataTxn != nil {
		if err := t.metadataTxn.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("metadata rollback: %w", err))
		}
	}
	if t.blobTxn != nil {
		if err := t.blobTxn.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("blob rollback: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Release ends a transaction that was not committed. It is meant for
// defer statements and only logs failures.
func (t *Txn) Release() {
	if err := t.Rollback(); err != nil {
		t.db.logger.Debug(
			"transaction release failed",
			"component", "database",
			"operation", t.operation,
			"read_write", t.readWrite,
			"error", err,
		)
	}
}
