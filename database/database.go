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
	"io"
	"log/slog"

	"github.com/blinklabs-io/govrealm/database/plugin"
	"github.com/blinklabs-io/govrealm/database/plugin/blob"
	"github.com/blinklabs-io/govrealm/database/plugin/metadata"
	"github.com/prometheus/client_golang/prometheus"

	// Register storage plugins
	_ "github.com/blinklabs-io/govrealm/database/plugin/blob/badger"
	_ "github.com/blinklabs-io/govrealm/database/plugin/metadata/postgres"
	_ "github.com/blinklabs-io/govrealm/database/plugin/metadata/sqlite"
)

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
	DefaultDataDir        = ".govrealm"
)

// Config selects the storage plugins. An empty DataDir keeps both stores
// in memory.
type Config struct {
	PromRegistry   prometheus.Registerer
	Logger         *slog.Logger
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
}

// DefaultConfig is used when New is called with a nil config
var DefaultConfig = &Config{
	DataDir:        DefaultDataDir,
	BlobPlugin:     DefaultBlobPlugin,
	MetadataPlugin: DefaultMetadataPlugin,
}

// Database pairs a relational metadata store with a blob store. Writes
// that span both go through a Txn.
type Database struct {
	logger   *slog.Logger
	blob     blob.BlobStore
	metadata metadata.MetadataStore
	dataDir  string
}

// Blob returns the underlying blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	if d.metadata != nil {
		err = errors.Join(err, d.metadata.Close())
	}
	if d.blob != nil {
		err = errors.Join(err, d.blob.Close())
	}
	return err
}

// New opens the configured metadata and blob stores
func New(config *Config) (*Database, error) {
	if config == nil {
		config = DefaultConfig
	}
	logger := config.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	blobPlugin := config.BlobPlugin
	if blobPlugin == "" {
		blobPlugin = DefaultBlobPlugin
	}
	metadataPlugin := config.MetadataPlugin
	if metadataPlugin == "" {
		metadataPlugin = DefaultMetadataPlugin
	}
	if err := plugin.SetPluginOption(plugin.PluginTypeBlob, blobPlugin, "data-dir", config.DataDir); err != nil {
		return nil, fmt.Errorf("configure blob plugin: %w", err)
	}
	if err := plugin.SetPluginOption(plugin.PluginTypeMetadata, metadataPlugin, "data-dir", config.DataDir); err != nil {
		return nil, fmt.Errorf("configure metadata plugin: %w", err)
	}
	metadataDb, err := metadata.New(metadataPlugin, logger, config.PromRegistry)
	if err != nil {
		return nil, err
	}
	blobDb, err := blob.New(blobPlugin, logger, config.PromRegistry)
	if err != nil {
		_ = metadataDb.Close()
		return nil, err
	}
	db := &Database{
		logger:   logger,
		blob:     blobDb,
		metadata: metadataDb,
		dataDir:  config.DataDir,
	}
	if err := db.checkCommitTimestamp(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}
