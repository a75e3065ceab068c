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

package node

import (
	"context"
	"log/slog"

	"github.com/blinklabs-io/govrealm/internal/config"
	"github.com/blinklabs-io/govrealm/internal/fixture"
	"github.com/blinklabs-io/govrealm/ledger"
)

// OpenLedger opens the configured database for a one-shot command
func OpenLedger(cfg *config.Config, logger *slog.Logger) (*ledger.LedgerState, error) {
	return ledger.NewLedgerState(
		ledger.LedgerStateConfig{
			Logger:         logger,
			DataDir:        cfg.DatabasePath,
			BlobPlugin:     cfg.BlobPlugin,
			MetadataPlugin: cfg.MetadataPlugin,
		},
	)
}

// Load seeds the database with the accounts in a fixture file
func Load(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	fixturePath string,
) error {
	f, err := fixture.Load(fixturePath)
	if err != nil {
		return err
	}
	ls, err := OpenLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer ls.Close()
	return ls.LoadAccounts(ctx, f.Accounts())
}
