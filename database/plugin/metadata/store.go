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

package metadata

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/database/plugin"
	"github.com/blinklabs-io/govrealm/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// MetadataStore holds the relational state of governance accounts. The
// getters return nil without an error when a row does not exist.
type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Governance accounts
	GetGovernance(
		[]byte, // address
		types.Txn,
	) (*models.Governance, error)
	SetGovernance(*models.Governance, types.Txn) error
	GetTokenOwnerRecord(
		[]byte, // address
		types.Txn,
	) (*models.TokenOwnerRecord, error)
	SetTokenOwnerRecord(*models.TokenOwnerRecord, types.Txn) error
	GetProposal(
		[]byte, // address
		types.Txn,
	) (*models.Proposal, error)
	SetProposal(*models.Proposal, types.Txn) error

	// Proposal transactions
	GetProposalTransaction(
		[]byte, // proposal
		uint8, // optionIndex
		uint16, // transactionIndex
		types.Txn,
	) (*models.ProposalTransaction, error)
	GetProposalTransactions(
		[]byte, // proposal
		types.Txn,
	) ([]models.ProposalTransaction, error)
	AddProposalTransaction(*models.ProposalTransaction, types.Txn) error
	DeleteProposalTransaction(
		[]byte, // proposal
		uint8, // optionIndex
		uint16, // transactionIndex
		types.Txn,
	) error
}

// New returns the started metadata plugin selected by name
func New(
	pluginName string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	p, err := plugin.StartPlugin(
		plugin.PluginTypeMetadata,
		pluginName,
		logger,
		promRegistry,
	)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		_ = p.Stop()
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
