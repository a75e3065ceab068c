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

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/governance"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GetProposal returns the stored proposal with its option counters
func (ls *LedgerState) GetProposal(
	ctx context.Context,
	address governance.PublicKey,
) (*governance.Proposal, error) {
	_, span := ls.tracer.Start(
		ctx,
		"ledger.GetProposal",
		trace.WithAttributes(attribute.String("proposal", address.String())),
	)
	defer span.End()
	ls.RLock()
	defer ls.RUnlock()
	txn := ls.db.Transaction(false)
	defer txn.Release()
	return ls.loadProposal(address, txn)
}

// GetProposalTransactions returns the live records of a proposal ordered
// by option and index
func (ls *LedgerState) GetProposalTransactions(
	ctx context.Context,
	address governance.PublicKey,
) ([]*governance.ProposalTransaction, error) {
	_, span := ls.tracer.Start(
		ctx,
		"ledger.GetProposalTransactions",
		trace.WithAttributes(attribute.String("proposal", address.String())),
	)
	defer span.End()
	ls.RLock()
	defer ls.RUnlock()
	txn := ls.db.Transaction(false)
	defer txn.Release()
	if _, err := ls.loadProposal(address, txn); err != nil {
		return nil, err
	}
	return ls.db.GetProposalTransactions(address, txn)
}

// GetProposalTransaction returns the live record at the given slot of a
// proposal option
func (ls *LedgerState) GetProposalTransaction(
	ctx context.Context,
	address governance.PublicKey,
	optionIndex uint8,
	index uint16,
) (*governance.ProposalTransaction, error) {
	_, span := ls.tracer.Start(
		ctx,
		"ledger.GetProposalTransaction",
		trace.WithAttributes(
			attribute.String("proposal", address.String()),
			attribute.Int("option_index", int(optionIndex)),
			attribute.Int("index", int(index)),
		),
	)
	defer span.End()
	ls.RLock()
	defer ls.RUnlock()
	txn := ls.db.Transaction(false)
	defer txn.Release()
	if _, err := ls.loadProposal(address, txn); err != nil {
		return nil, err
	}
	ptx, err := ls.db.GetProposalTransaction(address, optionIndex, index, txn)
	if err != nil {
		if errors.Is(err, models.ErrProposalTransactionNotFound) {
			return nil, governance.ErrProposalTransactionNotFound
		}
		return nil, fmt.Errorf("load proposal transaction: %w", err)
	}
	return ptx, nil
}

func (ls *LedgerState) GetGovernance(
	ctx context.Context,
	address governance.PublicKey,
) (*governance.Governance, error) {
	_, span := ls.tracer.Start(ctx, "ledger.GetGovernance")
	defer span.End()
	ls.RLock()
	defer ls.RUnlock()
	txn := ls.db.Transaction(false)
	defer txn.Release()
	return ls.loadGovernance(address, txn)
}

func (ls *LedgerState) GetTokenOwnerRecord(
	ctx context.Context,
	address governance.PublicKey,
) (*governance.TokenOwnerRecord, error) {
	_, span := ls.tracer.Start(ctx, "ledger.GetTokenOwnerRecord")
	defer span.End()
	ls.RLock()
	defer ls.RUnlock()
	txn := ls.db.Transaction(false)
	defer txn.Release()
	return ls.loadTokenOwnerRecord(address, txn)
}
