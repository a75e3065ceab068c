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

	"github.com/blinklabs-io/govrealm/database"
	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/governance"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrInvalidOptionCounters = errors.New("invalid proposal option counters")

// Accounts is a set of records maintained outside this service, such as
// by realm management and proposal creation
type Accounts struct {
	Governances       []governance.Governance
	TokenOwnerRecords []governance.TokenOwnerRecord
	Proposals         []governance.Proposal
}

// LoadAccounts stores the given accounts in one database transaction,
// replacing any existing records with the same address. The transaction
// counters of an option that is already stored are kept.
func (ls *LedgerState) LoadAccounts(ctx context.Context, accounts Accounts) error {
	_, span := ls.tracer.Start(
		ctx,
		"ledger.LoadAccounts",
		trace.WithAttributes(
			attribute.Int("governances", len(accounts.Governances)),
			attribute.Int("token_owner_records", len(accounts.TokenOwnerRecords)),
			attribute.Int("proposals", len(accounts.Proposals)),
		),
	)
	defer span.End()
	for i := range accounts.Proposals {
		if err := checkOptionCounters(&accounts.Proposals[i]); err != nil {
			ls.reject(span, "load", err)
			return err
		}
	}
	ls.Lock()
	defer ls.Unlock()
	txn := ls.db.Transaction(true).WithOperation("load_accounts")
	err := txn.Do(func(txn *database.Txn) error {
		for i := range accounts.Governances {
			if err := ls.db.SetGovernance(&accounts.Governances[i], txn); err != nil {
				return fmt.Errorf("store governance: %w", err)
			}
		}
		for i := range accounts.TokenOwnerRecords {
			if err := ls.db.SetTokenOwnerRecord(&accounts.TokenOwnerRecords[i], txn); err != nil {
				return fmt.Errorf("store token owner record: %w", err)
			}
		}
		for i := range accounts.Proposals {
			proposal, err := ls.keepStoredCounters(&accounts.Proposals[i], txn)
			if err != nil {
				return err
			}
			if err := ls.db.SetProposal(proposal, txn); err != nil {
				return fmt.Errorf("store proposal: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		ls.reject(span, "load", err)
		return err
	}
	ls.config.Logger.Info(
		"loaded accounts",
		"component", "ledger",
		"governances", len(accounts.Governances),
		"token_owner_records", len(accounts.TokenOwnerRecords),
		"proposals", len(accounts.Proposals),
	)
	return nil
}

// keepStoredCounters returns a copy of the proposal with the counters of
// every already stored option replaced by the stored values
func (ls *LedgerState) keepStoredCounters(
	p *governance.Proposal,
	txn *database.Txn,
) (*governance.Proposal, error) {
	stored, err := ls.db.GetProposal(p.Address, txn)
	if err != nil {
		if errors.Is(err, models.ErrProposalNotFound) {
			return p, nil
		}
		return nil, fmt.Errorf("load stored proposal: %w", err)
	}
	ret := p.Clone()
	for i := range ret.Options {
		if i >= len(stored.Options) {
			break
		}
		ret.Options[i].TransactionsCount = stored.Options[i].TransactionsCount
		ret.Options[i].TransactionsNextIndex = stored.Options[i].TransactionsNextIndex
		ret.Options[i].TransactionsExecutedCount = stored.Options[i].TransactionsExecutedCount
	}
	return ret, nil
}

func checkOptionCounters(p *governance.Proposal) error {
	for i, opt := range p.Options {
		if opt.TransactionsCount > opt.TransactionsNextIndex ||
			opt.TransactionsExecutedCount > opt.TransactionsCount {
			return fmt.Errorf(
				"%w: proposal %s option %d",
				ErrInvalidOptionCounters,
				p.Address,
				i,
			)
		}
	}
	return nil
}
