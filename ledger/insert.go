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
	"fmt"

	"github.com/blinklabs-io/govrealm/database"
	"github.com/blinklabs-io/govrealm/governance"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InsertTransactionRequest references the accounts of an insertion by
// address
type InsertTransactionRequest struct {
	Governance       governance.PublicKey
	Proposal         governance.PublicKey
	TokenOwnerRecord governance.PublicKey
	Signer           governance.PublicKey
	OptionIndex      uint8
	Index            uint16
	HoldUpTime       uint32
	Actions          []governance.Action
}

// InsertTransaction validates the request against the stored accounts
// and, when accepted, stores the new record and the updated proposal
// counters. A rejected request leaves the database unchanged.
func (ls *LedgerState) InsertTransaction(
	ctx context.Context,
	req InsertTransactionRequest,
) (*governance.ProposalTransaction, error) {
	_, span := ls.tracer.Start(
		ctx,
		"ledger.InsertTransaction",
		trace.WithAttributes(
			attribute.String("proposal", req.Proposal.String()),
			attribute.Int("option_index", int(req.OptionIndex)),
			attribute.Int("index", int(req.Index)),
		),
	)
	defer span.End()
	if err := ctx.Err(); err != nil {
		ls.reject(span, "insert", err)
		return nil, err
	}
	ls.Lock()
	defer ls.Unlock()
	var ret *governance.ProposalTransaction
	var option governance.ProposalOption
	txn := ls.db.Transaction(true).WithOperation("insert_transaction")
	err := txn.Do(func(txn *database.Txn) error {
		gov, err := ls.loadGovernance(req.Governance, txn)
		if err != nil {
			return err
		}
		proposal, err := ls.loadProposal(req.Proposal, txn)
		if err != nil {
			return err
		}
		record, err := ls.loadTokenOwnerRecord(req.TokenOwnerRecord, txn)
		if err != nil {
			return err
		}
		occupied, err := ls.db.ProposalTransactionExists(
			req.Proposal,
			req.OptionIndex,
			req.Index,
			txn,
		)
		if err != nil {
			return fmt.Errorf("check transaction slot: %w", err)
		}
		ptx, err := governance.InsertTransaction(
			governance.InsertTransactionParams{
				Governance:       gov,
				Proposal:         proposal,
				TokenOwnerRecord: record,
				Signer:           req.Signer,
				OptionIndex:      req.OptionIndex,
				Index:            req.Index,
				HoldUpTime:       req.HoldUpTime,
				Actions:          req.Actions,
				SlotOccupied:     occupied,
			},
		)
		if err != nil {
			return err
		}
		if err := ls.db.AddProposalTransaction(ptx, txn); err != nil {
			return fmt.Errorf("store proposal transaction: %w", err)
		}
		if err := ls.db.SetProposal(proposal, txn); err != nil {
			return fmt.Errorf("store proposal: %w", err)
		}
		ret = ptx
		option = proposal.Options[req.OptionIndex]
		return nil
	})
	if err != nil {
		ls.reject(span, "insert", err)
		return nil, err
	}
	ls.metrics.transactionsInserted.Inc()
	span.SetAttributes(attribute.String("address", ret.Address.String()))
	ls.config.Logger.Info(
		"inserted proposal transaction",
		"component", "ledger",
		"address", ret.Address.String(),
		"proposal", ret.Proposal.String(),
		"option_index", ret.OptionIndex,
		"index", ret.TransactionIndex,
		"transactions_count", option.TransactionsCount,
		"transactions_next_index", option.TransactionsNextIndex,
	)
	ls.publish(
		TransactionInsertedEventType,
		TransactionInsertedEvent{
			Transaction: ret,
			Option:      option,
		},
	)
	return ret, nil
}

func (ls *LedgerState) reject(span trace.Span, operation string, err error) {
	kind := errorKind(err)
	ls.metrics.requestsRejected.WithLabelValues(operation, kind).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	ls.config.Logger.Debug(
		"request rejected",
		"component", "ledger",
		"operation", operation,
		"kind", kind,
		"error", err,
	)
}
