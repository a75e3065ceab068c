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

// RemoveTransactionRequest identifies the record to remove by its slot
type RemoveTransactionRequest struct {
	Proposal         governance.PublicKey
	TokenOwnerRecord governance.PublicKey
	Signer           governance.PublicKey
	OptionIndex      uint8
	Index            uint16
}

// RemoveTransaction detaches a record from an editable proposal. The
// option's next index is kept, so the slot can be filled again.
func (ls *LedgerState) RemoveTransaction(
	ctx context.Context,
	req RemoveTransactionRequest,
) error {
	_, span := ls.tracer.Start(
		ctx,
		"ledger.RemoveTransaction",
		trace.WithAttributes(
			attribute.String("proposal", req.Proposal.String()),
			attribute.Int("option_index", int(req.OptionIndex)),
			attribute.Int("index", int(req.Index)),
		),
	)
	defer span.End()
	if err := ctx.Err(); err != nil {
		ls.reject(span, "remove", err)
		return err
	}
	ls.Lock()
	defer ls.Unlock()
	var removed *governance.ProposalTransaction
	var option governance.ProposalOption
	txn := ls.db.Transaction(true).WithOperation("remove_transaction")
	err := txn.Do(func(txn *database.Txn) error {
		proposal, err := ls.loadProposal(req.Proposal, txn)
		if err != nil {
			return err
		}
		record, err := ls.loadTokenOwnerRecord(req.TokenOwnerRecord, txn)
		if err != nil {
			return err
		}
		ptx, err := ls.db.GetProposalTransaction(
			req.Proposal,
			req.OptionIndex,
			req.Index,
			txn,
		)
		if err != nil {
			if errors.Is(err, models.ErrProposalTransactionNotFound) {
				return governance.ErrProposalTransactionNotFound
			}
			return fmt.Errorf("load proposal transaction: %w", err)
		}
		if err := governance.RemoveTransaction(
			governance.RemoveTransactionParams{
				Proposal:         proposal,
				TokenOwnerRecord: record,
				Signer:           req.Signer,
				Transaction:      ptx,
			},
		); err != nil {
			return err
		}
		if err := ls.db.DeleteProposalTransaction(ptx, txn); err != nil {
			return fmt.Errorf("delete proposal transaction: %w", err)
		}
		if err := ls.db.SetProposal(proposal, txn); err != nil {
			return fmt.Errorf("store proposal: %w", err)
		}
		removed = ptx
		option = proposal.Options[ptx.OptionIndex]
		return nil
	})
	if err != nil {
		ls.reject(span, "remove", err)
		return err
	}
	ls.metrics.transactionsRemoved.Inc()
	ls.config.Logger.Info(
		"removed proposal transaction",
		"component", "ledger",
		"address", removed.Address.String(),
		"proposal", removed.Proposal.String(),
		"option_index", removed.OptionIndex,
		"index", removed.TransactionIndex,
		"transactions_count", option.TransactionsCount,
	)
	ls.publish(
		TransactionRemovedEventType,
		TransactionRemovedEvent{
			Address:          removed.Address,
			Proposal:         removed.Proposal,
			OptionIndex:      removed.OptionIndex,
			TransactionIndex: removed.TransactionIndex,
			Option:           option,
		},
	)
	return nil
}
