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

	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/database/types"
	"github.com/blinklabs-io/govrealm/governance"
)

const ProposalTransactionBlobKeyPrefix = "pt"

// ProposalTransactionBlobKey returns the blob key holding the encoded
// actions of a transaction record
func ProposalTransactionBlobKey(address governance.PublicKey) []byte {
	key := []byte(ProposalTransactionBlobKeyPrefix)
	return append(key, address.Bytes()...)
}

func (d *Database) proposalTransactionFromModel(
	m *models.ProposalTransaction,
	txn *Txn,
) (*governance.ProposalTransaction, error) {
	address, err := governance.NewPublicKey(m.Address)
	if err != nil {
		return nil, fmt.Errorf("proposal transaction address: %w", err)
	}
	proposal, err := governance.NewPublicKey(m.Proposal)
	if err != nil {
		return nil, fmt.Errorf("proposal transaction proposal: %w", err)
	}
	actionsCbor, err := d.blob.Get(txn.Blob(), ProposalTransactionBlobKey(address))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, fmt.Errorf(
				"actions for proposal transaction %s missing from blob store: %w",
				address,
				err,
			)
		}
		return nil, err
	}
	actions, err := governance.DecodeActions(actionsCbor)
	if err != nil {
		return nil, err
	}
	if uint32(len(actions)) != m.ActionCount { //nolint:gosec // action count is bounded
		return nil, fmt.Errorf(
			"proposal transaction %s: expected %d actions, found %d",
			address,
			m.ActionCount,
			len(actions),
		)
	}
	return &governance.ProposalTransaction{
		Address:          address,
		Proposal:         proposal,
		OptionIndex:      m.OptionIndex,
		TransactionIndex: m.TransactionIndex,
		HoldUpTime:       m.HoldUpTime,
		Actions:          actions,
		ExecutedAt:       m.ExecutedAt,
	}, nil
}

// ProposalTransactionExists reports whether a live record occupies the slot
func (d *Database) ProposalTransactionExists(
	proposal governance.PublicKey,
	optionIndex uint8,
	transactionIndex uint16,
	txn *Txn,
) (bool, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetProposalTransaction(
		proposal.Bytes(),
		optionIndex,
		transactionIndex,
		txn.Metadata(),
	)
	if err != nil {
		return false, err
	}
	return ret != nil, nil
}

// GetProposalTransaction returns the live record at the given slot
func (d *Database) GetProposalTransaction(
	proposal governance.PublicKey,
	optionIndex uint8,
	transactionIndex uint16,
	txn *Txn,
) (*governance.ProposalTransaction, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetProposalTransaction(
		proposal.Bytes(),
		optionIndex,
		transactionIndex,
		txn.Metadata(),
	)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrProposalTransactionNotFound
	}
	return d.proposalTransactionFromModel(ret, txn)
}

// GetProposalTransactions returns the live records of a proposal ordered
// by option and index
func (d *Database) GetProposalTransactions(
	proposal governance.PublicKey,
	txn *Txn,
) ([]*governance.ProposalTransaction, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	rows, err := d.metadata.GetProposalTransactions(proposal.Bytes(), txn.Metadata())
	if err != nil {
		return nil, err
	}
	ret := make([]*governance.ProposalTransaction, 0, len(rows))
	for i := range rows {
		ptx, err := d.proposalTransactionFromModel(&rows[i], txn)
		if err != nil {
			return nil, err
		}
		ret = append(ret, ptx)
	}
	return ret, nil
}

// AddProposalTransaction stores the record row and its encoded actions
func (d *Database) AddProposalTransaction(
	ptx *governance.ProposalTransaction,
	txn *Txn,
) error {
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.AddProposalTransaction(ptx, txn)
		})
	}
	actionsCbor, err := governance.EncodeActions(ptx.Actions)
	if err != nil {
		return fmt.Errorf("encode actions: %w", err)
	}
	if err := d.blob.Set(txn.Blob(), ProposalTransactionBlobKey(ptx.Address), actionsCbor); err != nil {
		return fmt.Errorf("store actions: %w", err)
	}
	tmp := &models.ProposalTransaction{
		Address:          ptx.Address.Bytes(),
		Proposal:         ptx.Proposal.Bytes(),
		OptionIndex:      ptx.OptionIndex,
		TransactionIndex: ptx.TransactionIndex,
		HoldUpTime:       ptx.HoldUpTime,
		ActionCount:      uint32(len(ptx.Actions)), //nolint:gosec // action count is bounded
		ExecutedAt:       ptx.ExecutedAt,
	}
	return d.metadata.AddProposalTransaction(tmp, txn.Metadata())
}

// DeleteProposalTransaction removes the record row and its actions
func (d *Database) DeleteProposalTransaction(
	ptx *governance.ProposalTransaction,
	txn *Txn,
) error {
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.DeleteProposalTransaction(ptx, txn)
		})
	}
	if err := d.metadata.DeleteProposalTransaction(
		ptx.Proposal.Bytes(),
		ptx.OptionIndex,
		ptx.TransactionIndex,
		txn.Metadata(),
	); err != nil {
		return err
	}
	return d.blob.Delete(txn.Blob(), ProposalTransactionBlobKey(ptx.Address))
}
