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

package governance

import (
	"errors"
	"math"
)

var ErrMissingAccount = errors.New("missing account")

type InsertTransactionParams struct {
	Governance       *Governance
	Proposal         *Proposal
	TokenOwnerRecord *TokenOwnerRecord
	Signer           PublicKey
	OptionIndex      uint8
	Index            uint16
	HoldUpTime       uint32
	Actions          []Action
	// SlotOccupied reports whether a live record already exists at
	// (Proposal, OptionIndex, Index)
	SlotOccupied bool
}

// InsertTransaction validates an insertion request and, on success,
// updates the option counters of params.Proposal and returns the new
// record. The proposal is left untouched when an error is returned.
func InsertTransaction(params InsertTransactionParams) (*ProposalTransaction, error) {
	if params.Governance == nil || params.Proposal == nil ||
		params.TokenOwnerRecord == nil {
		return nil, ErrMissingAccount
	}
	proposal := params.Proposal
	if err := params.TokenOwnerRecord.AssertTokenOwnerOrDelegateIsSigner(params.Signer); err != nil {
		return nil, err
	}
	if proposal.TokenOwnerRecord != params.TokenOwnerRecord.Address {
		return nil, ErrInvalidProposalOwnerAccount
	}
	if proposal.Governance != params.Governance.Address {
		return nil, ErrInvalidGovernanceForProposal
	}
	if !proposal.State.Editable() {
		return nil, ErrInvalidStateCannotEditTransactions
	}
	if params.HoldUpTime < params.Governance.Config.MinTransactionHoldUpTime {
		return nil, ErrTransactionHoldUpTimeBelowRequiredMin
	}
	option, err := proposal.Option(params.OptionIndex)
	if err != nil {
		return nil, err
	}
	if len(params.Actions) == 0 {
		return nil, ErrEmptyTransactionActions
	}
	switch {
	case params.Index > option.TransactionsNextIndex:
		return nil, ErrInvalidTransactionIndex
	case params.Index < option.TransactionsNextIndex:
		if params.SlotOccupied {
			return nil, ErrTransactionAlreadyExists
		}
		// Back-fill of a vacated slot
		if option.TransactionsCount == math.MaxUint16 {
			return nil, ErrInvalidTransactionIndex
		}
		option.TransactionsCount++
	default:
		if params.SlotOccupied {
			return nil, ErrTransactionAlreadyExists
		}
		if option.TransactionsNextIndex == math.MaxUint16 {
			return nil, ErrInvalidTransactionIndex
		}
		option.TransactionsNextIndex++
		option.TransactionsCount++
	}
	actions := make([]Action, len(params.Actions))
	copy(actions, params.Actions)
	return &ProposalTransaction{
		Address: ProposalTransactionAddress(
			proposal.Address,
			params.OptionIndex,
			params.Index,
		),
		Proposal:         proposal.Address,
		OptionIndex:      params.OptionIndex,
		TransactionIndex: params.Index,
		HoldUpTime:       params.HoldUpTime,
		Actions:          actions,
	}, nil
}
