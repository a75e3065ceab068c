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

type RemoveTransactionParams struct {
	Proposal         *Proposal
	TokenOwnerRecord *TokenOwnerRecord
	Signer           PublicKey
	Transaction      *ProposalTransaction
}

// RemoveTransaction validates a removal request and, on success,
// decrements the transaction count of the record's option. The next
// index is kept so the vacated slot can be back-filled.
func RemoveTransaction(params RemoveTransactionParams) error {
	if params.Proposal == nil || params.TokenOwnerRecord == nil ||
		params.Transaction == nil {
		return ErrMissingAccount
	}
	proposal := params.Proposal
	txn := params.Transaction
	if err := params.TokenOwnerRecord.AssertTokenOwnerOrDelegateIsSigner(params.Signer); err != nil {
		return err
	}
	if proposal.TokenOwnerRecord != params.TokenOwnerRecord.Address {
		return ErrInvalidProposalOwnerAccount
	}
	if !proposal.State.Editable() {
		return ErrInvalidStateCannotEditTransactions
	}
	if txn.Proposal != proposal.Address {
		return ErrInvalidProposalForProposalTransaction
	}
	if txn.ExecutedAt != nil {
		return ErrTransactionAlreadyExecuted
	}
	option, err := proposal.Option(txn.OptionIndex)
	if err != nil {
		return err
	}
	if option.TransactionsCount == 0 {
		return ErrProposalTransactionNotFound
	}
	option.TransactionsCount--
	return nil
}
