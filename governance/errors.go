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

import "errors"

// Error is a rejection reason. Each value carries a stable numeric code
// and a kind name, and can be matched with errors.Is.
type Error uint32

const (
	ErrGoverningTokenOwnerOrDelegateMustSign Error = iota + 500
	ErrInvalidGovernanceForProposal
	ErrInvalidStateCannotEditTransactions
	ErrTransactionHoldUpTimeBelowRequiredMin
	ErrTransactionAlreadyExists
	ErrInvalidTransactionIndex
	ErrInvalidProposalOwnerAccount
	ErrInvalidProposalOptionIndex
	ErrEmptyTransactionActions
	ErrInvalidProposalForProposalTransaction
	ErrProposalTransactionNotFound
	ErrTransactionAlreadyExecuted
)

var errorDetails = map[Error]struct {
	kind    string
	message string
}{
	ErrGoverningTokenOwnerOrDelegateMustSign: {
		"GoverningTokenOwnerOrDelegateMustSign",
		"governing token owner or delegate must sign transaction",
	},
	ErrInvalidGovernanceForProposal: {
		"InvalidGovernanceForProposal",
		"invalid governance for proposal",
	},
	ErrInvalidStateCannotEditTransactions: {
		"InvalidStateCannotEditTransactions",
		"invalid state: cannot edit transactions",
	},
	ErrTransactionHoldUpTimeBelowRequiredMin: {
		"TransactionHoldUpTimeBelowRequiredMin",
		"transaction hold up time is below the min specified by governance",
	},
	ErrTransactionAlreadyExists: {
		"TransactionAlreadyExists",
		"transaction already exists",
	},
	ErrInvalidTransactionIndex: {
		"InvalidTransactionIndex",
		"invalid transaction index",
	},
	ErrInvalidProposalOwnerAccount: {
		"InvalidProposalOwnerAccount",
		"invalid proposal owner account",
	},
	ErrInvalidProposalOptionIndex: {
		"InvalidProposalOptionIndex",
		"invalid proposal option index",
	},
	ErrEmptyTransactionActions: {
		"EmptyTransactionActions",
		"transaction must contain at least one action",
	},
	ErrInvalidProposalForProposalTransaction: {
		"InvalidProposalForProposalTransaction",
		"invalid proposal for proposal transaction",
	},
	ErrProposalTransactionNotFound: {
		"ProposalTransactionNotFound",
		"proposal transaction not found",
	},
	ErrTransactionAlreadyExecuted: {
		"TransactionAlreadyExecuted",
		"transaction already executed",
	},
}

func (e Error) Error() string {
	if d, ok := errorDetails[e]; ok {
		return d.message
	}
	return "unknown governance error"
}

// Kind returns the symbolic name of the error
func (e Error) Kind() string {
	if d, ok := errorDetails[e]; ok {
		return d.kind
	}
	return "Unknown"
}

func (e Error) Code() uint32 {
	return uint32(e)
}

// AsError extracts a governance Error from an error chain
func AsError(err error) (Error, bool) {
	var gErr Error
	if errors.As(err, &gErr) {
		return gErr, true
	}
	return 0, false
}
