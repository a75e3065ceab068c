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

package api

import (
	"context"

	"github.com/blinklabs-io/govrealm/governance"
	"github.com/blinklabs-io/govrealm/ledger"
)

// Node is the ledger surface used by the API server. It is satisfied by
// *ledger.LedgerState.
type Node interface {
	InsertTransaction(
		ctx context.Context,
		req ledger.InsertTransactionRequest,
	) (*governance.ProposalTransaction, error)
	RemoveTransaction(
		ctx context.Context,
		req ledger.RemoveTransactionRequest,
	) error
	GetProposal(
		ctx context.Context,
		address governance.PublicKey,
	) (*governance.Proposal, error)
	GetProposalTransactions(
		ctx context.Context,
		address governance.PublicKey,
	) ([]*governance.ProposalTransaction, error)
	GetProposalTransaction(
		ctx context.Context,
		address governance.PublicKey,
		optionIndex uint8,
		index uint16,
	) (*governance.ProposalTransaction, error)
}

var _ Node = (*ledger.LedgerState)(nil)
