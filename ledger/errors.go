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
	"errors"
	"fmt"

	"github.com/blinklabs-io/govrealm/database"
	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/governance"
)

// ErrAccountNotFound is returned when a request references an account
// that is not stored
var ErrAccountNotFound = errors.New("account not found")

func accountNotFound(kind string, address governance.PublicKey, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrAccountNotFound, kind, address, err)
}

func (ls *LedgerState) loadGovernance(
	address governance.PublicKey,
	txn *database.Txn,
) (*governance.Governance, error) {
	ret, err := ls.db.GetGovernance(address, txn)
	if err != nil {
		if errors.Is(err, models.ErrGovernanceNotFound) {
			return nil, accountNotFound("governance", address, err)
		}
		return nil, fmt.Errorf("load governance: %w", err)
	}
	return ret, nil
}

func (ls *LedgerState) loadProposal(
	address governance.PublicKey,
	txn *database.Txn,
) (*governance.Proposal, error) {
	ret, err := ls.db.GetProposal(address, txn)
	if err != nil {
		if errors.Is(err, models.ErrProposalNotFound) {
			return nil, accountNotFound("proposal", address, err)
		}
		return nil, fmt.Errorf("load proposal: %w", err)
	}
	return ret, nil
}

func (ls *LedgerState) loadTokenOwnerRecord(
	address governance.PublicKey,
	txn *database.Txn,
) (*governance.TokenOwnerRecord, error) {
	ret, err := ls.db.GetTokenOwnerRecord(address, txn)
	if err != nil {
		if errors.Is(err, models.ErrTokenOwnerRecordNotFound) {
			return nil, accountNotFound("token owner record", address, err)
		}
		return nil, fmt.Errorf("load token owner record: %w", err)
	}
	return ret, nil
}

// errorKind returns the label used to count a rejected request
func errorKind(err error) string {
	if gErr, ok := governance.AsError(err); ok {
		return gErr.Kind()
	}
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return "AccountNotFound"
	case errors.Is(err, governance.ErrMissingAccount):
		return "MissingAccount"
	}
	return "Internal"
}
