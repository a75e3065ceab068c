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

package models

import "errors"

var ErrProposalTransactionNotFound = errors.New("proposal transaction not found")

// ProposalTransaction is the metadata row of a transaction record. The
// actions live in the blob store keyed by Address.
type ProposalTransaction struct {
	ID               uint   `gorm:"primarykey"`
	Address          []byte `gorm:"uniqueIndex;size:32;not null"`
	Proposal         []byte `gorm:"uniqueIndex:idx_proposal_transaction,priority:1;size:32;not null"`
	OptionIndex      uint8  `gorm:"uniqueIndex:idx_proposal_transaction,priority:2;not null"`
	TransactionIndex uint16 `gorm:"uniqueIndex:idx_proposal_transaction,priority:3;not null"`
	HoldUpTime       uint32 `gorm:"not null"`
	ActionCount      uint32 `gorm:"not null"`
	ExecutedAt       *int64
}

func (ProposalTransaction) TableName() string {
	return "proposal_transaction"
}
