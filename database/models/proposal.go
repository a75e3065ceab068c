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

var ErrProposalNotFound = errors.New("proposal not found")

type Proposal struct {
	ID               uint             `gorm:"primarykey"`
	Address          []byte           `gorm:"uniqueIndex;size:32;not null"`
	Governance       []byte           `gorm:"index;size:32;not null"`
	TokenOwnerRecord []byte           `gorm:"index;size:32;not null"`
	Name             string           `gorm:"not null"`
	State            uint8            `gorm:"index;not null"`
	Options          []ProposalOption `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
}

func (Proposal) TableName() string {
	return "proposal"
}

// ProposalOption holds the transaction counters of one proposal option
type ProposalOption struct {
	ID                        uint   `gorm:"primarykey"`
	ProposalID                uint   `gorm:"uniqueIndex:idx_proposal_option,priority:1;not null"`
	OptionIndex               uint8  `gorm:"uniqueIndex:idx_proposal_option,priority:2;not null"`
	Label                     string `gorm:"not null"`
	TransactionsCount         uint16 `gorm:"not null"`
	TransactionsNextIndex     uint16 `gorm:"not null"`
	TransactionsExecutedCount uint16 `gorm:"not null"`
}

func (ProposalOption) TableName() string {
	return "proposal_option"
}
