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

import (
	"errors"

	"github.com/blinklabs-io/govrealm/database/types"
)

var ErrGovernanceNotFound = errors.New("governance not found")

// Governance stores a governance account with its flattened config
type Governance struct {
	ID                                 uint         `gorm:"primarykey"`
	Address                            []byte       `gorm:"uniqueIndex;size:32;not null"`
	Realm                              []byte       `gorm:"index;size:32;not null"`
	MinTransactionHoldUpTime           uint32       `gorm:"not null"`
	VotingBaseTime                     uint32       `gorm:"not null"`
	VotingCoolOffTime                  uint32       `gorm:"not null"`
	MinCommunityWeightToCreateProposal types.Uint64 `gorm:"type:text;not null"`
	MinCouncilWeightToCreateProposal   types.Uint64 `gorm:"type:text;not null"`
	DepositExemptProposalCount         uint8        `gorm:"not null"`
	CommunityVoteThresholdType         uint8        `gorm:"not null"`
	CommunityVoteThresholdValue        uint8        `gorm:"not null"`
	CouncilVoteThresholdType           uint8        `gorm:"not null"`
	CouncilVoteThresholdValue          uint8        `gorm:"not null"`
}

func (Governance) TableName() string {
	return "governance"
}
