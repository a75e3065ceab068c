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
	"fmt"
	"strings"
)

type VoteThresholdType uint8

const (
	VoteThresholdDisabled VoteThresholdType = iota
	VoteThresholdYesVotePercentage
	VoteThresholdQuorumPercentage
)

var voteThresholdTypeNames = []string{
	"Disabled",
	"YesVotePercentage",
	"QuorumPercentage",
}

func (t VoteThresholdType) String() string {
	if int(t) < len(voteThresholdTypeNames) {
		return voteThresholdTypeNames[t]
	}
	return fmt.Sprintf("VoteThresholdType(%d)", uint8(t))
}

func (t VoteThresholdType) MarshalText() ([]byte, error) {
	if int(t) >= len(voteThresholdTypeNames) {
		return nil, fmt.Errorf("unknown vote threshold type: %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *VoteThresholdType) UnmarshalText(data []byte) error {
	for i, name := range voteThresholdTypeNames {
		if strings.EqualFold(name, string(data)) {
			*t = VoteThresholdType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown vote threshold type: %q", string(data))
}

type VoteThreshold struct {
	Type  VoteThresholdType `json:"type"  yaml:"type"`
	Value uint8             `json:"value" yaml:"value"`
}

// GovernanceConfig is the policy a governance applies to its proposals
type GovernanceConfig struct {
	MinTransactionHoldUpTime            uint32        `json:"min_transaction_hold_up_time"            yaml:"min_transaction_hold_up_time"`
	VotingBaseTime                      uint32        `json:"voting_base_time"                        yaml:"voting_base_time"`
	VotingCoolOffTime                   uint32        `json:"voting_cool_off_time"                    yaml:"voting_cool_off_time"`
	MinCommunityWeightToCreateProposal  uint64        `json:"min_community_weight_to_create_proposal" yaml:"min_community_weight_to_create_proposal"`
	MinCouncilWeightToCreateProposal    uint64        `json:"min_council_weight_to_create_proposal"   yaml:"min_council_weight_to_create_proposal"`
	DepositExemptProposalCount          uint8         `json:"deposit_exempt_proposal_count"           yaml:"deposit_exempt_proposal_count"`
	CommunityVoteThreshold              VoteThreshold `json:"community_vote_threshold"                yaml:"community_vote_threshold"`
	CouncilVoteThreshold                VoteThreshold `json:"council_vote_threshold"                  yaml:"council_vote_threshold"`
}

type Governance struct {
	Address PublicKey        `json:"address"`
	Realm   PublicKey        `json:"realm"`
	Config  GovernanceConfig `json:"config"`
}

// ProposalOption holds the transaction counters for one outcome of a
// proposal. Count never exceeds NextIndex and NextIndex never decreases.
type ProposalOption struct {
	Label                     string `json:"label"`
	TransactionsCount         uint16 `json:"transactions_count"`
	TransactionsNextIndex     uint16 `json:"transactions_next_index"`
	TransactionsExecutedCount uint16 `json:"transactions_executed_count"`
}

type Proposal struct {
	Address          PublicKey        `json:"address"`
	Governance       PublicKey        `json:"governance"`
	TokenOwnerRecord PublicKey        `json:"token_owner_record"`
	Name             string           `json:"name"`
	State            ProposalState    `json:"state"`
	Options          []ProposalOption `json:"options"`
}

// Option returns the option at the given index
func (p *Proposal) Option(index uint8) (*ProposalOption, error) {
	if int(index) >= len(p.Options) {
		return nil, ErrInvalidProposalOptionIndex
	}
	return &p.Options[index], nil
}

// Clone returns a deep copy of the proposal
func (p *Proposal) Clone() *Proposal {
	ret := *p
	ret.Options = make([]ProposalOption, len(p.Options))
	copy(ret.Options, p.Options)
	return &ret
}

type AccountMeta struct {
	Pubkey     PublicKey `json:"pubkey"      yaml:"pubkey"`
	IsSigner   bool      `json:"is_signer"   yaml:"is_signer"`
	IsWritable bool      `json:"is_writable" yaml:"is_writable"`
}

// Action is an instruction executed when a transaction runs. Its
// contents are opaque to validation.
type Action struct {
	ProgramId PublicKey     `json:"program_id" yaml:"program_id"`
	Accounts  []AccountMeta `json:"accounts"   yaml:"accounts"`
	Data      []byte        `json:"data"       yaml:"data"`
}

type ProposalTransaction struct {
	Address          PublicKey `json:"address"`
	Proposal         PublicKey `json:"proposal"`
	OptionIndex      uint8     `json:"option_index"`
	TransactionIndex uint16    `json:"transaction_index"`
	HoldUpTime       uint32    `json:"hold_up_time"`
	Actions          []Action  `json:"actions"`
	// Unix timestamp of execution, nil while pending
	ExecutedAt *int64 `json:"executed_at,omitempty"`
}
