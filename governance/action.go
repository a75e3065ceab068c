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
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
)

// Instruction tag carried in the first data byte of a config update
const InstructionSetGovernanceConfig uint8 = 19

var ErrNotSetGovernanceConfig = errors.New("action is not a governance config update")

type accountMetaCbor struct {
	cbor.StructAsArray
	Pubkey     []byte
	IsSigner   bool
	IsWritable bool
}

type actionCbor struct {
	cbor.StructAsArray
	ProgramId []byte
	Accounts  []accountMetaCbor
	Data      []byte
}

type voteThresholdCbor struct {
	cbor.StructAsArray
	Type  uint8
	Value uint8
}

type governanceConfigCbor struct {
	cbor.StructAsArray
	MinTransactionHoldUpTime           uint32
	VotingBaseTime                     uint32
	VotingCoolOffTime                  uint32
	MinCommunityWeightToCreateProposal uint64
	MinCouncilWeightToCreateProposal   uint64
	DepositExemptProposalCount         uint8
	CommunityVoteThreshold             voteThresholdCbor
	CouncilVoteThreshold               voteThresholdCbor
}

// EncodeActions serializes an action list for storage
func EncodeActions(actions []Action) ([]byte, error) {
	tmp := make([]actionCbor, 0, len(actions))
	for _, action := range actions {
		item := actionCbor{
			ProgramId: action.ProgramId.Bytes(),
			Accounts:  make([]accountMetaCbor, 0, len(action.Accounts)),
			Data:      action.Data,
		}
		if item.Data == nil {
			item.Data = []byte{}
		}
		for _, meta := range action.Accounts {
			item.Accounts = append(
				item.Accounts,
				accountMetaCbor{
					Pubkey:     meta.Pubkey.Bytes(),
					IsSigner:   meta.IsSigner,
					IsWritable: meta.IsWritable,
				},
			)
		}
		tmp = append(tmp, item)
	}
	return cbor.Encode(tmp)
}

// DecodeActions reverses EncodeActions
func DecodeActions(data []byte) ([]Action, error) {
	var tmp []actionCbor
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	ret := make([]Action, 0, len(tmp))
	for i, item := range tmp {
		programId, err := NewPublicKey(item.ProgramId)
		if err != nil {
			return nil, fmt.Errorf("decode action %d program id: %w", i, err)
		}
		action := Action{
			ProgramId: programId,
			Data:      item.Data,
		}
		for j, meta := range item.Accounts {
			pubkey, err := NewPublicKey(meta.Pubkey)
			if err != nil {
				return nil, fmt.Errorf(
					"decode action %d account %d: %w",
					i,
					j,
					err,
				)
			}
			action.Accounts = append(
				action.Accounts,
				AccountMeta{
					Pubkey:     pubkey,
					IsSigner:   meta.IsSigner,
					IsWritable: meta.IsWritable,
				},
			)
		}
		ret = append(ret, action)
	}
	return ret, nil
}

// NewSetGovernanceConfigAction builds an action that replaces the config
// of a governance when executed. The governance account signs for itself.
func NewSetGovernanceConfigAction(
	programId PublicKey,
	governance PublicKey,
	config GovernanceConfig,
) (Action, error) {
	payload, err := cbor.Encode(
		governanceConfigCbor{
			MinTransactionHoldUpTime:           config.MinTransactionHoldUpTime,
			VotingBaseTime:                     config.VotingBaseTime,
			VotingCoolOffTime:                  config.VotingCoolOffTime,
			MinCommunityWeightToCreateProposal: config.MinCommunityWeightToCreateProposal,
			MinCouncilWeightToCreateProposal:   config.MinCouncilWeightToCreateProposal,
			DepositExemptProposalCount:         config.DepositExemptProposalCount,
			CommunityVoteThreshold: voteThresholdCbor{
				Type:  uint8(config.CommunityVoteThreshold.Type),
				Value: config.CommunityVoteThreshold.Value,
			},
			CouncilVoteThreshold: voteThresholdCbor{
				Type:  uint8(config.CouncilVoteThreshold.Type),
				Value: config.CouncilVoteThreshold.Value,
			},
		},
	)
	if err != nil {
		return Action{}, err
	}
	data := make([]byte, 0, len(payload)+1)
	data = append(data, InstructionSetGovernanceConfig)
	data = append(data, payload...)
	return Action{
		ProgramId: programId,
		Accounts: []AccountMeta{
			{Pubkey: governance, IsSigner: true, IsWritable: true},
		},
		Data: data,
	}, nil
}

// DecodeSetGovernanceConfigAction extracts the config carried by an
// action built with NewSetGovernanceConfigAction
func DecodeSetGovernanceConfigAction(action Action) (GovernanceConfig, error) {
	if len(action.Data) == 0 ||
		action.Data[0] != InstructionSetGovernanceConfig {
		return GovernanceConfig{}, ErrNotSetGovernanceConfig
	}
	var tmp governanceConfigCbor
	if _, err := cbor.Decode(action.Data[1:], &tmp); err != nil {
		return GovernanceConfig{}, fmt.Errorf("decode governance config: %w", err)
	}
	return GovernanceConfig{
		MinTransactionHoldUpTime:           tmp.MinTransactionHoldUpTime,
		VotingBaseTime:                     tmp.VotingBaseTime,
		VotingCoolOffTime:                  tmp.VotingCoolOffTime,
		MinCommunityWeightToCreateProposal: tmp.MinCommunityWeightToCreateProposal,
		MinCouncilWeightToCreateProposal:   tmp.MinCouncilWeightToCreateProposal,
		DepositExemptProposalCount:         tmp.DepositExemptProposalCount,
		CommunityVoteThreshold: VoteThreshold{
			Type:  VoteThresholdType(tmp.CommunityVoteThreshold.Type),
			Value: tmp.CommunityVoteThreshold.Value,
		},
		CouncilVoteThreshold: VoteThreshold{
			Type:  VoteThresholdType(tmp.CouncilVoteThreshold.Type),
			Value: tmp.CouncilVoteThreshold.Value,
		},
	}, nil
}
