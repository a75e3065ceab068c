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

package database

import (
	"fmt"

	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/database/types"
	"github.com/blinklabs-io/govrealm/governance"
)

func governanceToModel(g *governance.Governance) *models.Governance {
	cfg := g.Config
	return &models.Governance{
		Address:                            g.Address.Bytes(),
		Realm:                              g.Realm.Bytes(),
		MinTransactionHoldUpTime:           cfg.MinTransactionHoldUpTime,
		VotingBaseTime:                     cfg.VotingBaseTime,
		VotingCoolOffTime:                  cfg.VotingCoolOffTime,
		MinCommunityWeightToCreateProposal: types.Uint64(cfg.MinCommunityWeightToCreateProposal),
		MinCouncilWeightToCreateProposal:   types.Uint64(cfg.MinCouncilWeightToCreateProposal),
		DepositExemptProposalCount:         cfg.DepositExemptProposalCount,
		CommunityVoteThresholdType:         uint8(cfg.CommunityVoteThreshold.Type),
		CommunityVoteThresholdValue:        cfg.CommunityVoteThreshold.Value,
		CouncilVoteThresholdType:           uint8(cfg.CouncilVoteThreshold.Type),
		CouncilVoteThresholdValue:          cfg.CouncilVoteThreshold.Value,
	}
}

func governanceFromModel(m *models.Governance) (*governance.Governance, error) {
	address, err := governance.NewPublicKey(m.Address)
	if err != nil {
		return nil, fmt.Errorf("governance address: %w", err)
	}
	realm, err := governance.NewPublicKey(m.Realm)
	if err != nil {
		return nil, fmt.Errorf("governance realm: %w", err)
	}
	return &governance.Governance{
		Address: address,
		Realm:   realm,
		Config: governance.GovernanceConfig{
			MinTransactionHoldUpTime:           m.MinTransactionHoldUpTime,
			VotingBaseTime:                     m.VotingBaseTime,
			VotingCoolOffTime:                  m.VotingCoolOffTime,
			MinCommunityWeightToCreateProposal: uint64(m.MinCommunityWeightToCreateProposal),
			MinCouncilWeightToCreateProposal:   uint64(m.MinCouncilWeightToCreateProposal),
			DepositExemptProposalCount:         m.DepositExemptProposalCount,
			CommunityVoteThreshold: governance.VoteThreshold{
				Type:  governance.VoteThresholdType(m.CommunityVoteThresholdType),
				Value: m.CommunityVoteThresholdValue,
			},
			CouncilVoteThreshold: governance.VoteThreshold{
				Type:  governance.VoteThresholdType(m.CouncilVoteThresholdType),
				Value: m.CouncilVoteThresholdValue,
			},
		},
	}, nil
}

func tokenOwnerRecordToModel(r *governance.TokenOwnerRecord) *models.TokenOwnerRecord {
	ret := &models.TokenOwnerRecord{
		Address:             r.Address.Bytes(),
		Realm:               r.Realm.Bytes(),
		GoverningTokenMint:  r.GoverningTokenMint.Bytes(),
		GoverningTokenOwner: r.GoverningTokenOwner.Bytes(),
	}
	if r.GovernanceDelegate != nil {
		ret.GovernanceDelegate = r.GovernanceDelegate.Bytes()
	}
	return ret
}

func tokenOwnerRecordFromModel(m *models.TokenOwnerRecord) (*governance.TokenOwnerRecord, error) {
	var err error
	ret := &governance.TokenOwnerRecord{}
	for _, field := range []struct {
		name string
		src  []byte
		dst  *governance.PublicKey
	}{
		{"address", m.Address, &ret.Address},
		{"realm", m.Realm, &ret.Realm},
		{"mint", m.GoverningTokenMint, &ret.GoverningTokenMint},
		{"owner", m.GoverningTokenOwner, &ret.GoverningTokenOwner},
	} {
		if *field.dst, err = governance.NewPublicKey(field.src); err != nil {
			return nil, fmt.Errorf("token owner record %s: %w", field.name, err)
		}
	}
	if len(m.GovernanceDelegate) > 0 {
		delegate, err := governance.NewPublicKey(m.GovernanceDelegate)
		if err != nil {
			return nil, fmt.Errorf("token owner record delegate: %w", err)
		}
		ret.GovernanceDelegate = &delegate
	}
	return ret, nil
}

func proposalToModel(p *governance.Proposal) *models.Proposal {
	ret := &models.Proposal{
		Address:          p.Address.Bytes(),
		Governance:       p.Governance.Bytes(),
		TokenOwnerRecord: p.TokenOwnerRecord.Bytes(),
		Name:             p.Name,
		State:            uint8(p.State),
		Options:          make([]models.ProposalOption, 0, len(p.Options)),
	}
	for i, option := range p.Options {
		ret.Options = append(
			ret.Options,
			models.ProposalOption{
				OptionIndex:               uint8(i), //nolint:gosec // options are bounded by the u8 index
				Label:                     option.Label,
				TransactionsCount:         option.TransactionsCount,
				TransactionsNextIndex:     option.TransactionsNextIndex,
				TransactionsExecutedCount: option.TransactionsExecutedCount,
			},
		)
	}
	return ret
}

func proposalFromModel(m *models.Proposal) (*governance.Proposal, error) {
	var err error
	ret := &governance.Proposal{
		Name:    m.Name,
		State:   governance.ProposalState(m.State),
		Options: make([]governance.ProposalOption, 0, len(m.Options)),
	}
	if ret.Address, err = governance.NewPublicKey(m.Address); err != nil {
		return nil, fmt.Errorf("proposal address: %w", err)
	}
	if ret.Governance, err = governance.NewPublicKey(m.Governance); err != nil {
		return nil, fmt.Errorf("proposal governance: %w", err)
	}
	if ret.TokenOwnerRecord, err = governance.NewPublicKey(m.TokenOwnerRecord); err != nil {
		return nil, fmt.Errorf("proposal token owner record: %w", err)
	}
	if !ret.State.Valid() {
		return nil, fmt.Errorf("proposal state: unknown value %d", m.State)
	}
	for i, option := range m.Options {
		if int(option.OptionIndex) != i {
			return nil, fmt.Errorf("proposal options: missing option %d", i)
		}
		ret.Options = append(
			ret.Options,
			governance.ProposalOption{
				Label:                     option.Label,
				TransactionsCount:         option.TransactionsCount,
				TransactionsNextIndex:     option.TransactionsNextIndex,
				TransactionsExecutedCount: option.TransactionsExecutedCount,
			},
		)
	}
	return ret, nil
}

// GetGovernance returns the governance with the given address
func (d *Database) GetGovernance(
	address governance.PublicKey,
	txn *Txn,
) (*governance.Governance, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetGovernance(address.Bytes(), txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrGovernanceNotFound
	}
	return governanceFromModel(ret)
}

func (d *Database) SetGovernance(g *governance.Governance, txn *Txn) error {
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.SetGovernance(g, txn)
		})
	}
	return d.metadata.SetGovernance(governanceToModel(g), txn.Metadata())
}

// GetTokenOwnerRecord returns the token owner record with the given address
func (d *Database) GetTokenOwnerRecord(
	address governance.PublicKey,
	txn *Txn,
) (*governance.TokenOwnerRecord, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetTokenOwnerRecord(address.Bytes(), txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrTokenOwnerRecordNotFound
	}
	return tokenOwnerRecordFromModel(ret)
}

func (d *Database) SetTokenOwnerRecord(
	record *governance.TokenOwnerRecord,
	txn *Txn,
) error {
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.SetTokenOwnerRecord(record, txn)
		})
	}
	return d.metadata.SetTokenOwnerRecord(
		tokenOwnerRecordToModel(record),
		txn.Metadata(),
	)
}

// GetProposal returns the proposal with the given address and its options
func (d *Database) GetProposal(
	address governance.PublicKey,
	txn *Txn,
) (*governance.Proposal, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetProposal(address.Bytes(), txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrProposalNotFound
	}
	return proposalFromModel(ret)
}

// SetProposal saves a proposal including its option counters
func (d *Database) SetProposal(p *governance.Proposal, txn *Txn) error {
	if len(p.Options) > 256 {
		return fmt.Errorf("proposal has %d options, at most 256 are supported", len(p.Options))
	}
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.SetProposal(p, txn)
		})
	}
	return d.metadata.SetProposal(proposalToModel(p), txn.Metadata())
}
