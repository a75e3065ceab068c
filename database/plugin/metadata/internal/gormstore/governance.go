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

package gormstore

import (
	"fmt"

	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetGovernance returns the governance with the given address, or nil
// if it does not exist
func (s *Store) GetGovernance(
	address []byte,
	txn types.Txn,
) (*models.Governance, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret models.Governance
	result := db.Where("address = ?", address).First(&ret)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

func (s *Store) SetGovernance(
	governance *models.Governance,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	tmp := *governance
	tmp.ID = 0
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"realm",
			"min_transaction_hold_up_time",
			"voting_base_time",
			"voting_cool_off_time",
			"min_community_weight_to_create_proposal",
			"min_council_weight_to_create_proposal",
			"deposit_exempt_proposal_count",
			"community_vote_threshold_type",
			"community_vote_threshold_value",
			"council_vote_threshold_type",
			"council_vote_threshold_value",
		}),
	}).Create(&tmp)
	return result.Error
}

// GetTokenOwnerRecord returns the record with the given address, or nil
// if it does not exist
func (s *Store) GetTokenOwnerRecord(
	address []byte,
	txn types.Txn,
) (*models.TokenOwnerRecord, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret models.TokenOwnerRecord
	result := db.Where("address = ?", address).First(&ret)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

func (s *Store) SetTokenOwnerRecord(
	record *models.TokenOwnerRecord,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	tmp := *record
	tmp.ID = 0
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"realm",
			"governing_token_mint",
			"governing_token_owner",
			"governance_delegate",
		}),
	}).Create(&tmp)
	return result.Error
}

// GetProposal returns the proposal with its options ordered by index,
// or nil if it does not exist
func (s *Store) GetProposal(
	address []byte,
	txn types.Txn,
) (*models.Proposal, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret models.Proposal
	result := db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("option_index ASC")
	}).Where("address = ?", address).First(&ret)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// SetProposal creates or updates a proposal and its options
func (s *Store) SetProposal(
	proposal *models.Proposal,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	tmp := *proposal
	tmp.ID = 0
	tmp.Options = nil
	result := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"governance",
			"token_owner_record",
			"name",
			"state",
		}),
	}).Create(&tmp)
	if result.Error != nil {
		return fmt.Errorf("upsert proposal: %w", result.Error)
	}
	// The ID is not returned reliably for the update path of an upsert
	var proposalId uint
	result = db.Model(&models.Proposal{}).
		Where("address = ?", proposal.Address).
		Select("id").
		Scan(&proposalId)
	if result.Error != nil {
		return fmt.Errorf("lookup proposal id: %w", result.Error)
	}
	for _, option := range proposal.Options {
		tmpOption := option
		tmpOption.ID = 0
		tmpOption.ProposalID = proposalId
		result := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "proposal_id"},
				{Name: "option_index"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"label",
				"transactions_count",
				"transactions_next_index",
				"transactions_executed_count",
			}),
		}).Create(&tmpOption)
		if result.Error != nil {
			return fmt.Errorf(
				"upsert proposal option %d: %w",
				option.OptionIndex,
				result.Error,
			)
		}
	}
	proposal.ID = proposalId
	return nil
}

// GetProposalTransaction returns the live record at the given slot, or
// nil if the slot is vacant
func (s *Store) GetProposalTransaction(
	proposal []byte,
	optionIndex uint8,
	transactionIndex uint16,
	txn types.Txn,
) (*models.ProposalTransaction, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret models.ProposalTransaction
	result := db.Where(
		"proposal = ? AND option_index = ? AND transaction_index = ?",
		proposal,
		optionIndex,
		transactionIndex,
	).First(&ret)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetProposalTransactions returns the live records of a proposal ordered
// by option and index
func (s *Store) GetProposalTransactions(
	proposal []byte,
	txn types.Txn,
) ([]models.ProposalTransaction, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.ProposalTransaction
	result := db.Where("proposal = ?", proposal).
		Order("option_index ASC").
		Order("transaction_index ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (s *Store) AddProposalTransaction(
	ptx *models.ProposalTransaction,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	tmp := *ptx
	tmp.ID = 0
	if result := db.Create(&tmp); result.Error != nil {
		return result.Error
	}
	ptx.ID = tmp.ID
	return nil
}

func (s *Store) DeleteProposalTransaction(
	proposal []byte,
	optionIndex uint8,
	transactionIndex uint16,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Where(
		"proposal = ? AND option_index = ? AND transaction_index = ?",
		proposal,
		optionIndex,
		transactionIndex,
	).Delete(&models.ProposalTransaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProposalTransactionNotFound
	}
	return nil
}
