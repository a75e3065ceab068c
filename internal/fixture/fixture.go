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

// Package fixture reads the YAML files used by the command line tools to
// seed accounts and submit requests
package fixture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/blinklabs-io/govrealm/governance"
	"github.com/blinklabs-io/govrealm/ledger"
	"gopkg.in/yaml.v3"
)

const actionTypeSetGovernanceConfig = "set_governance_config"

var (
	ErrUnknownActionType = errors.New("unknown action type")
	ErrInvalidActionData = errors.New("invalid action data")
)

type Fixture struct {
	Governances       []Governance       `yaml:"governances"`
	TokenOwnerRecords []TokenOwnerRecord `yaml:"token_owner_records"`
	Proposals         []Proposal         `yaml:"proposals"`
}

type Governance struct {
	Address governance.PublicKey        `yaml:"address"`
	Realm   governance.PublicKey        `yaml:"realm"`
	Config  governance.GovernanceConfig `yaml:"config"`
}

type TokenOwnerRecord struct {
	Address             governance.PublicKey  `yaml:"address"`
	Realm               governance.PublicKey  `yaml:"realm"`
	GoverningTokenMint  governance.PublicKey  `yaml:"governing_token_mint"`
	GoverningTokenOwner governance.PublicKey  `yaml:"governing_token_owner"`
	GovernanceDelegate  *governance.PublicKey `yaml:"governance_delegate"`
}

type Proposal struct {
	Address          governance.PublicKey     `yaml:"address"`
	Governance       governance.PublicKey     `yaml:"governance"`
	TokenOwnerRecord governance.PublicKey     `yaml:"token_owner_record"`
	Name             string                   `yaml:"name"`
	State            governance.ProposalState `yaml:"state"`
	Options          []ProposalOption         `yaml:"options"`
}

type ProposalOption struct {
	Label                     string `yaml:"label"`
	TransactionsCount         uint16 `yaml:"transactions_count"`
	TransactionsNextIndex     uint16 `yaml:"transactions_next_index"`
	TransactionsExecutedCount uint16 `yaml:"transactions_executed_count"`
}

// Action describes an action either as raw instruction data or, when
// Type is set_governance_config, as a governance config update
type Action struct {
	Type       string                       `yaml:"type"`
	ProgramId  governance.PublicKey         `yaml:"program_id"`
	Accounts   []governance.AccountMeta     `yaml:"accounts"`
	Data       string                       `yaml:"data"`
	Governance governance.PublicKey         `yaml:"governance"`
	Config     *governance.GovernanceConfig `yaml:"config"`
}

type InsertRequest struct {
	Governance       governance.PublicKey `yaml:"governance"`
	Proposal         governance.PublicKey `yaml:"proposal"`
	TokenOwnerRecord governance.PublicKey `yaml:"token_owner_record"`
	Signer           governance.PublicKey `yaml:"signer"`
	OptionIndex      uint8                `yaml:"option_index"`
	Index            uint16               `yaml:"index"`
	HoldUpTime       uint32               `yaml:"hold_up_time"`
	Actions          []Action             `yaml:"actions"`
}

type RemoveRequest struct {
	Proposal         governance.PublicKey `yaml:"proposal"`
	TokenOwnerRecord governance.PublicKey `yaml:"token_owner_record"`
	Signer           governance.PublicKey `yaml:"signer"`
	OptionIndex      uint8                `yaml:"option_index"`
	Index            uint16               `yaml:"index"`
}

func decodeFile(path string, dest any) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Load reads an account fixture file
func Load(path string) (*Fixture, error) {
	var ret Fixture
	if err := decodeFile(path, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Accounts converts the fixture into ledger accounts
func (f *Fixture) Accounts() ledger.Accounts {
	var ret ledger.Accounts
	for _, g := range f.Governances {
		ret.Governances = append(
			ret.Governances,
			governance.Governance{
				Address: g.Address,
				Realm:   g.Realm,
				Config:  g.Config,
			},
		)
	}
	for _, r := range f.TokenOwnerRecords {
		ret.TokenOwnerRecords = append(
			ret.TokenOwnerRecords,
			governance.TokenOwnerRecord{
				Address:             r.Address,
				Realm:               r.Realm,
				GoverningTokenMint:  r.GoverningTokenMint,
				GoverningTokenOwner: r.GoverningTokenOwner,
				GovernanceDelegate:  r.GovernanceDelegate,
			},
		)
	}
	for _, p := range f.Proposals {
		tmp := governance.Proposal{
			Address:          p.Address,
			Governance:       p.Governance,
			TokenOwnerRecord: p.TokenOwnerRecord,
			Name:             p.Name,
			State:            p.State,
			Options:          make([]governance.ProposalOption, 0, len(p.Options)),
		}
		for _, opt := range p.Options {
			tmp.Options = append(
				tmp.Options,
				governance.ProposalOption{
					Label:                     opt.Label,
					TransactionsCount:         opt.TransactionsCount,
					TransactionsNextIndex:     opt.TransactionsNextIndex,
					TransactionsExecutedCount: opt.TransactionsExecutedCount,
				},
			)
		}
		ret.Proposals = append(ret.Proposals, tmp)
	}
	return ret
}

func (a *Action) toAction() (governance.Action, error) {
	switch a.Type {
	case "":
		data, err := base64.StdEncoding.DecodeString(a.Data)
		if err != nil {
			return governance.Action{}, fmt.Errorf("decode action data: %w", err)
		}
		ret := governance.Action{
			ProgramId: a.ProgramId,
			Accounts:  a.Accounts,
			Data:      data,
		}
		// Raw data tagged as a config update must carry a config
		if len(data) > 0 && data[0] == governance.InstructionSetGovernanceConfig {
			if _, err := governance.DecodeSetGovernanceConfigAction(ret); err != nil {
				return governance.Action{}, fmt.Errorf("%w: %w", ErrInvalidActionData, err)
			}
		}
		return ret, nil
	case actionTypeSetGovernanceConfig:
		if a.Config == nil {
			return governance.Action{}, errors.New("set_governance_config action requires config")
		}
		return governance.NewSetGovernanceConfigAction(
			a.ProgramId,
			a.Governance,
			*a.Config,
		)
	default:
		return governance.Action{}, fmt.Errorf("%w: %s", ErrUnknownActionType, a.Type)
	}
}

// LoadInsertRequest reads an insertion request file
func LoadInsertRequest(path string) (ledger.InsertTransactionRequest, error) {
	var tmp InsertRequest
	if err := decodeFile(path, &tmp); err != nil {
		return ledger.InsertTransactionRequest{}, err
	}
	ret := ledger.InsertTransactionRequest{
		Governance:       tmp.Governance,
		Proposal:         tmp.Proposal,
		TokenOwnerRecord: tmp.TokenOwnerRecord,
		Signer:           tmp.Signer,
		OptionIndex:      tmp.OptionIndex,
		Index:            tmp.Index,
		HoldUpTime:       tmp.HoldUpTime,
	}
	for i := range tmp.Actions {
		action, err := tmp.Actions[i].toAction()
		if err != nil {
			return ledger.InsertTransactionRequest{}, fmt.Errorf("action %d: %w", i, err)
		}
		ret.Actions = append(ret.Actions, action)
	}
	return ret, nil
}

// LoadRemoveRequest reads a removal request file
func LoadRemoveRequest(path string) (ledger.RemoveTransactionRequest, error) {
	var tmp RemoveRequest
	if err := decodeFile(path, &tmp); err != nil {
		return ledger.RemoveTransactionRequest{}, err
	}
	return ledger.RemoveTransactionRequest{
		Proposal:         tmp.Proposal,
		TokenOwnerRecord: tmp.TokenOwnerRecord,
		Signer:           tmp.Signer,
		OptionIndex:      tmp.OptionIndex,
		Index:            tmp.Index,
	}, nil
}
