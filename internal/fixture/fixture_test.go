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

package fixture

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/govrealm/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed byte) governance.PublicKey {
	var k governance.PublicKey
	for i := range k {
		k[i] = seed + byte(i)
	}
	return k
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFixture(t *testing.T) {
	path := writeFile(t, fmt.Sprintf(`
governances:
  - address: %[1]s
    realm: %[2]s
    config:
      min_transaction_hold_up_time: 3600
      community_vote_threshold:
        type: YesVotePercentage
        value: 60
token_owner_records:
  - address: %[3]s
    realm: %[2]s
    governing_token_mint: %[4]s
    governing_token_owner: %[5]s
    governance_delegate: %[6]s
proposals:
  - address: %[7]s
    governance: %[1]s
    token_owner_record: %[3]s
    name: treasury
    state: draft
    options:
      - label: approve
        transactions_count: 1
        transactions_next_index: 2
`,
		testKey(0x30), testKey(0x40), testKey(0x50), testKey(0x60),
		testKey(0x10), testKey(0x20), testKey(0x70),
	))
	f, err := Load(path)
	require.NoError(t, err)
	accounts := f.Accounts()
	require.Len(t, accounts.Governances, 1)
	require.Len(t, accounts.TokenOwnerRecords, 1)
	require.Len(t, accounts.Proposals, 1)
	gov := accounts.Governances[0]
	assert.Equal(t, testKey(0x30), gov.Address)
	assert.Equal(t, uint32(3600), gov.Config.MinTransactionHoldUpTime)
	assert.Equal(
		t,
		governance.VoteThreshold{Type: governance.VoteThresholdYesVotePercentage, Value: 60},
		gov.Config.CommunityVoteThreshold,
	)
	record := accounts.TokenOwnerRecords[0]
	require.NotNil(t, record.GovernanceDelegate)
	assert.Equal(t, testKey(0x20), *record.GovernanceDelegate)
	assert.True(t, record.IsAuthorizedSigner(testKey(0x10)))
	proposal := accounts.Proposals[0]
	assert.Equal(t, governance.ProposalStateDraft, proposal.State)
	assert.Equal(
		t,
		[]governance.ProposalOption{
			{Label: "approve", TransactionsCount: 1, TransactionsNextIndex: 2},
		},
		proposal.Options,
	)
}

func TestLoadFixtureInvalidKey(t *testing.T) {
	_, err := Load(writeFile(t, "governances:\n  - address: not-a-key\n"))
	require.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadInsertRequest(t *testing.T) {
	path := writeFile(t, fmt.Sprintf(`
governance: %[1]s
proposal: %[2]s
token_owner_record: %[3]s
signer: %[4]s
option_index: 1
index: 2
hold_up_time: 3600
actions:
  - program_id: %[5]s
    accounts:
      - pubkey: %[6]s
        is_writable: true
    data: AQI=
  - type: set_governance_config
    program_id: %[5]s
    governance: %[1]s
    config:
      min_transaction_hold_up_time: 0
`,
		testKey(0x30), testKey(0x70), testKey(0x50), testKey(0x10),
		testKey(0x80), testKey(0x90),
	))
	req, err := LoadInsertRequest(path)
	require.NoError(t, err)
	assert.Equal(t, testKey(0x70), req.Proposal)
	assert.Equal(t, uint8(1), req.OptionIndex)
	assert.Equal(t, uint16(2), req.Index)
	assert.Equal(t, uint32(3600), req.HoldUpTime)
	require.Len(t, req.Actions, 2)
	assert.Equal(t, []byte{0x01, 0x02}, req.Actions[0].Data)
	assert.True(t, req.Actions[0].Accounts[0].IsWritable)
	cfg, err := governance.DecodeSetGovernanceConfigAction(req.Actions[1])
	require.NoError(t, err)
	assert.Equal(t, governance.GovernanceConfig{}, cfg)
}

func TestLoadInsertRequestErrors(t *testing.T) {
	_, err := LoadInsertRequest(writeFile(t, "actions:\n  - type: bogus\n"))
	require.ErrorIs(t, err, ErrUnknownActionType)
	_, err = LoadInsertRequest(writeFile(t, "actions:\n  - data: '%%%'\n"))
	require.Error(t, err)
	_, err = LoadInsertRequest(writeFile(t, "actions:\n  - type: set_governance_config\n"))
	require.Error(t, err)
	_, err = LoadInsertRequest(writeFile(t, "index: 70000\n"))
	require.Error(t, err)
	// Tag 19 followed by bytes that are not a config
	_, err = LoadInsertRequest(writeFile(t, "actions:\n  - data: E/8=\n"))
	require.ErrorIs(t, err, ErrInvalidActionData)
}

func TestLoadInsertRequestRawConfigUpdate(t *testing.T) {
	action, err := governance.NewSetGovernanceConfigAction(
		testKey(0x80),
		testKey(0x30),
		governance.GovernanceConfig{MinTransactionHoldUpTime: 42},
	)
	require.NoError(t, err)
	path := writeFile(t, fmt.Sprintf(`
actions:
  - program_id: %s
    data: %s
`, testKey(0x80), base64.StdEncoding.EncodeToString(action.Data)))
	req, err := LoadInsertRequest(path)
	require.NoError(t, err)
	require.Len(t, req.Actions, 1)
	cfg, err := governance.DecodeSetGovernanceConfigAction(req.Actions[0])
	require.NoError(t, err)
	assert.Equal(t, uint32(42), cfg.MinTransactionHoldUpTime)
}

func TestLoadRemoveRequest(t *testing.T) {
	path := writeFile(t, fmt.Sprintf(`
proposal: %[1]s
token_owner_record: %[2]s
signer: %[3]s
option_index: 0
index: 4
`, testKey(0x70), testKey(0x50), testKey(0x20)))
	req, err := LoadRemoveRequest(path)
	require.NoError(t, err)
	assert.Equal(t, testKey(0x70), req.Proposal)
	assert.Equal(t, testKey(0x50), req.TokenOwnerRecord)
	assert.Equal(t, testKey(0x20), req.Signer)
	assert.Equal(t, uint16(4), req.Index)
}
