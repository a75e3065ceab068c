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

package database_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/blinklabs-io/govrealm/database"
	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDb(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{DataDir: ""})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func testKey(seed byte) governance.PublicKey {
	var k governance.PublicKey
	for i := range k {
		k[i] = seed ^ byte(i)
	}
	return k
}

func testProposal() *governance.Proposal {
	return &governance.Proposal{
		Address:          testKey(0x01),
		Governance:       testKey(0x02),
		TokenOwnerRecord: testKey(0x03),
		Name:             "upgrade program",
		State:            governance.ProposalStateDraft,
		Options: []governance.ProposalOption{
			{Label: "approve"},
		},
	}
}

func testTransaction(index uint16) *governance.ProposalTransaction {
	proposal := testKey(0x01)
	return &governance.ProposalTransaction{
		Address:          governance.ProposalTransactionAddress(proposal, 0, index),
		Proposal:         proposal,
		OptionIndex:      0,
		TransactionIndex: index,
		HoldUpTime:       3600,
		Actions: []governance.Action{
			{
				ProgramId: testKey(0x09),
				Accounts: []governance.AccountMeta{
					{Pubkey: testKey(0x0a), IsWritable: true},
				},
				Data: []byte{0x02, 0x00, 0x00, 0x00},
			},
		},
	}
}

func TestGovernanceRoundTrip(t *testing.T) {
	db := setupTestDb(t)
	delegate := testKey(0x05)
	gov := &governance.Governance{
		Address: testKey(0x02),
		Realm:   testKey(0x04),
		Config: governance.GovernanceConfig{
			MinTransactionHoldUpTime:           100,
			MinCommunityWeightToCreateProposal: ^uint64(0),
			CouncilVoteThreshold: governance.VoteThreshold{
				Type:  governance.VoteThresholdQuorumPercentage,
				Value: 51,
			},
		},
	}
	record := &governance.TokenOwnerRecord{
		Address:             testKey(0x03),
		Realm:               testKey(0x04),
		GoverningTokenMint:  testKey(0x06),
		GoverningTokenOwner: testKey(0x07),
		GovernanceDelegate:  &delegate,
	}
	require.NoError(t, db.SetGovernance(gov, nil))
	require.NoError(t, db.SetTokenOwnerRecord(record, nil))
	require.NoError(t, db.SetProposal(testProposal(), nil))

	gotGov, err := db.GetGovernance(gov.Address, nil)
	require.NoError(t, err)
	assert.Equal(t, gov, gotGov)
	gotRecord, err := db.GetTokenOwnerRecord(record.Address, nil)
	require.NoError(t, err)
	assert.Equal(t, record, gotRecord)
	gotProposal, err := db.GetProposal(testKey(0x01), nil)
	require.NoError(t, err)
	assert.Equal(t, testProposal(), gotProposal)
}

func TestNotFound(t *testing.T) {
	db := setupTestDb(t)
	_, err := db.GetGovernance(testKey(0x02), nil)
	require.ErrorIs(t, err, models.ErrGovernanceNotFound)
	_, err = db.GetTokenOwnerRecord(testKey(0x03), nil)
	require.ErrorIs(t, err, models.ErrTokenOwnerRecordNotFound)
	_, err = db.GetProposal(testKey(0x01), nil)
	require.ErrorIs(t, err, models.ErrProposalNotFound)
	_, err = db.GetProposalTransaction(testKey(0x01), 0, 0, nil)
	require.ErrorIs(t, err, models.ErrProposalTransactionNotFound)
}

func TestProposalTransactionRoundTrip(t *testing.T) {
	db := setupTestDb(t)
	for i := range uint16(3) {
		require.NoError(t, db.AddProposalTransaction(testTransaction(i), nil))
	}
	exists, err := db.ProposalTransactionExists(testKey(0x01), 0, 1, nil)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := db.GetProposalTransaction(testKey(0x01), 0, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, testTransaction(1), got)

	require.NoError(t, db.DeleteProposalTransaction(testTransaction(1), nil))
	exists, err = db.ProposalTransactionExists(testKey(0x01), 0, 1, nil)
	require.NoError(t, err)
	assert.False(t, exists)

	list, err := db.GetProposalTransactions(testKey(0x01), nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint16(0), list[0].TransactionIndex)
	assert.Equal(t, uint16(2), list[1].TransactionIndex)
}

func TestTxnRollbackDiscardsBothStores(t *testing.T) {
	db := setupTestDb(t)
	txn := db.Transaction(true)
	require.NoError(t, db.AddProposalTransaction(testTransaction(0), txn))
	require.NoError(t, txn.Rollback())

	_, err := db.GetProposalTransaction(testKey(0x01), 0, 0, nil)
	require.ErrorIs(t, err, models.ErrProposalTransactionNotFound)
	readTxn := db.Transaction(false)
	defer readTxn.Release()
	_, err = db.Blob().Get(
		readTxn.Blob(),
		database.ProposalTransactionBlobKey(testTransaction(0).Address),
	)
	require.Error(t, err)
}

func TestTxnCommitTimestampsMatch(t *testing.T) {
	db := setupTestDb(t)
	for i := range uint16(3) {
		require.NoError(t, db.AddProposalTransaction(testTransaction(i), nil))
		metadataTs, blobTs, err := db.CommitTimestamps()
		require.NoError(t, err)
		assert.NotZero(t, metadataTs)
		assert.Equal(t, metadataTs, blobTs)
	}
}

func TestCommitTimestampMismatchOnOpen(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, db.SetProposal(testProposal(), nil))
	// Advance only the blob store
	txn := db.Blob().NewTransaction(true)
	require.NoError(t, db.Blob().SetCommitTimestamp(1, txn))
	require.NoError(t, txn.Commit())
	require.NoError(t, db.Close())

	db, err = database.New(&database.Config{DataDir: dataDir})
	var tsErr database.CommitTimestampError
	require.ErrorAs(t, err, &tsErr)
	assert.Equal(t, int64(1), tsErr.BlobTimestamp)
	require.NotNil(t, db)
	require.NoError(t, db.Close())
}

func TestTxnDo(t *testing.T) {
	db := setupTestDb(t)
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		if err := db.SetProposal(testProposal(), txn); err != nil {
			return err
		}
		return governance.ErrInvalidTransactionIndex
	})
	require.ErrorIs(t, err, governance.ErrInvalidTransactionIndex)
	_, err = db.GetProposal(testKey(0x01), nil)
	require.ErrorIs(t, err, models.ErrProposalNotFound)
}

func TestTxnOperationCommitAndRollback(t *testing.T) {
	var logBuf bytes.Buffer
	db, err := database.New(&database.Config{
		Logger: slog.New(
			slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	txn := db.Transaction(true).WithOperation("insert_transaction")
	assert.Zero(t, txn.CommittedAt())
	require.NoError(t, txn.Do(func(txn *database.Txn) error {
		return db.AddProposalTransaction(testTransaction(0), txn)
	}))
	metadataTs, blobTs, err := db.CommitTimestamps()
	require.NoError(t, err)
	assert.Equal(t, metadataTs, txn.CommittedAt())
	assert.Equal(t, blobTs, txn.CommittedAt())

	txn = db.Transaction(true).WithOperation("remove_transaction")
	err = txn.Do(func(txn *database.Txn) error {
		if err := db.DeleteProposalTransaction(testTransaction(0), txn); err != nil {
			return err
		}
		return governance.ErrProposalTransactionNotFound
	})
	require.ErrorIs(t, err, governance.ErrProposalTransactionNotFound)
	assert.Zero(t, txn.CommittedAt())
	assert.Contains(t, logBuf.String(), `"msg":"transaction rolled back"`)
	assert.Contains(t, logBuf.String(), `"operation":"remove_transaction"`)
	exists, err := db.ProposalTransactionExists(testKey(0x01), 0, 0, nil)
	require.NoError(t, err)
	assert.True(t, exists)
}
