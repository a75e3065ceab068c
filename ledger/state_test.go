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

package ledger

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/govrealm/event"
	"github.com/blinklabs-io/govrealm/governance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testKey(seed byte) governance.PublicKey {
	var k governance.PublicKey
	for i := range k {
		k[i] = seed + byte(i)
	}
	return k
}

type testFixture struct {
	ls         *LedgerState
	registry   *prometheus.Registry
	eventBus   *event.EventBus
	governance governance.Governance
	other      governance.Governance
	record     governance.TokenOwnerRecord
	proposal   governance.Proposal
	owner      governance.PublicKey
	delegate   governance.PublicKey
	actions    []governance.Action
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		registry: prometheus.NewRegistry(),
		owner:    testKey(0x10),
		delegate: testKey(0x20),
	}
	f.eventBus = event.NewEventBus(nil, nil)
	ls, err := NewLedgerState(LedgerStateConfig{
		EventBus:     f.eventBus,
		PromRegistry: f.registry,
	})
	require.NoError(t, err)
	f.ls = ls
	t.Cleanup(func() {
		f.eventBus.Stop()
		assert.NoError(t, f.ls.Close())
	})
	f.governance = governance.Governance{
		Address: testKey(0x30),
		Realm:   testKey(0x40),
		Config: governance.GovernanceConfig{
			MinTransactionHoldUpTime: 100,
			VotingBaseTime:           3600,
		},
	}
	f.other = governance.Governance{
		Address: testKey(0x35),
		Realm:   f.governance.Realm,
	}
	f.record = governance.TokenOwnerRecord{
		Address:             testKey(0x50),
		Realm:               f.governance.Realm,
		GoverningTokenMint:  testKey(0x60),
		GoverningTokenOwner: f.owner,
		GovernanceDelegate:  &f.delegate,
	}
	f.proposal = governance.Proposal{
		Address:          testKey(0x70),
		Governance:       f.governance.Address,
		TokenOwnerRecord: f.record.Address,
		Name:             "test proposal",
		State:            governance.ProposalStateDraft,
		Options: []governance.ProposalOption{
			{Label: "yes"},
			{Label: "alternative"},
		},
	}
	f.actions = []governance.Action{
		{
			ProgramId: testKey(0x80),
			Accounts: []governance.AccountMeta{
				{Pubkey: testKey(0x90), IsWritable: true},
			},
			Data: []byte{0x01, 0x02},
		},
	}
	require.NoError(t, f.ls.LoadAccounts(context.Background(), Accounts{
		Governances:       []governance.Governance{f.governance, f.other},
		TokenOwnerRecords: []governance.TokenOwnerRecord{f.record},
		Proposals:         []governance.Proposal{f.proposal},
	}))
	return f
}

func (f *testFixture) request(index uint16) InsertTransactionRequest {
	return InsertTransactionRequest{
		Governance:       f.governance.Address,
		Proposal:         f.proposal.Address,
		TokenOwnerRecord: f.record.Address,
		Signer:           f.owner,
		Index:            index,
		HoldUpTime:       100,
		Actions:          f.actions,
	}
}

func (f *testFixture) option(t *testing.T, idx uint8) governance.ProposalOption {
	t.Helper()
	p, err := f.ls.GetProposal(context.Background(), f.proposal.Address)
	require.NoError(t, err)
	return p.Options[idx]
}

func TestLedgerStateNoLeaks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	eb := event.NewEventBus(nil, nil)
	ls, err := NewLedgerState(LedgerStateConfig{EventBus: eb})
	require.NoError(t, err)
	require.NoError(t, ls.Close())
	eb.Stop()
}

func TestInsertTransactionFirst(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	ptx, err := f.ls.InsertTransaction(ctx, f.request(0))
	require.NoError(t, err)
	assert.Nil(t, ptx.ExecutedAt)
	assert.Equal(
		t,
		governance.ProposalTransactionAddress(f.proposal.Address, 0, 0),
		ptx.Address,
	)
	opt := f.option(t, 0)
	assert.Equal(t, uint16(1), opt.TransactionsCount)
	assert.Equal(t, uint16(1), opt.TransactionsNextIndex)
	assert.Equal(t, f.proposal.Options[1], f.option(t, 1))
	txs, err := f.ls.GetProposalTransactions(ctx, f.proposal.Address)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, ptx, txs[0])
	assert.Equal(t, f.actions, txs[0].Actions)
}

func TestInsertTransactionSequentialAndDelegate(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	for i := range uint16(3) {
		req := f.request(i)
		if i%2 == 1 {
			req.Signer = f.delegate
		}
		_, err := f.ls.InsertTransaction(ctx, req)
		require.NoError(t, err)
	}
	opt := f.option(t, 0)
	assert.Equal(t, uint16(3), opt.TransactionsCount)
	assert.Equal(t, uint16(3), opt.TransactionsNextIndex)
	txs, err := f.ls.GetProposalTransactions(ctx, f.proposal.Address)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for i, ptx := range txs {
		assert.Equal(t, uint16(i), ptx.TransactionIndex)
	}
}

func TestLoadAccountsKeepsStoredCounters(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	for i := range uint16(2) {
		_, err := f.ls.InsertTransaction(ctx, f.request(i))
		require.NoError(t, err)
	}
	reloaded := *f.proposal.Clone()
	reloaded.Name = "renamed proposal"
	reloaded.Options[0].Label = "approve"
	require.NoError(t, f.ls.LoadAccounts(ctx, Accounts{
		Proposals: []governance.Proposal{reloaded},
	}))
	p, err := f.ls.GetProposal(ctx, f.proposal.Address)
	require.NoError(t, err)
	assert.Equal(t, "renamed proposal", p.Name)
	assert.Equal(
		t,
		governance.ProposalOption{
			Label:                 "approve",
			TransactionsCount:     2,
			TransactionsNextIndex: 2,
		},
		p.Options[0],
	)
	_, err = f.ls.InsertTransaction(ctx, f.request(0))
	require.ErrorIs(t, err, governance.ErrTransactionAlreadyExists)
	_, err = f.ls.InsertTransaction(ctx, f.request(2))
	require.NoError(t, err)
	opt := f.option(t, 0)
	assert.Equal(t, uint16(3), opt.TransactionsCount)
	assert.Equal(t, uint16(3), opt.TransactionsNextIndex)
}

func TestInsertTransactionRejections(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	_, err := f.ls.InsertTransaction(ctx, f.request(0))
	require.NoError(t, err)
	testDefs := []struct {
		name   string
		modify func(*InsertTransactionRequest)
		expErr error
	}{
		{
			name:   "gap",
			modify: func(r *InsertTransactionRequest) { r.Index = 2 },
			expErr: governance.ErrInvalidTransactionIndex,
		},
		{
			name:   "occupied",
			modify: func(r *InsertTransactionRequest) { r.Index = 0 },
			expErr: governance.ErrTransactionAlreadyExists,
		},
		{
			name:   "unauthorized signer",
			modify: func(r *InsertTransactionRequest) { r.Signer = testKey(0xa0) },
			expErr: governance.ErrGoverningTokenOwnerOrDelegateMustSign,
		},
		{
			name:   "hold up below floor",
			modify: func(r *InsertTransactionRequest) { r.HoldUpTime = 99 },
			expErr: governance.ErrTransactionHoldUpTimeBelowRequiredMin,
		},
		{
			name:   "other governance",
			modify: func(r *InsertTransactionRequest) { r.Governance = f.other.Address },
			expErr: governance.ErrInvalidGovernanceForProposal,
		},
		{
			name:   "invalid option",
			modify: func(r *InsertTransactionRequest) { r.OptionIndex = 2 },
			expErr: governance.ErrInvalidProposalOptionIndex,
		},
		{
			name:   "empty actions",
			modify: func(r *InsertTransactionRequest) { r.Actions = nil },
			expErr: governance.ErrEmptyTransactionActions,
		},
		{
			name:   "unknown proposal",
			modify: func(r *InsertTransactionRequest) { r.Proposal = testKey(0xb0) },
			expErr: ErrAccountNotFound,
		},
		{
			name:   "unknown governance",
			modify: func(r *InsertTransactionRequest) { r.Governance = testKey(0xb0) },
			expErr: ErrAccountNotFound,
		},
		{
			name:   "unknown token owner record",
			modify: func(r *InsertTransactionRequest) { r.TokenOwnerRecord = testKey(0xb0) },
			expErr: ErrAccountNotFound,
		},
	}
	proposalBefore, err := f.ls.GetProposal(ctx, f.proposal.Address)
	require.NoError(t, err)
	txsBefore, err := f.ls.GetProposalTransactions(ctx, f.proposal.Address)
	require.NoError(t, err)
	metaTsBefore, blobTsBefore, err := f.ls.Database().CommitTimestamps()
	require.NoError(t, err)
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			req := f.request(1)
			testDef.modify(&req)
			ptx, err := f.ls.InsertTransaction(ctx, req)
			require.ErrorIs(t, err, testDef.expErr)
			assert.Nil(t, ptx)
		})
	}
	proposalAfter, err := f.ls.GetProposal(ctx, f.proposal.Address)
	require.NoError(t, err)
	assert.Equal(t, proposalBefore, proposalAfter)
	txsAfter, err := f.ls.GetProposalTransactions(ctx, f.proposal.Address)
	require.NoError(t, err)
	assert.Equal(t, txsBefore, txsAfter)
	metaTsAfter, blobTsAfter, err := f.ls.Database().CommitTimestamps()
	require.NoError(t, err)
	assert.Equal(t, metaTsBefore, metaTsAfter)
	assert.Equal(t, blobTsBefore, blobTsAfter)
}

func TestInsertTransactionNonEditableState(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	for _, state := range []governance.ProposalState{
		governance.ProposalStateSignedOff,
		governance.ProposalStateVoting,
		governance.ProposalStateSucceeded,
		governance.ProposalStateExecuting,
		governance.ProposalStateCompleted,
		governance.ProposalStateCancelled,
		governance.ProposalStateDefeated,
	} {
		t.Run(state.String(), func(t *testing.T) {
			p := f.proposal
			p.State = state
			require.NoError(t, f.ls.LoadAccounts(ctx, Accounts{
				Proposals: []governance.Proposal{p},
			}))
			_, err := f.ls.InsertTransaction(ctx, f.request(0))
			require.ErrorIs(t, err, governance.ErrInvalidStateCannotEditTransactions)
		})
	}
}

func TestInsertTransactionForgedGovernance(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	// A permissive governance must not lower the floor of a proposal it
	// does not own, even when the action would install its config
	forged := governance.Governance{
		Address: testKey(0xc0),
		Realm:   f.governance.Realm,
	}
	require.NoError(t, f.ls.LoadAccounts(ctx, Accounts{
		Governances: []governance.Governance{forged},
	}))
	action, err := governance.NewSetGovernanceConfigAction(
		testKey(0x80),
		f.governance.Address,
		forged.Config,
	)
	require.NoError(t, err)
	req := f.request(0)
	req.Governance = forged.Address
	req.HoldUpTime = 0
	req.Actions = []governance.Action{action}
	_, err = f.ls.InsertTransaction(ctx, req)
	require.ErrorIs(t, err, governance.ErrInvalidGovernanceForProposal)
	assert.Equal(t, f.proposal.Options[0], f.option(t, 0))
	// The owning governance enforces its own floor
	req.Governance = f.governance.Address
	_, err = f.ls.InsertTransaction(ctx, req)
	require.ErrorIs(t, err, governance.ErrTransactionHoldUpTimeBelowRequiredMin)
}

func TestRemoveThenReinsert(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	for i := range uint16(3) {
		_, err := f.ls.InsertTransaction(ctx, f.request(i))
		require.NoError(t, err)
	}
	err := f.ls.RemoveTransaction(ctx, RemoveTransactionRequest{
		Proposal:         f.proposal.Address,
		TokenOwnerRecord: f.record.Address,
		Signer:           f.delegate,
		OptionIndex:      0,
		Index:            1,
	})
	require.NoError(t, err)
	opt := f.option(t, 0)
	assert.Equal(t, uint16(2), opt.TransactionsCount)
	assert.Equal(t, uint16(3), opt.TransactionsNextIndex)
	exists, err := f.ls.Database().ProposalTransactionExists(
		f.proposal.Address, 0, 1, nil,
	)
	require.NoError(t, err)
	assert.False(t, exists)
	// Removing again finds nothing
	err = f.ls.RemoveTransaction(ctx, RemoveTransactionRequest{
		Proposal:         f.proposal.Address,
		TokenOwnerRecord: f.record.Address,
		Signer:           f.owner,
		Index:            1,
	})
	require.ErrorIs(t, err, governance.ErrProposalTransactionNotFound)
	// Back-fill the vacated slot
	_, err = f.ls.InsertTransaction(ctx, f.request(1))
	require.NoError(t, err)
	opt = f.option(t, 0)
	assert.Equal(t, uint16(3), opt.TransactionsCount)
	assert.Equal(t, uint16(3), opt.TransactionsNextIndex)
	txs, err := f.ls.GetProposalTransactions(ctx, f.proposal.Address)
	require.NoError(t, err)
	assert.Len(t, txs, 3)
}

func TestRemoveTransactionRejections(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	_, err := f.ls.InsertTransaction(ctx, f.request(0))
	require.NoError(t, err)
	err = f.ls.RemoveTransaction(ctx, RemoveTransactionRequest{
		Proposal:         f.proposal.Address,
		TokenOwnerRecord: f.record.Address,
		Signer:           testKey(0xa0),
	})
	require.ErrorIs(t, err, governance.ErrGoverningTokenOwnerOrDelegateMustSign)
	p := f.proposal
	p.State = governance.ProposalStateVoting
	p.Options = []governance.ProposalOption{
		{Label: "yes", TransactionsCount: 1, TransactionsNextIndex: 1},
		{Label: "alternative"},
	}
	require.NoError(t, f.ls.LoadAccounts(ctx, Accounts{
		Proposals: []governance.Proposal{p},
	}))
	err = f.ls.RemoveTransaction(ctx, RemoveTransactionRequest{
		Proposal:         f.proposal.Address,
		TokenOwnerRecord: f.record.Address,
		Signer:           f.owner,
	})
	require.ErrorIs(t, err, governance.ErrInvalidStateCannotEditTransactions)
	exists, err := f.ls.Database().ProposalTransactionExists(
		f.proposal.Address, 0, 0, nil,
	)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRemoveExecutedTransaction(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	executedAt := time.Now().Unix()
	ptx := &governance.ProposalTransaction{
		Address:    governance.ProposalTransactionAddress(f.proposal.Address, 0, 0),
		Proposal:   f.proposal.Address,
		HoldUpTime: 100,
		Actions:    f.actions,
		ExecutedAt: &executedAt,
	}
	require.NoError(t, f.ls.Database().AddProposalTransaction(ptx, nil))
	p := f.proposal
	p.Options = []governance.ProposalOption{
		{
			Label:                     "yes",
			TransactionsCount:         1,
			TransactionsNextIndex:     1,
			TransactionsExecutedCount: 1,
		},
		{Label: "alternative"},
	}
	// Execution writes the counters directly
	require.NoError(t, f.ls.Database().SetProposal(&p, nil))
	err := f.ls.RemoveTransaction(ctx, RemoveTransactionRequest{
		Proposal:         f.proposal.Address,
		TokenOwnerRecord: f.record.Address,
		Signer:           f.owner,
	})
	require.ErrorIs(t, err, governance.ErrTransactionAlreadyExecuted)
}

func TestLoadAccountsInvalidCounters(t *testing.T) {
	f := newTestFixture(t)
	p := f.proposal
	p.Options = []governance.ProposalOption{
		{Label: "yes", TransactionsCount: 2, TransactionsNextIndex: 1},
	}
	err := f.ls.LoadAccounts(context.Background(), Accounts{
		Proposals: []governance.Proposal{p},
	})
	require.ErrorIs(t, err, ErrInvalidOptionCounters)
	assert.Equal(t, f.proposal.Options, mustProposal(t, f).Options)
}

func mustProposal(t *testing.T, f *testFixture) *governance.Proposal {
	t.Helper()
	p, err := f.ls.GetProposal(context.Background(), f.proposal.Address)
	require.NoError(t, err)
	return p
}

func TestCommitTimestampsMatch(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	for i := range uint16(2) {
		_, err := f.ls.InsertTransaction(ctx, f.request(i))
		require.NoError(t, err)
		metaTs, blobTs, err := f.ls.Database().CommitTimestamps()
		require.NoError(t, err)
		assert.NotZero(t, metaTs)
		assert.Equal(t, metaTs, blobTs)
	}
}

func TestConcurrentInsertSameIndex(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.ls.InsertTransaction(ctx, f.request(0))
		}()
	}
	wg.Wait()
	var success int
	for _, err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, governance.ErrTransactionAlreadyExists)
	}
	assert.Equal(t, 1, success)
	opt := f.option(t, 0)
	assert.Equal(t, uint16(1), opt.TransactionsCount)
	assert.Equal(t, uint16(1), opt.TransactionsNextIndex)
}

func TestInsertTransactionEvents(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	_, insertCh := f.eventBus.Subscribe(TransactionInsertedEventType)
	_, removeCh := f.eventBus.Subscribe(TransactionRemovedEventType)
	ptx, err := f.ls.InsertTransaction(ctx, f.request(0))
	require.NoError(t, err)
	select {
	case evt := <-insertCh:
		data, ok := evt.Data.(TransactionInsertedEvent)
		require.True(t, ok)
		assert.Equal(t, ptx, data.Transaction)
		assert.Equal(t, uint16(1), data.Option.TransactionsCount)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for insert event")
	}
	require.NoError(t, f.ls.RemoveTransaction(ctx, RemoveTransactionRequest{
		Proposal:         f.proposal.Address,
		TokenOwnerRecord: f.record.Address,
		Signer:           f.owner,
	}))
	select {
	case evt := <-removeCh:
		data, ok := evt.Data.(TransactionRemovedEvent)
		require.True(t, ok)
		assert.Equal(t, ptx.Address, data.Address)
		assert.Equal(t, uint16(0), data.Option.TransactionsCount)
		assert.Equal(t, uint16(1), data.Option.TransactionsNextIndex)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for remove event")
	}
}

func TestRejectionMetrics(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()
	_, err := f.ls.InsertTransaction(ctx, f.request(5))
	require.ErrorIs(t, err, governance.ErrInvalidTransactionIndex)
	_, err = f.ls.InsertTransaction(ctx, f.request(0))
	require.NoError(t, err)
	expected := `
# HELP govrealm_ledger_requests_rejected_total total rejected requests by operation and error kind
# TYPE govrealm_ledger_requests_rejected_total counter
govrealm_ledger_requests_rejected_total{kind="InvalidTransactionIndex",operation="insert"} 1
# HELP govrealm_ledger_transactions_inserted_total total proposal transactions inserted
# TYPE govrealm_ledger_transactions_inserted_total counter
govrealm_ledger_transactions_inserted_total 1
`
	require.NoError(t, testutil.GatherAndCompare(
		f.registry,
		strings.NewReader(expected),
		"govrealm_ledger_requests_rejected_total",
		"govrealm_ledger_transactions_inserted_total",
	))
}
