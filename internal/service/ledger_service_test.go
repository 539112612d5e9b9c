package service

import (
	"context"
	"testing"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerForTest(members *fakeMembers) (*LedgerService, *fakeJournal, *fakeDB) {
	journal := &fakeJournal{}
	db := &fakeDB{}
	svc := &LedgerService{db: db, members: members, journal: journal, boards: newFakeBoards()}
	return svc, journal, db
}

func TestSpendSplitBonusFirst(t *testing.T) {
	// бонусный XP тратится раньше постоянного
	fromBonus, fromXP, err := SpendSplit(300, 1000, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(300), fromBonus)
	assert.Equal(t, int64(200), fromXP)
}

func TestSpendSplitBonusCoversAll(t *testing.T) {
	fromBonus, fromXP, err := SpendSplit(1000, 50, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(400), fromBonus)
	assert.Equal(t, int64(0), fromXP)
}

func TestSpendSplitNoBonus(t *testing.T) {
	fromBonus, fromXP, err := SpendSplit(0, 1000, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fromBonus)
	assert.Equal(t, int64(400), fromXP)
}

func TestSpendSplitInsufficient(t *testing.T) {
	// совокупного остатка не хватает - отказ без частичного списания
	_, _, err := SpendSplit(100, 200, 301)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// ровно в остаток - проходит
	fromBonus, fromXP, err := SpendSplit(100, 200, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(300), fromBonus+fromXP)
}

func TestSpendSplitRejectsNonPositive(t *testing.T) {
	_, _, err := SpendSplit(100, 100, 0)
	assert.ErrorIs(t, err, domain.ErrStakeOutOfRange)
	_, _, err = SpendSplit(100, 100, -5)
	assert.ErrorIs(t, err, domain.ErrStakeOutOfRange)
}

func TestDebitCommitsBalancesWithJournal(t *testing.T) {
	ctx := context.Background()
	granted := time.Now()
	members := newFakeMembers(&domain.Member{PFID: "p1", XP: 1000, BonusXP: 300, BonusGrantedAt: &granted})
	svc, journal, db := newLedgerForTest(members)

	m, err := svc.Debit(ctx, "p1", 500, "mines")
	require.NoError(t, err)
	assert.Equal(t, int64(800), m.XP)
	assert.Equal(t, int64(0), m.BonusXP)

	// списание и строка журнала уходят одной транзакцией
	rows, err := journal.ListByPlayer(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TxActionBet, rows[0].Action)
	assert.Equal(t, int64(-500), rows[0].Amount)
	assert.Equal(t, "mines", rows[0].GameType)
	assert.True(t, db.lastTx().committed)
}

func TestDebitInsufficientLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	members := newFakeMembers(&domain.Member{PFID: "p1", XP: 100})
	svc, journal, db := newLedgerForTest(members)

	_, err := svc.Debit(ctx, "p1", 500, "mines")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// отказ не оставляет ни списания, ни строки журнала
	got, err := members.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.XP)
	rows, err := journal.ListByPlayer(ctx, "p1", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, db.lastTx().rolledBack)
}

func TestCreditPairsJournalRow(t *testing.T) {
	ctx := context.Background()
	members := newFakeMembers(&domain.Member{PFID: "p1", XP: 100})
	svc, journal, db := newLedgerForTest(members)

	m, err := svc.Credit(ctx, "p1", 400, "bacc", domain.TxActionWin)
	require.NoError(t, err)
	assert.Equal(t, int64(500), m.XP)

	rows, err := journal.ListByPlayer(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TxActionWin, rows[0].Action)
	assert.Equal(t, int64(400), rows[0].Amount)
	assert.Equal(t, "bacc", rows[0].GameType)
	assert.True(t, db.lastTx().committed)
}
