package service

import (
	"context"
	"testing"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(joinedAgo time.Duration) *domain.Member {
	return &domain.Member{
		PFID:     "p1",
		JoinDate: time.Now().Add(-joinedAgo),
	}
}

func TestEligibleActiveFlag(t *testing.T) {
	m := &domain.Mission{Active: false}
	assert.False(t, Eligible(m, member(0), 1, time.Now()))
}

func TestEligibleVIPGate(t *testing.T) {
	now := time.Now()
	m := &domain.Mission{Active: true, MinVIPLevel: 2}

	// без vip - нет доступа
	assert.False(t, Eligible(m, member(0), 5, now))

	// действующий vip нужного уровня
	expiry := now.Add(24 * time.Hour)
	vip := member(0)
	vip.VIPLevel = 2
	vip.VIPExpiry = &expiry
	assert.True(t, Eligible(m, vip, 5, now))

	// истёкший vip не считается
	expired := now.Add(-time.Hour)
	vip.VIPExpiry = &expired
	assert.False(t, Eligible(m, vip, 5, now))
}

func TestEligibleRankGate(t *testing.T) {
	m := &domain.Mission{Active: true, MinRankLevel: 3}
	assert.False(t, Eligible(m, member(0), 2, time.Now()))
	assert.True(t, Eligible(m, member(0), 3, time.Now()))
}

func TestEligibleNewcomerWindow(t *testing.T) {
	// миссия для аккаунтов моложе двух месяцев (месяц = 30 суток)
	m := &domain.Mission{Active: true, TimeLimitMonths: 2}
	assert.True(t, Eligible(m, member(45*24*time.Hour), 1, time.Now()))
	assert.False(t, Eligible(m, member(61*24*time.Hour), 1, time.Now()))
}

func TestClaimedInWindowOncePerWindow(t *testing.T) {
	now := time.Now()
	windowStart := now.Add(-6 * time.Hour)
	m := &domain.Mission{Type: domain.MissionDaily}

	assert.False(t, ClaimedInWindow(m, time.Time{}, windowStart, now), "клеймов не было")
	assert.True(t, ClaimedInWindow(m, now.Add(-time.Hour), windowStart, now), "клейм внутри окна")
	assert.False(t, ClaimedInWindow(m, now.Add(-24*time.Hour), windowStart, now), "клейм прошлого окна")
}

func TestClaimedInWindowRecurring(t *testing.T) {
	now := time.Now()
	windowStart := domain.SeasonEpoch
	m := &domain.Mission{Type: domain.MissionSeason, RecurringMonths: 1}

	// сезонная повторяемая: окно защиты - 30 суток, а не эпоха сезона
	assert.True(t, ClaimedInWindow(m, now.Add(-29*24*time.Hour), windowStart, now))
	assert.False(t, ClaimedInWindow(m, now.Add(-31*24*time.Hour), windowStart, now))
}

func newMissionServiceForTest(missions *fakeMissions, members *fakeMembers, boards *fakeBoards, tournaments *fakeTournaments) (*MissionService, *fakeJournal) {
	journal := &fakeJournal{}
	db := &fakeDB{}
	return &MissionService{
		db:          db,
		missions:    missions,
		members:     members,
		journal:     journal,
		inventory:   newFakeInventory(),
		tournaments: tournaments,
		boards:      boards,
		settings:    config.NewSettings(fakeKV{}),
		grants:      &GrantService{db: db, prizes: &fakePrizes{}, inventory: newFakeInventory()},
	}, journal
}

func TestClaimSecondAttemptRejected(t *testing.T) {
	ctx := context.Background()
	m := &domain.Mission{
		ID:          1,
		Active:      true,
		Type:        domain.MissionDaily,
		Criteria:    domain.CriteriaConsecutiveCheckin,
		TargetValue: 3,
		RewardXP:    50,
	}
	mem := member(0)
	mem.ConsecutiveDays = 3
	members := newFakeMembers(mem)
	svc, journal := newMissionServiceForTest(newFakeMissions(m), members, newFakeBoards(), &fakeTournaments{})

	st, err := svc.Claim(ctx, "p1", 1)
	require.NoError(t, err)
	assert.True(t, st.Claimed)

	got, err := members.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.XP)

	// повторный клейм того же окна отклоняется без второго начисления
	_, err = svc.Claim(ctx, "p1", 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	got, err = members.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.XP)
	rows, err := journal.ListByPlayer(ctx, "p1", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestClaimRankGateReadsHeroPoints(t *testing.T) {
	ctx := context.Background()
	m := &domain.Mission{
		ID:           1,
		Active:       true,
		Type:         domain.MissionDaily,
		Criteria:     domain.CriteriaConsecutiveCheckin,
		TargetValue:  1,
		MinRankLevel: 2,
		RewardXP:     10,
	}
	mem := member(0)
	mem.ConsecutiveDays = 5
	mem.XP = 5000 // богатый кошелёк ранга не даёт
	members := newFakeMembers(mem)
	boards := newFakeBoards()
	boards.hero["p1"] = 60 // ниже порога Platinum
	svc, _ := newMissionServiceForTest(newFakeMissions(m), members, boards, &fakeTournaments{})

	_, err := svc.Claim(ctx, "p1", 1)
	assert.ErrorIs(t, err, domain.ErrMissionNotEligible)

	boards.hero["p1"] = 120
	_, err = svc.Claim(ctx, "p1", 1)
	assert.NoError(t, err)
}

func TestProgressVIPDurationInDays(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := &domain.Mission{Criteria: domain.CriteriaVIPDuration}
	mem := member(0)
	mem.VIPLevel = 1

	exp := now.Add(40*24*time.Hour + 6*time.Hour)
	mem.VIPExpiry = &exp

	var s MissionService
	got, err := s.progress(ctx, m, mem, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(40), got, "оставшиеся полные дни, не часы")

	short := now.Add(30 * time.Hour)
	mem.VIPExpiry = &short
	got, err = s.progress(ctx, m, mem, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestProgressTournamentCriteria(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// три записи игрока в двух различных днях, чужая запись не считается
	ft := &fakeTournaments{recs: []domain.TournamentRecord{
		{PlayerID: "p1", Time: monthStart.Add(1 * time.Hour)},
		{PlayerID: "p1", Time: monthStart.Add(2 * time.Hour)},
		{PlayerID: "p1", Time: monthStart.Add(25 * time.Hour)},
		{PlayerID: "p2", Time: monthStart.Add(3 * time.Hour)},
	}}
	s := MissionService{tournaments: ft}
	mem := member(0)

	m := &domain.Mission{Type: domain.MissionMonthly, Criteria: domain.CriteriaTournamentCount}
	got, err := s.progress(ctx, m, mem, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	m.Criteria = domain.CriteriaMonthlyDays
	got, err = s.progress(ctx, m, mem, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}
