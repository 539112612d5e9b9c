package service

import (
	"context"
	"sync"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Фейки хранилищ в памяти. Структуры повторяют контракты из stores.go,
// транзакционность имитируется только флагами commit/rollback.

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	mu  sync.Mutex
	txs []*fakeTx
}

func (d *fakeDB) BeginTx(ctx context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDB) lastTx() *fakeTx {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.txs) == 0 {
		return nil
	}
	return d.txs[len(d.txs)-1]
}

// --- участники ---

type fakeMembers struct {
	mu   sync.Mutex
	rows map[string]*domain.Member
}

func newFakeMembers(ms ...*domain.Member) *fakeMembers {
	f := &fakeMembers{rows: make(map[string]*domain.Member)}
	for _, m := range ms {
		cp := *m
		f.rows[m.PFID] = &cp
	}
	return f
}

func (f *fakeMembers) get(pfid string) (*domain.Member, error) {
	m, ok := f.rows[pfid]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMembers) GetByID(ctx context.Context, pfid string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(pfid)
}

func (f *fakeMembers) GetOrCreate(ctx context.Context, pfid, name string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, err := f.get(pfid); err == nil {
		return m, nil
	}
	f.rows[pfid] = &domain.Member{PFID: pfid, Name: name, JoinDate: time.Now()}
	return f.get(pfid)
}

func (f *fakeMembers) GetForUpdateTx(ctx context.Context, tx pgx.Tx, pfid string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(pfid)
}

func (f *fakeMembers) UpdateBalancesTx(ctx context.Context, tx pgx.Tx, m *domain.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[m.PFID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	row.XP = m.XP
	row.BonusXP = m.BonusXP
	row.BonusGrantedAt = m.BonusGrantedAt
	row.VIPPoints = m.VIPPoints
	return nil
}

func (f *fakeMembers) UpdateNameTx(ctx context.Context, tx pgx.Tx, pfid, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[pfid]
	if !ok {
		return domain.ErrMemberNotFound
	}
	row.Name = name
	return nil
}

func (f *fakeMembers) SetVIPTx(ctx context.Context, tx pgx.Tx, pfid string, level int, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[pfid]
	if !ok {
		return domain.ErrMemberNotFound
	}
	row.VIPLevel = level
	row.VIPExpiry = &expiry
	return nil
}

func (f *fakeMembers) SetCheckinTx(ctx context.Context, tx pgx.Tx, pfid string, day time.Time, streak int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[pfid]
	if !ok {
		return domain.ErrMemberNotFound
	}
	row.LastCheckin = &day
	row.ConsecutiveDays = streak
	return nil
}

// --- журнал ---

type fakeJournal struct {
	mu   sync.Mutex
	rows []domain.Transaction
}

func (f *fakeJournal) CreateTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = int64(len(f.rows) + 1)
	t.CreatedAt = time.Now()
	f.rows = append(f.rows, *t)
	return nil
}

func (f *fakeJournal) ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].PlayerID == playerID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeJournal) CountSince(ctx context.Context, playerID string, action domain.TxAction, gameType string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if r.PlayerID == playerID && r.Action == action && !r.CreatedAt.Before(since) &&
			(gameType == "" || r.GameType == gameType) {
			n++
		}
	}
	return n, nil
}

// --- лидерборды ---

type fakeBoards struct {
	mu      sync.Mutex
	hero    map[string]int64
	monthly map[string]int64
}

func newFakeBoards() *fakeBoards {
	return &fakeBoards{hero: make(map[string]int64), monthly: make(map[string]int64)}
}

func (f *fakeBoards) AddPointsTx(ctx context.Context, tx pgx.Tx, playerID string, hero, monthly int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hero[playerID] += hero
	f.monthly[playerID] += monthly
	return nil
}

func (f *fakeBoards) HeroPoints(ctx context.Context, playerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hero[playerID], nil
}

// --- склад ---

type fakeInventory struct {
	mu          sync.Mutex
	items       map[int64]*domain.InventoryItem
	failReserve bool // имитация исчерпания между выборкой и резервом
}

func newFakeInventory(items ...*domain.InventoryItem) *fakeInventory {
	f := &fakeInventory{items: make(map[int64]*domain.InventoryItem)}
	for _, it := range items {
		cp := *it
		f.items[it.ID] = &cp
	}
	return f
}

func (f *fakeInventory) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, domain.ErrOutOfStock
	}
	cp := *it
	return &cp, nil
}

func (f *fakeInventory) GetByName(ctx context.Context, name string) (*domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ItemName == name {
			cp := *it
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeInventory) ListAvailable(ctx context.Context, market domain.Market, rankLevel int) ([]domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.InventoryItem
	for _, it := range f.items {
		if it.Stock > 0 && it.MinRankLevel <= rankLevel && it.InMarket(market) {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeInventory) ReserveTx(ctx context.Context, tx pgx.Tx, itemID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if f.failReserve || !ok || it.Stock <= 0 {
		return domain.ErrOutOfStock
	}
	it.Stock--
	return nil
}

func (f *fakeInventory) Stock(ctx context.Context, itemID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return int(it.Stock), nil
}

// --- призы ---

type fakePrizes struct {
	mu   sync.Mutex
	rows []domain.PrizeTicket
}

func (f *fakePrizes) CreateTx(ctx context.Context, tx pgx.Tx, t *domain.PrizeTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *t)
	return nil
}

func (f *fakePrizes) ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.PrizeTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PrizeTicket
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].PlayerID == playerID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

// --- миссии ---

type fakeMissions struct {
	mu       sync.Mutex
	missions map[int64]*domain.Mission
	claims   []domain.MissionLog
}

func newFakeMissions(ms ...*domain.Mission) *fakeMissions {
	f := &fakeMissions{missions: make(map[int64]*domain.Mission)}
	for _, m := range ms {
		f.missions[m.ID] = m
	}
	return f
}

func (f *fakeMissions) ListActive(ctx context.Context) ([]*domain.Mission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Mission
	for _, m := range f.missions {
		if m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMissions) GetByID(ctx context.Context, id int64) (*domain.Mission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.missions[id]
	if !ok {
		return nil, domain.ErrMissionNotEligible
	}
	return m, nil
}

func (f *fakeMissions) RecordClaimTx(ctx context.Context, tx pgx.Tx, playerID string, missionID int64, windowStart time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.claims {
		if c.PlayerID == playerID && c.MissionID == missionID && !c.ClaimTime.Before(windowStart) {
			return domain.ErrAlreadyClaimed
		}
	}
	f.claims = append(f.claims, domain.MissionLog{
		ID:        int64(len(f.claims) + 1),
		PlayerID:  playerID,
		MissionID: missionID,
		ClaimTime: time.Now(),
	})
	return nil
}

func (f *fakeMissions) ClaimsSince(ctx context.Context, playerID string, since time.Time) (map[int64]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]time.Time)
	for _, c := range f.claims {
		if c.PlayerID == playerID && !c.ClaimTime.Before(since) && c.ClaimTime.After(out[c.MissionID]) {
			out[c.MissionID] = c.ClaimTime
		}
	}
	return out, nil
}

// --- турниры ---

type fakeTournaments struct {
	mu   sync.Mutex
	recs []domain.TournamentRecord
}

func (f *fakeTournaments) CreateTx(ctx context.Context, tx pgx.Tx, rec *domain.TournamentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = int64(len(f.recs) + 1)
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	f.recs = append(f.recs, *rec)
	return nil
}

func (f *fakeTournaments) CountSince(ctx context.Context, playerID string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.recs {
		if r.PlayerID == playerID && !r.Time.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTournaments) CountDistinctDaysSince(ctx context.Context, playerID string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	days := make(map[string]struct{})
	for _, r := range f.recs {
		if r.PlayerID == playerID && !r.Time.Before(since) {
			days[r.Time.Format("2006-01-02")] = struct{}{}
		}
	}
	return int64(len(days)), nil
}

// --- настройки ---

type fakeKV map[string]string

func (f fakeKV) All(ctx context.Context) (map[string]string, error) {
	return f, nil
}
