package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/game"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/metrics"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Глубина витринных лент
const (
	beadPlateDepth    = 60
	rouletteFeedDepth = 40
)

// WinFeed транслирует события раундов подключённым клиентам
type WinFeed interface {
	BroadcastBigWin(playerID, gameType string, amount int64)
	BroadcastRound(gameType, entry string)
}

// GameService - оркестровка раундов: проверка ставки, списание,
// розыгрыш, выплата, ленты и метрики
type GameService struct {
	db        *pgxpool.Pool
	ledger    *LedgerService
	settings  *config.Settings
	grants    *GrantService
	inventory inventoryStore
	history   *repository.HistoryRepository
	feed      WinFeed
	notifier  AdminNotifier

	mu         sync.RWMutex
	mines      map[string]*game.MinesRound
	blackjacks map[string]*game.BlackjackRound
}

func NewGameService(db *pgxpool.Pool, ledger *LedgerService, settings *config.Settings, grants *GrantService, feed WinFeed, notifier AdminNotifier) *GameService {
	s := &GameService{
		db:         db,
		ledger:     ledger,
		settings:   settings,
		grants:     grants,
		inventory:  repository.NewInventoryRepository(db),
		history:    repository.NewHistoryRepository(db),
		feed:       feed,
		notifier:   notifier,
		mines:      make(map[string]*game.MinesRound),
		blackjacks: make(map[string]*game.BlackjackRound),
	}
	go s.cleanupAbandoned()
	return s
}

// SetNotifier подключает бота после его создания
func (s *GameService) SetNotifier(n AdminNotifier) {
	s.notifier = n
}

// проверяет переключатель игры и границы ставки
func (s *GameService) checkStake(ctx context.Context, gameType string, stake int64) error {
	if !s.settings.GameEnabled(ctx, gameType) {
		return domain.ErrGameDisabled
	}
	if stake < s.settings.MinBet(ctx, gameType) || stake > s.settings.MaxBet(ctx, gameType) {
		return domain.ErrStakeOutOfRange
	}
	return nil
}

// settle - общий хвост раунда: выплата, метрики, очки лидербордов,
// событие крупного выигрыша
func (s *GameService) settle(ctx context.Context, pfid, gameType string, stake, payout int64) error {
	metrics.StakeTotal.WithLabelValues(gameType).Add(float64(stake))
	outcome := "lose"
	if payout > 0 {
		outcome = "win"
		if _, err := s.ledger.Credit(ctx, pfid, payout, gameType, domain.TxActionWin); err != nil {
			return err
		}
		metrics.PayoutTotal.WithLabelValues(gameType).Add(float64(payout))
	}
	metrics.RoundsTotal.WithLabelValues(gameType, outcome).Inc()

	// очки лидербордов растут на сумму ставки независимо от исхода
	if err := s.ledger.AddBoardPoints(ctx, pfid, stake, stake); err != nil {
		logger.Warn("не удалось начислить очки лидерборда", "player", pfid, "error", err)
	}

	if payout >= s.settings.BigWinXP(ctx) {
		if s.feed != nil {
			s.feed.BroadcastBigWin(pfid, gameType, payout)
		}
		if s.notifier != nil {
			s.notifier.NotifyBigWin(pfid, gameType, payout)
		}
	}
	return nil
}

// --- Сапёр ---

func (s *GameService) StartMines(ctx context.Context, pfid string, stake int64, minesCount int) (*game.MinesRound, error) {
	if err := s.checkStake(ctx, "mines", stake); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.mines[pfid]; ok && existing.IsActive() {
		return nil, domain.ErrRoundNotActive
	}

	r, err := game.NewMinesRound(uuid.New().String()[:8], pfid, stake, minesCount)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.Debit(ctx, pfid, stake, "mines"); err != nil {
		return nil, err
	}

	s.mines[pfid] = r
	return r, nil
}

func (s *GameService) activeMines(pfid string) (*game.MinesRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.mines[pfid]
	if !ok || !r.IsActive() {
		return nil, domain.ErrRoundNotActive
	}
	return r, nil
}

func (s *GameService) RevealMines(ctx context.Context, pfid string, cell int) (*game.MinesRound, error) {
	r, err := s.activeMines(pfid)
	if err != nil {
		return nil, err
	}

	if _, err := r.Reveal(cell); err != nil {
		return r, err
	}

	if !r.IsActive() {
		s.mu.Lock()
		delete(s.mines, pfid)
		s.mu.Unlock()
		if err := s.settle(ctx, pfid, "mines", r.Stake, r.WinAmount); err != nil {
			return r, err
		}
	}
	return r, nil
}

func (s *GameService) CashoutMines(ctx context.Context, pfid string) (*game.MinesRound, error) {
	r, err := s.activeMines(pfid)
	if err != nil {
		return nil, err
	}
	win, err := r.CashOut()
	if err != nil {
		return r, err
	}

	s.mu.Lock()
	delete(s.mines, pfid)
	s.mu.Unlock()

	return r, s.settle(ctx, pfid, "mines", r.Stake, win)
}

func (s *GameService) MinesState(pfid string) (*game.MinesRound, error) {
	return s.activeMines(pfid)
}

// --- Колесо ---

// WheelResult - итог спина для клиента
type WheelResult struct {
	Round  *game.WheelRound    `json:"round"`
	Ticket *domain.PrizeTicket `json:"ticket,omitempty"`
}

// SpinWheel списывает фиксированную ставку и разыгрывает витрину призов.
// Выигранный приз резервируется на складе и выдаётся билетом.
func (s *GameService) SpinWheel(ctx context.Context, pfid string) (*WheelResult, error) {
	if !s.settings.GameEnabled(ctx, "wheel") {
		return nil, domain.ErrGameDisabled
	}
	stake := s.settings.MinBetWheel(ctx)

	// ранг считается по очкам героя, не по XP
	heroPts, err := s.ledger.HeroPoints(ctx, pfid)
	if err != nil {
		return nil, err
	}
	rankLevel := domain.TierLevel(s.settings.Thresholds(ctx).ResolveTier(heroPts))

	items, err := s.inventory.ListAvailable(ctx, domain.MarketWheel, rankLevel)
	if err != nil {
		return nil, err
	}
	round, err := game.NewWheelRound(items)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Debit(ctx, pfid, stake, "wheel"); err != nil {
		return nil, err
	}

	round.Spin()
	metrics.StakeTotal.WithLabelValues("wheel").Add(float64(stake))

	won, ok := round.Won()
	if !ok {
		metrics.RoundsTotal.WithLabelValues("wheel", "lose").Inc()
		return &WheelResult{Round: round}, nil
	}

	// позиция склада выигранного слота
	var item *domain.InventoryItem
	for i := range items {
		if items[i].ItemName == won.ItemName {
			item = &items[i]
			break
		}
	}
	if item == nil {
		s.refundStake(ctx, pfid, "wheel", stake)
		return nil, domain.ErrOutOfStock
	}

	ticket, err := s.grants.IssueFromStock(ctx, pfid, item, domain.PrizeSourceWheel)
	if err != nil {
		// остаток кончился после списания ставки - ставка возвращается
		s.refundStake(ctx, pfid, "wheel", stake)
		return nil, err
	}
	metrics.RoundsTotal.WithLabelValues("wheel", "win").Inc()
	return &WheelResult{Round: round, Ticket: ticket}, nil
}

func (s *GameService) refundStake(ctx context.Context, pfid, gameType string, stake int64) {
	if _, err := s.ledger.Credit(ctx, pfid, stake, gameType, domain.TxActionRefund); err != nil {
		logger.Error("не удалось вернуть ставку", "player", pfid, "game", gameType, "error", err)
	}
}

// --- Рулетка ---

// RouletteResult - итог спина рулетки
type RouletteResult struct {
	Pocket int   `json:"pocket"`
	Payout int64 `json:"payout"`
	Stake  int64 `json:"stake"`
}

func (s *GameService) PlayRoulette(ctx context.Context, pfid string, bets map[string]int64) (*RouletteResult, error) {
	round, err := game.NewRouletteRound(bets)
	if err != nil {
		return nil, err
	}
	stake := round.TotalStake()
	if err := s.checkStake(ctx, "roulette", stake); err != nil {
		return nil, err
	}

	if _, err := s.ledger.Debit(ctx, pfid, stake, "roulette"); err != nil {
		return nil, err
	}

	pocket := round.Resolve(s.settings.RTP(ctx, "roulette"))
	payout := game.RoulettePayout(bets, pocket)

	s.appendHistory(ctx, "roulette", strconv.Itoa(pocket), rouletteFeedDepth)
	if err := s.settle(ctx, pfid, "roulette", stake, payout); err != nil {
		return nil, err
	}
	return &RouletteResult{Pocket: pocket, Payout: payout, Stake: stake}, nil
}

// --- Баккара ---

// BaccaratRoundResult - итог раунда баккары
type BaccaratRoundResult struct {
	Result *game.BaccaratResult `json:"result"`
	Payout int64                `json:"payout"`
	Stake  int64                `json:"stake"`
}

func (s *GameService) PlayBaccarat(ctx context.Context, pfid string, bets game.BaccaratBets) (*BaccaratRoundResult, error) {
	stake := bets.Total()
	if err := s.checkStake(ctx, "bacc", stake); err != nil {
		return nil, err
	}

	if _, err := s.ledger.Debit(ctx, pfid, stake, "bacc"); err != nil {
		return nil, err
	}

	res, err := game.PlayBaccarat(bets, s.settings.RTP(ctx, "bacc"))
	if err != nil {
		return nil, err
	}
	payout := game.BaccaratPayout(bets, res)

	s.appendHistory(ctx, "bacc", res.BeadEntry(), beadPlateDepth)
	if s.feed != nil {
		s.feed.BroadcastRound("bacc", res.BeadEntry())
	}
	if err := s.settle(ctx, pfid, "bacc", stake, payout); err != nil {
		return nil, err
	}
	return &BaccaratRoundResult{Result: res, Payout: payout, Stake: stake}, nil
}

// BeadPlate возвращает бисерную дорожку последних раундов
func (s *GameService) BeadPlate(ctx context.Context) ([]string, error) {
	return s.history.Recent(ctx, "bacc", beadPlateDepth)
}

// RouletteHistory возвращает последние номера рулетки
func (s *GameService) RouletteHistory(ctx context.Context) ([]string, error) {
	return s.history.Recent(ctx, "roulette", rouletteFeedDepth)
}

// --- Блэкджек ---

func (s *GameService) StartBlackjack(ctx context.Context, pfid string, stake int64) (*game.BlackjackRound, error) {
	if err := s.checkStake(ctx, "blackjack", stake); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.blackjacks[pfid]; ok && existing.IsActive() {
		return nil, domain.ErrRoundNotActive
	}

	r, err := game.NewBlackjackRound(uuid.New().String()[:8], pfid, stake)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.Debit(ctx, pfid, stake, "blackjack"); err != nil {
		return nil, err
	}

	s.blackjacks[pfid] = r
	return r, nil
}

func (s *GameService) activeBlackjack(pfid string) (*game.BlackjackRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.blackjacks[pfid]
	if !ok || !r.IsActive() {
		return nil, domain.ErrRoundNotActive
	}
	return r, nil
}

func (s *GameService) HitBlackjack(ctx context.Context, pfid string) (*game.BlackjackRound, error) {
	r, err := s.activeBlackjack(pfid)
	if err != nil {
		return nil, err
	}
	if err := r.Hit(); err != nil {
		return r, err
	}
	if !r.IsActive() {
		s.mu.Lock()
		delete(s.blackjacks, pfid)
		s.mu.Unlock()
		return r, s.settle(ctx, pfid, "blackjack", r.Stake, r.WinAmount)
	}
	return r, nil
}

func (s *GameService) StandBlackjack(ctx context.Context, pfid string) (*game.BlackjackRound, error) {
	r, err := s.activeBlackjack(pfid)
	if err != nil {
		return nil, err
	}
	if err := r.Stand(); err != nil {
		return r, err
	}

	s.mu.Lock()
	delete(s.blackjacks, pfid)
	s.mu.Unlock()

	return r, s.settle(ctx, pfid, "blackjack", r.Stake, r.WinAmount)
}

func (s *GameService) BlackjackState(pfid string) (*game.BlackjackRound, error) {
	return s.activeBlackjack(pfid)
}

// --- Служебное ---

func (s *GameService) appendHistory(ctx context.Context, gameType, entry string, keep int) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		logger.Warn("не удалось открыть транзакцию ленты", "game", gameType, "error", err)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.history.AppendTx(ctx, tx, gameType, entry); err != nil {
		logger.Warn("не удалось записать ленту", "game", gameType, "error", err)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		logger.Warn("не удалось закоммитить ленту", "game", gameType, "error", err)
		return
	}

	if err := s.history.Trim(ctx, gameType, keep); err != nil {
		logger.Warn("не удалось подрезать ленту", "game", gameType, "error", err)
	}
}

// брошенные раунды сапёра и блэкджека считаются проигранными через час
func (s *GameService) cleanupAbandoned() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for pfid, r := range s.mines {
			if now.Sub(r.CreatedAt) > time.Hour {
				delete(s.mines, pfid)
			}
		}
		for pfid, r := range s.blackjacks {
			if now.Sub(r.CreatedAt) > time.Hour {
				delete(s.blackjacks, pfid)
			}
		}
		s.mu.Unlock()
	}
}

// ActiveRounds возвращает число незавершённых раундов (диагностика)
func (s *GameService) ActiveRounds() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("mines=%d blackjack=%d", len(s.mines), len(s.blackjacks))
}
