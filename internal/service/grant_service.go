package service

import (
	"context"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/metrics"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminNotifier получает событийные уведомления (телеграм-бот бэк-офиса)
type AdminNotifier interface {
	NotifyPrizeIssued(playerID, prizeName, source string)
	NotifyStockDepleted(itemName string)
	NotifyBigWin(playerID, gameType string, amount int64)
}

// GrantService - общий путь выдачи призовых билетов: колесо, магазин,
// миссии, чекин и аирдроп создают билеты только через него.
type GrantService struct {
	db        txStarter
	prizes    prizeStore
	inventory inventoryStore
	notifier  AdminNotifier
}

func NewGrantService(db *pgxpool.Pool, notifier AdminNotifier) *GrantService {
	return &GrantService{
		db:        db,
		prizes:    repository.NewPrizeRepository(db),
		inventory: repository.NewInventoryRepository(db),
		notifier:  notifier,
	}
}

// SetNotifier подключает бота после его создания (бот сам зависит от сервиса)
func (s *GrantService) SetNotifier(n AdminNotifier) {
	s.notifier = n
}

// собирает билет из позиции склада
func newTicket(playerID string, item *domain.InventoryItem, source string) *domain.PrizeTicket {
	t := &domain.PrizeTicket{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		PrizeName: item.ItemName,
		Status:    domain.PrizeStatusPending,
		Source:    source,
		Time:      time.Now(),
	}
	if item.IsVIPCard() {
		t.VIPLevel = item.VIPCardLevel
		t.VIPHours = item.VIPCardHours
	}
	return t
}

// IssueFromStock атомарно резервирует единицу остатка и создаёт билет.
// Исчерпанный остаток - отказ до каких-либо изменений.
func (s *GrantService) IssueFromStock(ctx context.Context, playerID string, item *domain.InventoryItem, source string) (*domain.PrizeTicket, error) {
	ticket := newTicket(playerID, item, source)

	err := withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := s.inventory.ReserveTx(ctx, tx, item.ID); err != nil {
			return err
		}
		if err := s.prizes.CreateTx(ctx, tx, ticket); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.afterIssue(ctx, ticket, item)
	return ticket, nil
}

// IssueTx создаёт билет внутри уже открытой транзакции вызывающего
// (покупка в магазине: списание и выдача коммитятся вместе)
func (s *GrantService) IssueTx(ctx context.Context, tx pgx.Tx, playerID string, item *domain.InventoryItem, source string) (*domain.PrizeTicket, error) {
	if err := s.inventory.ReserveTx(ctx, tx, item.ID); err != nil {
		return nil, err
	}
	ticket := newTicket(playerID, item, source)
	if err := s.prizes.CreateTx(ctx, tx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// IssueNamedTx создаёт билет без позиции склада внутри транзакции вызывающего
func (s *GrantService) IssueNamedTx(ctx context.Context, tx pgx.Tx, playerID, prizeName, source string) (*domain.PrizeTicket, error) {
	ticket := &domain.PrizeTicket{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		PrizeName: prizeName,
		Status:    domain.PrizeStatusPending,
		Source:    source,
		Time:      time.Now(),
	}
	if err := s.prizes.CreateTx(ctx, tx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// IssueNamed создаёт билет без позиции склада (награда миссии по SKU,
// ручной аирдроп)
func (s *GrantService) IssueNamed(ctx context.Context, playerID, prizeName, source string) (*domain.PrizeTicket, error) {
	ticket := &domain.PrizeTicket{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		PrizeName: prizeName,
		Status:    domain.PrizeStatusPending,
		Source:    source,
		Time:      time.Now(),
	}

	err := withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := s.prizes.CreateTx(ctx, tx, ticket); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	metrics.PrizesIssued.WithLabelValues(source).Inc()
	if s.notifier != nil {
		s.notifier.NotifyPrizeIssued(playerID, prizeName, source)
	}
	return ticket, nil
}

// afterIssue - побочные эффекты после коммита: метрики и уведомления
func (s *GrantService) afterIssue(ctx context.Context, ticket *domain.PrizeTicket, item *domain.InventoryItem) {
	metrics.PrizesIssued.WithLabelValues(ticket.Source).Inc()
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyPrizeIssued(ticket.PlayerID, ticket.PrizeName, ticket.Source)

	stock, err := s.inventory.Stock(ctx, item.ID)
	if err != nil {
		logger.Warn("не удалось прочитать остаток", "item", item.ItemName, "error", err)
		return
	}
	if stock == 0 {
		s.notifier.NotifyStockDepleted(item.ItemName)
	}
}

// Tickets возвращает билеты игрока
func (s *GrantService) Tickets(ctx context.Context, playerID string, limit int) ([]domain.PrizeTicket, error) {
	return s.prizes.ListByPlayer(ctx, playerID, limit)
}
