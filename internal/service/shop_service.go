package service

import (
	"context"
	"math"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ShopService - покупки в магазине за XP и VP, смена имени
type ShopService struct {
	db        txStarter
	members   memberStore
	inventory inventoryStore
	journal   journalStore
	boards    boardStore
	settings  *config.Settings
	grants    *GrantService
}

func NewShopService(db *pgxpool.Pool, settings *config.Settings, grants *GrantService) *ShopService {
	return &ShopService{
		db:        db,
		members:   repository.NewMemberRepository(db),
		inventory: repository.NewInventoryRepository(db),
		journal:   repository.NewTransactionRepository(db),
		boards:    repository.NewLeaderboardRepository(db),
		settings:  settings,
		grants:    grants,
	}
}

// DiscountedPrice применяет vip-скидку к цене. Чистая функция.
func DiscountedPrice(price int64, discountPct float64) int64 {
	if discountPct <= 0 {
		return price
	}
	return int64(math.Round(float64(price) * (1 - discountPct/100)))
}

// Catalog возвращает позиции магазина, доступные рангу игрока.
// Ранг считается по очкам героя.
func (s *ShopService) Catalog(ctx context.Context, pfid string) ([]domain.InventoryItem, error) {
	heroPts, err := s.boards.HeroPoints(ctx, pfid)
	if err != nil {
		return nil, err
	}
	rankLevel := domain.TierLevel(s.settings.Thresholds(ctx).ResolveTier(heroPts))
	return s.inventory.ListAvailable(ctx, domain.MarketMall, rankLevel)
}

// Buy покупает позицию за XP. Списание, резерв остатка и билет
// коммитятся одной транзакцией, vip-скидка применяется к цене.
func (s *ShopService) Buy(ctx context.Context, pfid string, itemID int64) (*domain.PrizeTicket, error) {
	item, err := s.inventory.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.InMarket(domain.MarketMall) {
		return nil, domain.ErrOutOfStock
	}

	heroPts, err := s.boards.HeroPoints(ctx, pfid)
	if err != nil {
		return nil, err
	}
	rankLevel := domain.TierLevel(s.settings.Thresholds(ctx).ResolveTier(heroPts))
	if rankLevel < item.MinRankLevel {
		return nil, domain.ErrRankTooLow
	}

	var ticket *domain.PrizeTicket
	err = withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		m, err := s.members.GetForUpdateTx(ctx, tx, pfid)
		if err != nil {
			return err
		}

		now := time.Now()
		price := item.MallPrice
		if m.VIPActive(now) {
			price = DiscountedPrice(price, s.settings.VIPDiscountPct(ctx, m.VIPLevel))
		}

		fromBonus, fromXP, err := SpendSplit(m.LiveBonusXP(now), m.XP, price)
		if err != nil {
			return err
		}
		if m.LiveBonusXP(now) == 0 {
			m.BonusXP = 0
			m.BonusGrantedAt = nil
		}
		m.BonusXP -= fromBonus
		m.XP -= fromXP

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: "mall",
			Action:   domain.TxActionBet,
			Amount:   -price,
		}); err != nil {
			return err
		}

		ticket, err = s.grants.IssueTx(ctx, tx, pfid, item, domain.PrizeSourceMall)
		if err != nil {
			return err
		}

		// vip-карта активируется сразу при покупке; карта того же
		// уровня продлевает действующий срок, а не затирает его
		if item.IsVIPCard() {
			base := now
			if m.VIPExpiry != nil && m.VIPExpiry.After(now) && m.VIPLevel == item.VIPCardLevel {
				base = *m.VIPExpiry
			}
			expiry := base.Add(time.Duration(item.VIPCardHours) * time.Hour)
			if err := s.members.SetVIPTx(ctx, tx, pfid, item.VIPCardLevel, expiry); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.grants.afterIssue(ctx, ticket, item)
	return ticket, nil
}

// BuyWithVP покупает позицию за vip-очки
func (s *ShopService) BuyWithVP(ctx context.Context, pfid string, itemID int64) (*domain.PrizeTicket, error) {
	item, err := s.inventory.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.InMarket(domain.MarketMall) || item.VIPPrice <= 0 {
		return nil, domain.ErrOutOfStock
	}

	var ticket *domain.PrizeTicket
	err = withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		m, err := s.members.GetForUpdateTx(ctx, tx, pfid)
		if err != nil {
			return err
		}
		if m.VIPPoints < item.VIPPrice {
			return domain.ErrInsufficientFunds
		}
		m.VIPPoints -= item.VIPPrice

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: "mall",
			Action:   domain.TxActionBet,
			Amount:   -item.VIPPrice,
		}); err != nil {
			return err
		}

		ticket, err = s.grants.IssueTx(ctx, tx, pfid, item, domain.PrizeSourceMall)
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.grants.afterIssue(ctx, ticket, item)
	return ticket, nil
}

// ValidNickname проверяет длину имени: до 10 символов для ASCII,
// до 6 для широких алфавитов. Чистая функция.
func ValidNickname(name string) bool {
	if name == "" {
		return false
	}
	ascii := true
	for _, r := range name {
		if r > unicode.MaxASCII {
			ascii = false
			break
		}
	}
	n := utf8.RuneCountInString(name)
	if ascii {
		return n <= 10
	}
	return n <= 6
}

// Rename меняет отображаемое имя за фиксированную цену в XP
func (s *ShopService) Rename(ctx context.Context, pfid, newName string) (*domain.Member, error) {
	if !ValidNickname(newName) {
		return nil, domain.ErrInvalidName
	}
	cost := s.settings.NicknameCost(ctx)

	var result *domain.Member
	err := withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		m, err := s.members.GetForUpdateTx(ctx, tx, pfid)
		if err != nil {
			return err
		}

		now := time.Now()
		fromBonus, fromXP, err := SpendSplit(m.LiveBonusXP(now), m.XP, cost)
		if err != nil {
			return err
		}
		if m.LiveBonusXP(now) == 0 {
			m.BonusXP = 0
			m.BonusGrantedAt = nil
		}
		m.BonusXP -= fromBonus
		m.XP -= fromXP
		m.Name = newName

		if err := s.members.UpdateBalancesTx(ctx, tx, m); err != nil {
			return err
		}
		if err := s.members.UpdateNameTx(ctx, tx, pfid, newName); err != nil {
			return err
		}
		if err := s.journal.CreateTx(ctx, tx, &domain.Transaction{
			PlayerID: pfid,
			GameType: "mall",
			Action:   domain.TxActionBet,
			Amount:   -cost,
		}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
		result = m
		return nil
	})
	return result, err
}
