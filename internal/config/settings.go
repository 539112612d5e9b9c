package config

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"
)

// SettingsTTL - время жизни кеша system_settings
const SettingsTTL = 30 * time.Second

// SettingsStore читает все пары ключ-значение из system_settings
type SettingsStore interface {
	All(ctx context.Context) (map[string]string, error)
}

// Settings - игровые параметры с TTL-кешем поверх БД.
// Неизвестный или нечитаемый ключ отдаёт значение по умолчанию.
type Settings struct {
	store SettingsStore
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	cache     map[string]string
	fetchedAt time.Time
}

func NewSettings(store SettingsStore) *Settings {
	return &Settings{
		store: store,
		ttl:   SettingsTTL,
		now:   time.Now,
	}
}

func (s *Settings) snapshot(ctx context.Context) map[string]string {
	s.mu.RLock()
	if s.cache != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		c := s.cache
		s.mu.RUnlock()
		return c
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.cache
	}

	fresh, err := s.store.All(ctx)
	if err != nil {
		// устаревший кеш лучше отказа
		logger.Warn("не удалось обновить system_settings", "error", err)
		if s.cache != nil {
			return s.cache
		}
		return map[string]string{}
	}
	s.cache = fresh
	s.fetchedAt = s.now()
	return s.cache
}

// Invalidate сбрасывает кеш (после админских правок настроек)
func (s *Settings) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

func (s *Settings) String(ctx context.Context, key, def string) string {
	if v, ok := s.snapshot(ctx)[key]; ok {
		return v
	}
	return def
}

func (s *Settings) Int64(ctx context.Context, key string, def int64) int64 {
	v, ok := s.snapshot(ctx)[key]
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func (s *Settings) Float(ctx context.Context, key string, def float64) float64 {
	v, ok := s.snapshot(ctx)[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func (s *Settings) Bool(ctx context.Context, key string, def bool) bool {
	v, ok := s.snapshot(ctx)[key]
	if !ok {
		return def
	}
	return v == "ON" || v == "true" || v == "1"
}

// Игровые параметры с дефолтами

func (s *Settings) RTP(ctx context.Context, game string) float64 {
	return s.Float(ctx, "rtp_"+game, 0.95)
}

// MinBet - нижняя граница ставки; ключ min_bet_<game> перекрывает общий
func (s *Settings) MinBet(ctx context.Context, game string) int64 {
	def := s.Int64(ctx, "min_bet", 100)
	if game == "" {
		return def
	}
	return s.Int64(ctx, "min_bet_"+game, def)
}

// MaxBet - верхняя граница ставки; ключ max_bet_<game> перекрывает общий
func (s *Settings) MaxBet(ctx context.Context, game string) int64 {
	def := s.Int64(ctx, "max_bet", 10000)
	if game == "" {
		return def
	}
	return s.Int64(ctx, "max_bet_"+game, def)
}

// MinBetWheel - фиксированная цена спина колеса
func (s *Settings) MinBetWheel(ctx context.Context) int64 {
	return s.Int64(ctx, "min_bet_wheel", 100)
}

func (s *Settings) CheckinRange(ctx context.Context) (min, max int64) {
	return s.Int64(ctx, "checkin_min", 10), s.Int64(ctx, "checkin_max", 500)
}

func (s *Settings) NicknameCost(ctx context.Context) int64 {
	return s.Int64(ctx, "nickname_cost", 500)
}

func (s *Settings) BigWinXP(ctx context.Context) int64 {
	return s.Int64(ctx, "big_win_xp", 5000)
}

// GameEnabled проверяет переключатель status_<game>
func (s *Settings) GameEnabled(ctx context.Context, game string) bool {
	return s.Bool(ctx, "status_"+game, true)
}

// VIPBonusPct - процент надбавки чекина для уровня VIP-карты
func (s *Settings) VIPBonusPct(ctx context.Context, level int) float64 {
	if level <= 0 {
		return 0
	}
	return s.Float(ctx, fmt.Sprintf("vip_bonus_%d", level), 0)
}

// VIPDiscountPct - процент скидки магазина для уровня VIP-карты
func (s *Settings) VIPDiscountPct(ctx context.Context, level int) float64 {
	if level <= 0 {
		return 0
	}
	return s.Float(ctx, fmt.Sprintf("vip_discount_%d", level), 0)
}

// Thresholds собирает пороги рангов из rank_limit_*
func (s *Settings) Thresholds(ctx context.Context) domain.TierThresholds {
	def := domain.DefaultThresholds()
	return domain.NewThresholds(
		s.Int64(ctx, "rank_limit_platinum", def.Steps[0].MinScore),
		s.Int64(ctx, "rank_limit_diamond", def.Steps[1].MinScore),
		s.Int64(ctx, "rank_limit_master", def.Steps[2].MinScore),
		s.Int64(ctx, "rank_limit_challenger", def.Steps[3].MinScore),
	)
}
