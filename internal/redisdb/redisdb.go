package redisdb

import (
	"context"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Ключи горячих проекций таблиц лидеров
const (
	KeyHeroBoard    = "lb:hero"
	KeyMonthlyBoard = "lb:monthly"
)

// Connect создаёт клиент и проверяет его пингом.
// Redis опционален: при недоступности проекции отключаются.
func Connect(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis недоступен, проекции лидербордов отключены", logger.Err(err))
		return nil
	}
	logger.Info("подключение к redis установлено", "addr", addr)
	return client
}

// BoardProjector зеркалит очки лидербордов в отсортированные множества.
// Источник истины - Postgres, проекция допускает отставание.
type BoardProjector struct {
	client *redis.Client
}

func NewBoardProjector(client *redis.Client) *BoardProjector {
	return &BoardProjector{client: client}
}

func (p *BoardProjector) Enabled() bool {
	return p != nil && p.client != nil
}

// добавляет очки игроку в обе проекции
func (p *BoardProjector) AddPoints(ctx context.Context, playerID string, hero, monthly int64) {
	if !p.Enabled() {
		return
	}
	pipe := p.client.Pipeline()
	if hero > 0 {
		pipe.ZIncrBy(ctx, KeyHeroBoard, float64(hero), playerID)
	}
	if monthly > 0 {
		pipe.ZIncrBy(ctx, KeyMonthlyBoard, float64(monthly), playerID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("не удалось обновить проекцию лидерборда", "player", playerID, logger.Err(err))
	}
}

// Top читает верх проекции. Пустой срез и false - проекция недоступна,
// вызывающий падает обратно на Postgres.
func (p *BoardProjector) Top(ctx context.Context, key string, limit int) ([]repository.LeaderboardEntry, bool) {
	if !p.Enabled() {
		return nil, false
	}
	zs, err := p.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		logger.Warn("не удалось прочитать проекцию лидерборда", "key", key, logger.Err(err))
		return nil, false
	}
	out := make([]repository.LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		id, _ := z.Member.(string)
		out = append(out, repository.LeaderboardEntry{PlayerID: id, Points: int64(z.Score)})
	}
	return out, true
}

// сбрасывает месячную проекцию при закрытии месяца
func (p *BoardProjector) ResetMonthly(ctx context.Context) {
	if !p.Enabled() {
		return
	}
	if err := p.client.Del(ctx, KeyMonthlyBoard).Err(); err != nil {
		logger.Warn("не удалось сбросить месячную проекцию", logger.Err(err))
	}
}

// Rebuild перезаливает проекцию из строк Postgres
func (p *BoardProjector) Rebuild(ctx context.Context, key string, entries []repository.LeaderboardEntry) {
	if !p.Enabled() {
		return
	}
	pipe := p.client.Pipeline()
	pipe.Del(ctx, key)
	for _, e := range entries {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(e.Points), Member: e.PlayerID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("не удалось перестроить проекцию", "key", key, logger.Err(err))
	}
}
