package db

import (
	"context"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул соединений и проверяет его пингом
func Connect(databaseURL string) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		logger.Fatal("неверный DATABASE_URL", logger.Err(err))
	}
	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("не удалось создать пул БД", logger.Err(err))
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("БД недоступна", logger.Err(err))
	}

	logger.Info("подключение к БД установлено")
	return pool
}
