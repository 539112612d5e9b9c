package service

import (
	"context"
	"errors"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/metrics"
)

const (
	retryAttempts = 3
	retryBackoff  = 100 * time.Millisecond
)

// ошибки бизнес-логики не лечатся повтором
func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrAlreadyCheckedIn),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// withRetry повторяет транзакцию леджера при инфраструктурном сбое:
// до трёх попыток с удвоением паузы
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	backoff := retryBackoff
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			metrics.LedgerRetries.Inc()
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}
	metrics.LedgerRetryExhausted.Inc()
	return err
}
