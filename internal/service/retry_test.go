package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestWithRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnBusinessError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func() error {
		calls++
		return domain.ErrInsufficientFunds
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, 1, calls, "бизнес-ошибка не лечится повтором")
}

func TestWithRetryExhausted(t *testing.T) {
	boom := errors.New("db down")
	calls := 0
	err := withRetry(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, retryAttempts, calls)
}

func TestWithRetryHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := withRetry(ctx, func() error {
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
