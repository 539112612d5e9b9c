package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueFromStockStopsAtZero(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(&domain.InventoryItem{
		ID:           7,
		ItemName:     "AirPods",
		Stock:        2,
		Weight:       1,
		TargetMarket: domain.MarketWheel,
	})
	prizes := &fakePrizes{}
	svc := &GrantService{db: &fakeDB{}, prizes: prizes, inventory: inv}
	item, err := inv.GetByID(ctx, 7)
	require.NoError(t, err)

	// конкурирующие выдачи упираются в остаток, лишние получают отказ
	const workers = 6
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.IssueFromStock(ctx, "p1", item, domain.PrizeSourceWheel)
		}(i)
	}
	wg.Wait()

	var issued int
	for _, err := range errs {
		if err == nil {
			issued++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrOutOfStock)
	}
	assert.Equal(t, 2, issued, "билетов ровно по остатку")

	stock, err := inv.Stock(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
	tickets, err := prizes.ListByPlayer(ctx, "p1", 10)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestIssueFromStockCarriesVIPCard(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(&domain.InventoryItem{
		ID:           3,
		ItemName:     "VIP Bronze",
		Stock:        1,
		VIPCardLevel: 1,
		VIPCardHours: 72,
		TargetMarket: domain.MarketMall,
	})
	svc := &GrantService{db: &fakeDB{}, prizes: &fakePrizes{}, inventory: inv}
	item, err := inv.GetByID(ctx, 3)
	require.NoError(t, err)

	ticket, err := svc.IssueFromStock(ctx, "p1", item, domain.PrizeSourceMall)
	require.NoError(t, err)
	assert.Equal(t, domain.PrizeStatusPending, ticket.Status)
	assert.Equal(t, 1, ticket.VIPLevel)
	assert.Equal(t, 72, ticket.VIPHours)
}
