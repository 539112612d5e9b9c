package game

import (
	"errors"
	"math"
	"testing"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
)

func TestWheelEmptyPoolRejected(t *testing.T) {
	if _, err := NewWheelRound(nil); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("ожидалась ErrOutOfStock, получено %v", err)
	}
}

func TestWheelPadsWithFillers(t *testing.T) {
	items := []domain.InventoryItem{
		{ItemName: "chip-500", ItemValue: 500, Weight: 10},
		{ItemName: "chip-1000", ItemValue: 1000, Weight: 5},
	}
	r, err := NewWheelRound(items)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Slots) != WheelDisplaySize {
		t.Fatalf("позиций %d, ожидалось %d", len(r.Slots), WheelDisplaySize)
	}
	fillers := 0
	for _, s := range r.Slots {
		if s.Filler {
			fillers++
			if s.ItemName != WheelFillerName || s.Weight != WheelFillerWeight {
				t.Fatalf("неожиданная заглушка: %+v", s)
			}
		}
	}
	if fillers != WheelDisplaySize-2 {
		t.Fatalf("заглушек %d, ожидалось %d", fillers, WheelDisplaySize-2)
	}
}

func TestWheelTruncatesToDisplaySize(t *testing.T) {
	items := make([]domain.InventoryItem, 12)
	for i := range items {
		items[i] = domain.InventoryItem{ItemName: "prize", Weight: 1}
	}
	r, err := NewWheelRound(items)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Slots) != WheelDisplaySize {
		t.Fatalf("позиций %d, ожидалось %d", len(r.Slots), WheelDisplaySize)
	}
}

func TestWheelSpinFrequencyMatchesWeights(t *testing.T) {
	if testing.Short() {
		t.Skip("долгая симуляция")
	}
	items := []domain.InventoryItem{
		{ItemName: "rare", Weight: 1},
		{ItemName: "common", Weight: 9},
	}
	// общий вес: 1 + 9 + 6*50 = 310
	const spins = 50000
	counts := make(map[string]int)
	for i := 0; i < spins; i++ {
		r, err := NewWheelRound(items)
		if err != nil {
			t.Fatal(err)
		}
		counts[r.Spin().ItemName]++
	}

	total := 1.0 + 9.0 + 6.0*WheelFillerWeight
	check := func(name string, weight float64) {
		want := weight / total
		got := float64(counts[name]) / spins
		if math.Abs(got-want) > 0.02 {
			t.Fatalf("%s: частота %.4f, ожидалось %.4f", name, got, want)
		}
	}
	check("rare", 1)
	check("common", 9)
	check(WheelFillerName, 6*WheelFillerWeight)
}

func TestWheelWonDistinguishesFiller(t *testing.T) {
	items := []domain.InventoryItem{{ItemName: "prize", Weight: 1}}
	r, err := NewWheelRound(items)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Won(); ok {
		t.Fatal("до спина выигрыша быть не должно")
	}

	// зануляем заглушки, чтобы спин гарантированно попал в приз
	for i := range r.Slots {
		if r.Slots[i].Filler {
			r.Slots[i].Weight = 0
		}
	}
	r.Spin()
	won, ok := r.Won()
	if !ok || won.ItemName != "prize" {
		t.Fatalf("ожидался выигрыш приза, получено %+v ok=%v", won, ok)
	}
}
