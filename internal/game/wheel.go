package game

import (
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
)

const (
	// Фиксированный размер витрины колеса
	WheelDisplaySize = 8
	// Имя и вес заглушки "без выигрыша", добивающей витрину
	WheelFillerName   = "no win"
	WheelFillerWeight = 50.0
)

// WheelSlot - позиция на колесе
type WheelSlot struct {
	ItemName string  `json:"item_name"`
	Value    int64   `json:"value"`
	Weight   float64 `json:"weight"`
	ImgURL   string  `json:"img_url,omitempty"`
	Filler   bool    `json:"filler"` // заглушка, не списывает склад
}

// WheelRound - один розыгрыш колеса призов
type WheelRound struct {
	Slots    []WheelSlot `json:"slots"`
	WinIndex int         `json:"win_index"`
}

// NewWheelRound собирает витрину из призов, прошедших фильтры вызывающего
// (остаток > 0, ранговое ограничение <= уровня игрока). Пустой пул -
// отказ до какого-либо розыгрыша, а не тихая заглушка.
func NewWheelRound(eligible []domain.InventoryItem) (*WheelRound, error) {
	if len(eligible) == 0 {
		return nil, domain.ErrOutOfStock
	}

	slots := make([]WheelSlot, 0, WheelDisplaySize)
	for _, it := range eligible {
		if len(slots) == WheelDisplaySize {
			break
		}
		slots = append(slots, WheelSlot{
			ItemName: it.ItemName,
			Value:    it.ItemValue,
			Weight:   it.Weight,
			ImgURL:   it.ImgURL,
		})
	}
	// добиваем витрину заглушками до фиксированного размера
	for len(slots) < WheelDisplaySize {
		slots = append(slots, WheelSlot{
			ItemName: WheelFillerName,
			Weight:   WheelFillerWeight,
			Filler:   true,
		})
	}

	return &WheelRound{Slots: slots, WinIndex: -1}, nil
}

// Spin выбирает индекс с вероятностью, пропорциональной весу позиции
func (r *WheelRound) Spin() WheelSlot {
	total := 0.0
	for _, s := range r.Slots {
		if s.Weight > 0 {
			total += s.Weight
		}
	}
	if total <= 0 {
		// все веса нулевые - равномерный розыгрыш
		r.WinIndex = int(secureRandInt(int64(len(r.Slots))))
		return r.Slots[r.WinIndex]
	}

	pick := secureRandFloat() * total
	cumulative := 0.0
	for i, s := range r.Slots {
		if s.Weight <= 0 {
			continue
		}
		cumulative += s.Weight
		if pick < cumulative {
			r.WinIndex = i
			return r.Slots[i]
		}
	}

	// запасной вариант: последняя позиция с положительным весом
	for i := len(r.Slots) - 1; i >= 0; i-- {
		if r.Slots[i].Weight > 0 {
			r.WinIndex = i
			break
		}
	}
	return r.Slots[r.WinIndex]
}

// Won возвращает выигранную позицию, если она не заглушка
func (r *WheelRound) Won() (WheelSlot, bool) {
	if r.WinIndex < 0 {
		return WheelSlot{}, false
	}
	s := r.Slots[r.WinIndex]
	return s, !s.Filler
}
