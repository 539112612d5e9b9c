package game

import (
	"strconv"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
)

// Пространство карманов европейской рулетки: 0-36
const RoulettePockets = 37

// Ставки на группы
const (
	RouletteBetRed   = "red"
	RouletteBetBlack = "black"
	RouletteBetOdd   = "odd"
	RouletteBetEven  = "even"
)

// Выплаты включают возврат ставки: прямое число 1:35, цвет/чётность 1:1
const (
	roulettePayoutStraight = 36
	roulettePayoutEven     = 2
)

var rouletteRedPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true,
	18: true, 19: true, 21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// RouletteRed сообщает цвет карманa (0 - зелёный)
func RouletteRed(pocket int) bool {
	return rouletteRedPockets[pocket]
}

// RouletteRound - один спин: состав ставок и реализованный карман
type RouletteRound struct {
	Bets   map[string]int64 `json:"bets"` // цель -> сумма
	Pocket int              `json:"pocket"`
	Payout int64            `json:"payout"`
}

// NewRouletteRound валидирует состав ставок
func NewRouletteRound(bets map[string]int64) (*RouletteRound, error) {
	if len(bets) == 0 {
		return nil, domain.ErrInvalidBetComposition
	}
	for target, amount := range bets {
		if amount <= 0 {
			return nil, domain.ErrInvalidBetComposition
		}
		if !validRouletteTarget(target) {
			return nil, domain.ErrInvalidBetComposition
		}
	}
	return &RouletteRound{Bets: bets, Pocket: -1}, nil
}

func validRouletteTarget(target string) bool {
	switch target {
	case RouletteBetRed, RouletteBetBlack, RouletteBetOdd, RouletteBetEven:
		return true
	}
	n, err := strconv.Atoi(target)
	return err == nil && n >= 0 && n < RoulettePockets
}

// TotalStake возвращает сумму всех ставок спина
func (r *RouletteRound) TotalStake() int64 {
	var total int64
	for _, a := range r.Bets {
		total += a
	}
	return total
}

// RoulettePayout - чистая функция выплаты состава ставок для карманa.
// Тестируется напрямую против таблицы множителей.
func RoulettePayout(bets map[string]int64, pocket int) int64 {
	var payout int64
	for target, amount := range bets {
		switch target {
		case RouletteBetRed:
			if RouletteRed(pocket) {
				payout += amount * roulettePayoutEven
			}
		case RouletteBetBlack:
			if pocket != 0 && !RouletteRed(pocket) {
				payout += amount * roulettePayoutEven
			}
		case RouletteBetOdd:
			if pocket != 0 && pocket%2 != 0 {
				payout += amount * roulettePayoutEven
			}
		case RouletteBetEven:
			if pocket != 0 && pocket%2 == 0 {
				payout += amount * roulettePayoutEven
			}
		default:
			if n, err := strconv.Atoi(target); err == nil && n == pocket {
				payout += amount * roulettePayoutStraight
			}
		}
	}
	return payout
}

// HouseFavorablePockets перечисляет карманы, на которых суммарная выплата
// меньше суммарной ставки. Пространство маленькое и конечное, поэтому
// перебираем его целиком.
func HouseFavorablePockets(bets map[string]int64) []int {
	total := int64(0)
	for _, a := range bets {
		total += a
	}
	var favorable []int
	for n := 0; n < RoulettePockets; n++ {
		if RoulettePayout(bets, n) < total {
			favorable = append(favorable, n)
		}
	}
	return favorable
}

// Resolve разыгрывает карман с учётом целевого RTP: если равномерный
// бросок превышает порог и выгодное заведению подмножество непусто,
// карман берётся равномерно из него; иначе честный равномерный розыгрыш
// по всем 37. Когда выгодных карманов нет (ставки покрывают всё поле),
// смещение невозможно по построению.
func (r *RouletteRound) Resolve(rtp float64) int {
	favorable := HouseFavorablePockets(r.Bets)
	if secureRandFloat() > rtp && len(favorable) > 0 {
		r.Pocket = favorable[secureRandInt(int64(len(favorable)))]
	} else {
		r.Pocket = int(secureRandInt(RoulettePockets))
	}
	r.Payout = RoulettePayout(r.Bets, r.Pocket)
	return r.Pocket
}
