package game

import (
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
)

// Фиксированный потолок перерозыгрышей: гарантирует завершение раунда,
// после него последний расклад принимается безусловно
const BaccaratMaxRedraws = 10

// Башмак: 8 колод по 13 номиналов
const baccaratShoeCopies = 8

// Исходы раунда
const (
	BaccaratPlayer = "P"
	BaccaratBanker = "B"
	BaccaratTie    = "T"
)

// Выплаты включают возврат ставки: закрытая таблица множителей.
// Ничья дополнительно возвращает ставки на игрока и банкира.
const (
	baccPayoutPlayer = 2.0
	baccPayoutBanker = 1.95 // 1:0.95, комиссия банкира
	baccPayoutTie    = 9.0
	baccPayoutPair   = 12.0
)

// BaccaratBets - состав ставок раунда по зонам
type BaccaratBets struct {
	Player     int64 `json:"player"`
	Banker     int64 `json:"banker"`
	Tie        int64 `json:"tie"`
	PlayerPair int64 `json:"player_pair"`
	BankerPair int64 `json:"banker_pair"`
}

// Total возвращает суммарную ставку
func (b BaccaratBets) Total() int64 {
	return b.Player + b.Banker + b.Tie + b.PlayerPair + b.BankerPair
}

func (b BaccaratBets) valid() bool {
	if b.Player < 0 || b.Banker < 0 || b.Tie < 0 || b.PlayerPair < 0 || b.BankerPair < 0 {
		return false
	}
	return b.Total() > 0
}

// BaccaratResult - разыгранная раздача
type BaccaratResult struct {
	PlayerHand []int  `json:"player_hand"` // номиналы 1-13
	BankerHand []int  `json:"banker_hand"`
	PlayerVal  int    `json:"player_val"`
	BankerVal  int    `json:"banker_val"`
	Winner     string `json:"winner"`
	PlayerPair bool   `json:"player_pair"`
	BankerPair bool   `json:"banker_pair"`
	Redraws    int    `json:"redraws"`
}

// BeadEntry - код исхода для дорожки: P7, B4, T0
func (r *BaccaratResult) BeadEntry() string {
	val := r.PlayerVal
	if r.Winner == BaccaratBanker {
		val = r.BankerVal
	}
	if r.Winner == BaccaratTie {
		val = r.PlayerVal
	}
	return r.Winner + itoa(val)
}

func itoa(v int) string {
	return string(rune('0' + v))
}

// багкаратное значение карты: 10 и картинки считаются нулём
func baccCardValue(card int) int {
	if card >= 10 {
		return 0
	}
	return card
}

func baccHandValue(hand []int) int {
	sum := 0
	for _, c := range hand {
		sum += baccCardValue(c)
	}
	return sum % 10
}

// свежий перемешанный башмак
func newShoe() []int {
	shoe := make([]int, 0, 13*baccaratShoeCopies)
	for copyN := 0; copyN < baccaratShoeCopies; copyN++ {
		for rank := 1; rank <= 13; rank++ {
			shoe = append(shoe, rank)
		}
	}
	shuffleInts(shoe)
	return shoe
}

// dealHands раздаёт одну раздачу из башмака по упрощённому правилу
// третьей карты: при отсутствии натуральной восьмёрки/девятки каждая
// рука добирает одну карту, если её значение не больше пяти
func dealHands(shoe []int, pos int) (player, banker []int, next int) {
	draw := func() int {
		c := shoe[pos]
		pos++
		return c
	}

	player = []int{draw(), draw()}
	banker = []int{draw(), draw()}

	if baccHandValue(player) < 8 && baccHandValue(banker) < 8 {
		if baccHandValue(player) <= 5 {
			player = append(player, draw())
		}
		if baccHandValue(banker) <= 5 {
			banker = append(banker, draw())
		}
	}
	return player, banker, pos
}

// BaccaratPayout - чистая функция выплаты: сумма выигравших зон по таблице
// множителей, плюс возврат ставок P/B при ничьей
func BaccaratPayout(bets BaccaratBets, res *BaccaratResult) int64 {
	var payout int64
	switch res.Winner {
	case BaccaratPlayer:
		payout += int64(float64(bets.Player) * baccPayoutPlayer)
	case BaccaratBanker:
		payout += int64(float64(bets.Banker) * baccPayoutBanker)
	case BaccaratTie:
		payout += int64(float64(bets.Tie) * baccPayoutTie)
		// ничья не проигрывает основные ставки
		payout += bets.Player + bets.Banker
	}
	if res.PlayerPair {
		payout += int64(float64(bets.PlayerPair) * baccPayoutPair)
	}
	if res.BankerPair {
		payout += int64(float64(bets.BankerPair) * baccPayoutPair)
	}
	return payout
}

// PlayBaccarat разыгрывает раунд. Пространство исходов слишком велико для
// перебора, поэтому против RTP работает перерозыгрыш: расклад принимается,
// если выплата не превышает ставку либо равномерный бросок прошёл порог
// RTP; иначе раздача повторяется, но не более BaccaratMaxRedraws раз.
func PlayBaccarat(bets BaccaratBets, rtp float64) (*BaccaratResult, error) {
	if !bets.valid() {
		return nil, domain.ErrInvalidBetComposition
	}

	shoe := newShoe()
	pos := 0
	total := bets.Total()

	var res *BaccaratResult
	for attempt := 0; attempt < BaccaratMaxRedraws; attempt++ {
		// башмака должно хватить на раздачу
		if pos+6 > len(shoe) {
			shoe = newShoe()
			pos = 0
		}

		var player, banker []int
		player, banker, pos = dealHands(shoe, pos)

		pVal := baccHandValue(player)
		bVal := baccHandValue(banker)
		winner := BaccaratTie
		if pVal > bVal {
			winner = BaccaratPlayer
		} else if bVal > pVal {
			winner = BaccaratBanker
		}

		res = &BaccaratResult{
			PlayerHand: player,
			BankerHand: banker,
			PlayerVal:  pVal,
			BankerVal:  bVal,
			Winner:     winner,
			PlayerPair: player[0] == player[1],
			BankerPair: banker[0] == banker[1],
			Redraws:    attempt,
		}

		payout := BaccaratPayout(bets, res)
		if payout > total && secureRandFloat() > rtp {
			continue // слишком щедро, перерозыгрыш
		}
		break
	}
	return res, nil
}
