package game

import (
	"sync"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
)

const (
	BlackjackStatusActive = "active"
	BlackjackStatusDone   = "done"

	// Дилер добирает до 17
	blackjackDealerStand = 17
)

// Card - игральная карта для 21
type Card struct {
	Rank string `json:"rank"` // 2-10, J, Q, K, A
	Suit string `json:"suit"`
}

var (
	blackjackRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
	blackjackSuits = []string{"♠", "♥", "♦", "♣"}
)

// BlackjackRound - раунд 21 с эскроу ставки при раздаче
type BlackjackRound struct {
	ID         string     `json:"id"`
	PlayerID   string     `json:"player_id"`
	Stake      int64      `json:"stake"`
	Deck       []Card     `json:"-"`
	PlayerHand []Card     `json:"player_hand"`
	DealerHand []Card     `json:"dealer_hand"`
	Status     string     `json:"status"`
	WinAmount  int64      `json:"win_amount"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	mu         sync.Mutex
}

// NewBlackjackRound раздаёт по две карты игроку и дилеру
func NewBlackjackRound(id, playerID string, stake int64) (*BlackjackRound, error) {
	if stake <= 0 {
		return nil, domain.ErrStakeOutOfRange
	}

	deck := make([]Card, 0, 52)
	for _, r := range blackjackRanks {
		for _, s := range blackjackSuits {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	// перемешивание по индексам на безопасном генераторе
	idx := make([]int, len(deck))
	for i := range idx {
		idx[i] = i
	}
	shuffleInts(idx)
	shuffled := make([]Card, len(deck))
	for i, j := range idx {
		shuffled[i] = deck[j]
	}

	round := &BlackjackRound{
		ID:        id,
		PlayerID:  playerID,
		Stake:     stake,
		Deck:      shuffled,
		Status:    BlackjackStatusActive,
		CreatedAt: time.Now(),
	}
	round.PlayerHand = []Card{round.draw(), round.draw()}
	round.DealerHand = []Card{round.draw(), round.draw()}
	return round, nil
}

func (r *BlackjackRound) draw() Card {
	c := r.Deck[0]
	r.Deck = r.Deck[1:]
	return c
}

// HandValue считает руку с мягкими тузами (11 -> 1 при переборе)
func HandValue(hand []Card) int {
	val, aces := 0, 0
	for _, c := range hand {
		switch c.Rank {
		case "J", "Q", "K", "10":
			val += 10
		case "A":
			val += 11
			aces++
		default:
			val += int(c.Rank[0] - '0')
		}
	}
	for val > 21 && aces > 0 {
		val -= 10
		aces--
	}
	return val
}

// Hit добирает карту игроку; перебор немедленно завершает раунд
func (r *BlackjackRound) Hit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != BlackjackStatusActive {
		return domain.ErrRoundNotActive
	}
	r.PlayerHand = append(r.PlayerHand, r.draw())
	if HandValue(r.PlayerHand) > 21 {
		r.settleLocked()
	}
	return nil
}

// Stand останавливает игрока, дилер добирает до 17, раунд закрывается
func (r *BlackjackRound) Stand() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != BlackjackStatusActive {
		return domain.ErrRoundNotActive
	}
	for HandValue(r.DealerHand) < blackjackDealerStand {
		r.DealerHand = append(r.DealerHand, r.draw())
	}
	r.settleLocked()
	return nil
}

// выигрыш 2x, пуш возвращает ставку, остальное сгорает
func (r *BlackjackRound) settleLocked() {
	p := HandValue(r.PlayerHand)
	d := HandValue(r.DealerHand)

	switch {
	case p > 21:
		r.WinAmount = 0
	case d > 21 || p > d:
		r.WinAmount = r.Stake * 2
	case p == d:
		r.WinAmount = r.Stake
	default:
		r.WinAmount = 0
	}

	r.Status = BlackjackStatusDone
	now := time.Now()
	r.FinishedAt = &now
}

// активен ли раунд
func (r *BlackjackRound) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Status == BlackjackStatusActive
}

// State возвращает состояние для клиента; вторая карта дилера скрыта
// до завершения раунда
func (r *BlackjackRound) State() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	dealer := r.DealerHand
	dealerVal := HandValue(dealer)
	if r.Status == BlackjackStatusActive {
		dealer = r.DealerHand[:1]
		dealerVal = HandValue(dealer)
	}
	return map[string]interface{}{
		"id":          r.ID,
		"stake":       r.Stake,
		"player_hand": r.PlayerHand,
		"player_val":  HandValue(r.PlayerHand),
		"dealer_hand": dealer,
		"dealer_val":  dealerVal,
		"status":      r.Status,
		"win_amount":  r.WinAmount,
	}
}
