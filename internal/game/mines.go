package game

import (
	"math/big"
	"sync"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
)

const (
	MinesBoardSize = 25 // сетка 5x5
	MinesMinCount  = 1
	MinesMaxCount  = 24

	// Комиссия заведения: честный множитель умножается на 0.97
	MinesHouseEdge = 0.97

	MinesStatusActive    = "active"
	MinesStatusCashedOut = "cashed_out"
	MinesStatusExploded  = "exploded"
)

// MinesRound представляет одиночный раунд сапёра.
// Поле перемешивается один раз при старте, игрок открывает ячейки
// и может забрать выигрыш в любой момент.
type MinesRound struct {
	ID            string     `json:"id"`
	PlayerID      string     `json:"player_id"`
	MinesCount    int        `json:"mines_count"`
	Stake         int64      `json:"stake"`
	Mines         []int      `json:"-"` // позиции мин, скрыты от клиента
	RevealedCells []int      `json:"revealed_cells"`
	Status        string     `json:"status"`
	WinAmount     int64      `json:"win_amount"`
	CreatedAt     time.Time  `json:"created_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	mu            sync.RWMutex
}

// создает новый раунд сапёра
func NewMinesRound(id, playerID string, stake int64, minesCount int) (*MinesRound, error) {
	if minesCount < MinesMinCount || minesCount > MinesMaxCount {
		return nil, domain.ErrInvalidBetComposition
	}
	if stake <= 0 {
		return nil, domain.ErrStakeOutOfRange
	}

	r := &MinesRound{
		ID:            id,
		PlayerID:      playerID,
		MinesCount:    minesCount,
		Stake:         stake,
		RevealedCells: []int{},
		Status:        MinesStatusActive,
		CreatedAt:     time.Now(),
	}
	r.Mines = placeMines(minesCount)
	return r, nil
}

// раскладывает мины перемешиванием всей доски
func placeMines(count int) []int {
	cells := make([]int, MinesBoardSize)
	for i := range cells {
		cells[i] = i
	}
	shuffleInts(cells)
	return cells[:count]
}

// binomial возвращает C(n, k) точной целочисленной арифметикой.
// C(25,k) не влезает в точность float53 на больших досках, поэтому big.Int.
func binomial(n, k int64) *big.Int {
	return new(big.Int).Binomial(n, k)
}

// MinesMultiplier возвращает множитель после revealed безопасных открытий:
// houseEdge * C(N, k) / C(N-M, k) - величина, обратная вероятности того,
// что все k выборов были безопасны. Пересчитывается инкрементально на
// каждое открытие, без накопления ошибки на малых k.
func MinesMultiplier(boardSize, minesCount, revealed int) float64 {
	if revealed <= 0 {
		return MinesHouseEdge
	}
	num := binomial(int64(boardSize), int64(revealed))
	den := binomial(int64(boardSize-minesCount), int64(revealed))
	if den.Sign() == 0 {
		return 0
	}
	ratio := new(big.Rat).SetFrac(num, den)
	f, _ := ratio.Float64()
	return MinesHouseEdge * f
}

// Multiplier возвращает текущий множитель раунда
func (r *MinesRound) Multiplier() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return MinesMultiplier(MinesBoardSize, r.MinesCount, len(r.RevealedCells))
}

// Reveal открывает ячейку на поле
func (r *MinesRound) Reveal(cell int) (hitMine bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != MinesStatusActive {
		return false, domain.ErrRoundNotActive
	}
	if cell < 0 || cell >= MinesBoardSize {
		return false, domain.ErrInvalidBetComposition
	}
	for _, c := range r.RevealedCells {
		if c == cell {
			return false, domain.ErrInvalidBetComposition
		}
	}

	for _, m := range r.Mines {
		if m == cell {
			// взрыв, раунд окончен без выплаты
			r.Status = MinesStatusExploded
			r.WinAmount = 0
			now := time.Now()
			r.FinishedAt = &now
			return true, nil
		}
	}

	r.RevealedCells = append(r.RevealedCells, cell)

	// все безопасные ячейки открыты - авто выплата
	if len(r.RevealedCells) >= MinesBoardSize-r.MinesCount {
		r.finishLocked()
	}
	return false, nil
}

// CashOut фиксирует выигрыш по текущему множителю
func (r *MinesRound) CashOut() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != MinesStatusActive {
		return 0, domain.ErrRoundNotActive
	}
	r.finishLocked()
	return r.WinAmount, nil
}

func (r *MinesRound) finishLocked() {
	mult := MinesMultiplier(MinesBoardSize, r.MinesCount, len(r.RevealedCells))
	r.Status = MinesStatusCashedOut
	r.WinAmount = int64(float64(r.Stake) * mult)
	now := time.Now()
	r.FinishedAt = &now
}

// активен ли раунд
func (r *MinesRound) IsActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status == MinesStatusActive
}

// возвращает состояние раунда (безопасно для клиента)
func (r *MinesRound) State() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mult := MinesMultiplier(MinesBoardSize, r.MinesCount, len(r.RevealedCells))
	state := map[string]interface{}{
		"id":             r.ID,
		"board_size":     MinesBoardSize,
		"mines_count":    r.MinesCount,
		"stake":          r.Stake,
		"revealed_cells": r.RevealedCells,
		"multiplier":     roundTo2(mult),
		"status":         r.Status,
		"win_amount":     r.WinAmount,
		"potential_win":  int64(float64(r.Stake) * mult),
	}
	// мины показываем только после завершения
	if r.Status != MinesStatusActive {
		state["mines"] = r.Mines
	}
	return state
}

// округление вниз до 2 знаков, только для отображения
func roundTo2(f float64) float64 {
	return float64(int64(f*100)) / 100
}
