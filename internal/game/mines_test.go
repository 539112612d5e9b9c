package game

import (
	"math"
	"testing"
)

// опорная реализация множителя через последовательное произведение
// (25-i)/(25-M-i), как считает вероятность выживания
func referenceMultiplier(boardSize, minesCount, revealed int) float64 {
	mult := 1.0
	for i := 0; i < revealed; i++ {
		mult *= float64(boardSize-i) / float64(boardSize-minesCount-i)
	}
	return MinesHouseEdge * mult
}

func TestMinesMultiplierFormula(t *testing.T) {
	for mines := 1; mines <= 24; mines++ {
		safe := MinesBoardSize - mines
		for k := 0; k <= safe; k++ {
			got := MinesMultiplier(MinesBoardSize, mines, k)
			want := referenceMultiplier(MinesBoardSize, mines, k)
			if math.Abs(got-want) > want*1e-9 {
				t.Fatalf("mines=%d k=%d: множитель %.10f, ожидалось %.10f", mines, k, got, want)
			}
		}
	}
}

func TestMinesMultiplierAtZeroReveals(t *testing.T) {
	// при k=0 множитель равен комиссии заведения
	for mines := 1; mines <= 24; mines++ {
		if got := MinesMultiplier(MinesBoardSize, mines, 0); got != MinesHouseEdge {
			t.Fatalf("mines=%d: множитель при k=0 равен %.4f, ожидалось %.2f", mines, got, MinesHouseEdge)
		}
	}
}

func TestMinesMultiplierStrictlyIncreasing(t *testing.T) {
	for mines := 1; mines <= 24; mines++ {
		safe := MinesBoardSize - mines
		prev := MinesMultiplier(MinesBoardSize, mines, 0)
		for k := 1; k <= safe; k++ {
			cur := MinesMultiplier(MinesBoardSize, mines, k)
			if cur <= prev {
				t.Fatalf("mines=%d: множитель не возрастает на k=%d (%.6f -> %.6f)", mines, k, prev, cur)
			}
			prev = cur
		}
	}
}

func TestMinesMultiplierExactValues(t *testing.T) {
	// 24 мины, одно открытие: 0.97 * C(25,1)/C(1,1) = 0.97 * 25
	got := MinesMultiplier(25, 24, 1)
	if math.Abs(got-0.97*25) > 1e-9 {
		t.Fatalf("получено %.6f, ожидалось %.6f", got, 0.97*25)
	}
	// 3 мины, одно открытие: 0.97 * 25/22
	got = MinesMultiplier(25, 3, 1)
	if math.Abs(got-0.97*25.0/22.0) > 1e-9 {
		t.Fatalf("получено %.6f, ожидалось %.6f", got, 0.97*25.0/22.0)
	}
}

func TestMinesRoundValidation(t *testing.T) {
	if _, err := NewMinesRound("r1", "p1", 100, 0); err == nil {
		t.Fatal("ожидалась ошибка при нуле мин")
	}
	if _, err := NewMinesRound("r1", "p1", 100, 25); err == nil {
		t.Fatal("ожидалась ошибка при 25 минах")
	}
	if _, err := NewMinesRound("r1", "p1", 0, 3); err == nil {
		t.Fatal("ожидалась ошибка при нулевой ставке")
	}
}

func TestMinesRevealMineEndsRound(t *testing.T) {
	r, err := NewMinesRound("r1", "p1", 100, 3)
	if err != nil {
		t.Fatal(err)
	}
	hit, err := r.Reveal(r.Mines[0])
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("ожидалось попадание на мину")
	}
	if r.Status != MinesStatusExploded || r.WinAmount != 0 {
		t.Fatalf("после взрыва: status=%s win=%d", r.Status, r.WinAmount)
	}
	// дальнейшие открытия запрещены
	if _, err := r.Reveal(0); err == nil {
		t.Fatal("открытие после взрыва должно быть отклонено")
	}
}

func TestMinesCashOutPaysByMultiplier(t *testing.T) {
	r, err := NewMinesRound("r1", "p1", 1000, 3)
	if err != nil {
		t.Fatal(err)
	}

	// открываем две безопасные ячейки
	mines := make(map[int]bool, len(r.Mines))
	for _, m := range r.Mines {
		mines[m] = true
	}
	opened := 0
	for cell := 0; cell < MinesBoardSize && opened < 2; cell++ {
		if mines[cell] {
			continue
		}
		if hit, err := r.Reveal(cell); err != nil || hit {
			t.Fatalf("безопасная ячейка %d: hit=%v err=%v", cell, hit, err)
		}
		opened++
	}

	want := int64(1000 * MinesMultiplier(MinesBoardSize, 3, 2))
	got, err := r.CashOut()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("выплата %d, ожидалось %d", got, want)
	}
	if _, err := r.CashOut(); err == nil {
		t.Fatal("повторный кэшаут должен быть отклонён")
	}
}

func TestMinesPlacementUnique(t *testing.T) {
	r, err := NewMinesRound("r1", "p1", 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]bool)
	for _, m := range r.Mines {
		if m < 0 || m >= MinesBoardSize {
			t.Fatalf("мина вне доски: %d", m)
		}
		if seen[m] {
			t.Fatalf("дублирующаяся мина: %d", m)
		}
		seen[m] = true
	}
	if len(r.Mines) != 10 {
		t.Fatalf("мин %d, ожидалось 10", len(r.Mines))
	}
}
