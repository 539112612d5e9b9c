package game

import "testing"

func TestRoulettePayoutStraight(t *testing.T) {
	bets := map[string]int64{"17": 100}
	if got := RoulettePayout(bets, 17); got != 3600 {
		t.Fatalf("прямая ставка на 17: выплата %d, ожидалось 3600", got)
	}
	for pocket := 0; pocket < RoulettePockets; pocket++ {
		if pocket == 17 {
			continue
		}
		if got := RoulettePayout(bets, pocket); got != 0 {
			t.Fatalf("карман %d: выплата %d, ожидалось 0", pocket, got)
		}
	}
}

func TestRoulettePayoutGroups(t *testing.T) {
	cases := []struct {
		name   string
		bets   map[string]int64
		pocket int
		want   int64
	}{
		{"красное выигрывает", map[string]int64{RouletteBetRed: 100}, 1, 200},
		{"красное проигрывает на чёрном", map[string]int64{RouletteBetRed: 100}, 2, 0},
		{"красное проигрывает на зеро", map[string]int64{RouletteBetRed: 100}, 0, 0},
		{"чёрное выигрывает", map[string]int64{RouletteBetBlack: 100}, 2, 200},
		{"нечёт выигрывает", map[string]int64{RouletteBetOdd: 100}, 9, 200},
		{"чёт выигрывает", map[string]int64{RouletteBetEven: 100}, 8, 200},
		{"чёт не срабатывает на зеро", map[string]int64{RouletteBetEven: 100}, 0, 0},
		{"комбинация", map[string]int64{"17": 50, RouletteBetRed: 100, RouletteBetOdd: 100}, 17, 50*36 + 200 + 200},
	}
	for _, tc := range cases {
		if got := RoulettePayout(tc.bets, tc.pocket); got != tc.want {
			t.Fatalf("%s: выплата %d, ожидалось %d", tc.name, got, tc.want)
		}
	}
}

func TestRouletteRedPockets(t *testing.T) {
	want := map[int]bool{
		1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true,
		18: true, 19: true, 21: true, 23: true, 25: true, 27: true, 30: true,
		32: true, 34: true, 36: true,
	}
	count := 0
	for p := 0; p < RoulettePockets; p++ {
		if RouletteRed(p) {
			count++
			if !want[p] {
				t.Fatalf("карман %d не должен быть красным", p)
			}
		}
	}
	if count != 18 {
		t.Fatalf("красных карманов %d, ожидалось 18", count)
	}
}

func TestRouletteValidation(t *testing.T) {
	if _, err := NewRouletteRound(nil); err == nil {
		t.Fatal("ожидалась ошибка на пустых ставках")
	}
	if _, err := NewRouletteRound(map[string]int64{"37": 100}); err == nil {
		t.Fatal("ожидалась ошибка на кармане вне колеса")
	}
	if _, err := NewRouletteRound(map[string]int64{"corner": 100}); err == nil {
		t.Fatal("ожидалась ошибка на неизвестной цели")
	}
	if _, err := NewRouletteRound(map[string]int64{"17": -5}); err == nil {
		t.Fatal("ожидалась ошибка на отрицательной сумме")
	}
}

func TestHouseFavorablePockets(t *testing.T) {
	// прямая ставка: выгодны заведению все карманы кроме выбранного
	fav := HouseFavorablePockets(map[string]int64{"17": 100})
	if len(fav) != 36 {
		t.Fatalf("выгодных карманов %d, ожидалось 36", len(fav))
	}
	for _, p := range fav {
		if p == 17 {
			t.Fatal("карман 17 не должен быть выгоден заведению")
		}
	}

	// ставка на красное: чёрные и зеро
	fav = HouseFavorablePockets(map[string]int64{RouletteBetRed: 100})
	if len(fav) != 19 {
		t.Fatalf("выгодных карманов %d, ожидалось 19", len(fav))
	}
}

func TestRouletteResolveAlwaysBiasedLandsFavorable(t *testing.T) {
	// rtp=0 заставляет коррекцию на каждом спине
	bets := map[string]int64{"17": 100}
	for i := 0; i < 200; i++ {
		r, err := NewRouletteRound(bets)
		if err != nil {
			t.Fatal(err)
		}
		pocket := r.Resolve(0)
		if pocket == 17 {
			t.Fatal("при rtp=0 карман обязан быть выгодным заведению")
		}
		if RoulettePayout(bets, pocket) >= 100 {
			t.Fatalf("карман %d не выгоден заведению", pocket)
		}
	}
}

func TestRouletteResolveUnbiasedUniform(t *testing.T) {
	// rtp=1 отключает коррекцию: каждый карман должен выпадать
	bets := map[string]int64{RouletteBetRed: 100}
	seen := make(map[int]int)
	const spins = 37 * 400
	for i := 0; i < spins; i++ {
		r, _ := NewRouletteRound(bets)
		seen[r.Resolve(1)]++
	}
	for p := 0; p < RoulettePockets; p++ {
		if seen[p] == 0 {
			t.Fatalf("карман %d ни разу не выпал за %d спинов", p, spins)
		}
	}
}

func TestRouletteRTPConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("долгая симуляция")
	}
	// средний возврат за 100k спинов должен лежать около целевого RTP
	const (
		spins = 100000
		rtp   = 0.95
		stake = int64(100)
	)
	bets := map[string]int64{RouletteBetRed: stake}
	var wagered, returned int64
	for i := 0; i < spins; i++ {
		r, _ := NewRouletteRound(bets)
		pocket := r.Resolve(rtp)
		wagered += stake
		returned += RoulettePayout(bets, pocket)
	}
	ratio := float64(returned) / float64(wagered)
	if ratio < rtp-0.15 || ratio > rtp+0.15 {
		t.Fatalf("эмпирический возврат %.4f вне коридора %.2f±0.15", ratio, rtp)
	}
}
