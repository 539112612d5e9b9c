package domain

import "testing"

func TestResolveTier(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		score int64
		want  string
	}{
		{0, TierSilver},
		{79, TierSilver},
		{80, TierPlatinum},
		{150, TierPlatinum},
		{199, TierPlatinum},
		{200, TierDiamond},
		{500, TierMaster},
		{999, TierMaster},
		{1000, TierChallenger},
		{50000, TierChallenger},
	}
	for _, c := range cases {
		if got := th.ResolveTier(c.score); got != c.want {
			t.Errorf("ResolveTier(%d) = %s, ожидалось %s", c.score, got, c.want)
		}
	}
}

func TestResolveTierExample(t *testing.T) {
	// счёт между порогами остаётся на нижнем: 150 при пороге Diamond 200 - это Platinum
	th := NewThresholds(80, 200, 500, 1000)
	if got := th.ResolveTier(150); got != TierPlatinum {
		t.Fatalf("ожидался Platinum, получен %s", got)
	}
}

func TestTierLevelOrder(t *testing.T) {
	labels := []string{TierSilver, TierPlatinum, TierDiamond, TierMaster, TierChallenger}
	for i := 1; i < len(labels); i++ {
		if TierLevel(labels[i]) <= TierLevel(labels[i-1]) {
			t.Fatalf("уровни должны строго возрастать: %s <= %s", labels[i], labels[i-1])
		}
	}
}

func TestResolveTierUnsortedTable(t *testing.T) {
	// таблица из конфига может прийти в любом порядке
	th := TierThresholds{
		Floor: TierSilver,
		Steps: []Threshold{
			{MinScore: 1000, Label: TierChallenger},
			{MinScore: 80, Label: TierPlatinum},
			{MinScore: 500, Label: TierMaster},
			{MinScore: 200, Label: TierDiamond},
		},
	}
	if got := th.ResolveTier(600); got != TierMaster {
		t.Fatalf("ожидался Master, получен %s", got)
	}
}
