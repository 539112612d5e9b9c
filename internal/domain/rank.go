package domain

import "sort"

// Ранговые титулы
const (
	TierSilver     = "Silver"
	TierPlatinum   = "Platinum"
	TierDiamond    = "Diamond"
	TierMaster     = "Master"
	TierChallenger = "Challenger"
)

// Threshold - пара (минимальный счёт, титул)
type Threshold struct {
	MinScore int64
	Label    string
}

// TierThresholds - упорядоченная таблица порогов, строго возрастающая по счёту.
// Таблица горячая: строится из конфига на каждое чтение и не кэшируется в счёте.
type TierThresholds struct {
	Floor string // титул ниже нижнего порога
	Steps []Threshold
}

// DefaultThresholds возвращает таблицу с порогами по умолчанию
func DefaultThresholds() TierThresholds {
	return NewThresholds(80, 200, 500, 1000)
}

// NewThresholds собирает таблицу из четырёх конфигурируемых порогов
func NewThresholds(platinum, diamond, master, challenger int64) TierThresholds {
	return TierThresholds{
		Floor: TierSilver,
		Steps: []Threshold{
			{MinScore: platinum, Label: TierPlatinum},
			{MinScore: diamond, Label: TierDiamond},
			{MinScore: master, Label: TierMaster},
			{MinScore: challenger, Label: TierChallenger},
		},
	}
}

// ResolveTier возвращает титул наивысшего порога, не превышающего счёт.
// Чистая функция без побочных эффектов.
func (t TierThresholds) ResolveTier(score int64) string {
	steps := make([]Threshold, len(t.Steps))
	copy(steps, t.Steps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].MinScore < steps[j].MinScore })

	label := t.Floor
	for _, s := range steps {
		if score >= s.MinScore {
			label = s.Label
		}
	}
	return label
}

// TierLevel переводит титул в числовой уровень 1-5 для сравнений
func TierLevel(label string) int {
	switch label {
	case TierChallenger:
		return 5
	case TierMaster:
		return 4
	case TierDiamond:
		return 3
	case TierPlatinum:
		return 2
	default:
		return 1
	}
}
