package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRollBonusBounds(t *testing.T) {
	// края кривой при крайних значениях броска
	assert.Equal(t, int64(10), rollBonus(10, 500, 0, 0))
	assert.Equal(t, int64(500), rollBonus(10, 500, 1, 0))
}

func TestRollBonusCubicCurve(t *testing.T) {
	// кубическая кривая прижимает середину к минимуму:
	// u=0.5 даёт min + (max-min)/8
	got := rollBonus(10, 500, 0.5, 0)
	assert.Equal(t, int64(71), got) // 10 + 490*0.125 = 71.25 -> 71
	assert.Less(t, got, int64((10+500)/2))
}

func TestRollBonusVIPUplift(t *testing.T) {
	base := rollBonus(10, 500, 0.5, 0)
	uplifted := rollBonus(10, 500, 0.5, 20)
	assert.Equal(t, int64(86), uplifted) // 71.25 * 1.2 = 85.5 -> 86
	assert.Greater(t, uplifted, base)
}

func TestSameDay(t *testing.T) {
	base := time.Date(2024, 3, 15, 23, 50, 0, 0, time.Local)
	assert.True(t, sameDay(base, base.Add(5*time.Minute)))
	assert.False(t, sameDay(base, base.Add(15*time.Minute))) // перевалило через полночь
	assert.False(t, sameDay(base, base.AddDate(0, 0, 1)))
}
