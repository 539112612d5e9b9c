package game

import (
	"crypto/rand"
	"math/big"
)

// secureRandInt возвращает криптографически безопасное случайное число в [0, max)
func secureRandInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0 // запасной вариант
	}
	return n.Int64()
}

// secureRandFloat возвращает криптографически безопасный float64 в [0.0, 1.0)
func secureRandFloat() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0.5
	}
	return float64(n.Int64()) / float64(1<<53)
}

// SecureRandFloat - экспортированный вариант для сервисного слоя
func SecureRandFloat() float64 {
	return secureRandFloat()
}

// shuffleInts перемешивает срез по Фишеру-Йетсу на безопасном генераторе
func shuffleInts(s []int) {
	for i := len(s) - 1; i > 0; i-- {
		j := secureRandInt(int64(i + 1))
		s[i], s[j] = s[j], s[i]
	}
}
