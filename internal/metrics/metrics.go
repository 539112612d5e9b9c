package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики игрового ядра. Экспортируются на /metrics.
var (
	RoundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propoker_rounds_total",
		Help: "Завершённые раунды по играм и исходам",
	}, []string{"game", "outcome"})

	StakeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propoker_stake_xp_total",
		Help: "Поставленный XP по играм",
	}, []string{"game"})

	PayoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propoker_payout_xp_total",
		Help: "Выплаченный XP по играм",
	}, []string{"game"})

	MissionClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propoker_mission_claims_total",
		Help: "Полученные награды миссий по типам",
	}, []string{"mission_type"})

	PrizesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propoker_prizes_issued_total",
		Help: "Выданные призовые билеты по источникам",
	}, []string{"source"})

	LedgerRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propoker_ledger_retries_total",
		Help: "Повторы транзакций леджера после сбоя",
	})

	LedgerRetryExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propoker_ledger_retry_exhausted_total",
		Help: "Операции леджера, не прошедшие после всех повторов",
	})

	CheckinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propoker_checkins_total",
		Help: "Успешные ежедневные чекины",
	})
)
