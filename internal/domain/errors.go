package domain

import "errors"

// Все ошибки ядра восстановимые и возвращаются вызывающему синхронно,
// до каких-либо изменений баланса или склада.
var (
	ErrInsufficientFunds     = errors.New("недостаточно средств")
	ErrOutOfStock            = errors.New("приз закончился на складе")
	ErrStakeOutOfRange       = errors.New("ставка вне допустимых пределов")
	ErrInvalidBetComposition = errors.New("неверный состав ставки")
	ErrMissionNotEligible    = errors.New("условия миссии не выполнены")
	ErrAlreadyClaimed        = errors.New("награда уже получена")
	ErrMemberNotFound        = errors.New("игрок не найден")
	ErrRoundNotActive        = errors.New("раунд не активен")
	ErrGameDisabled          = errors.New("игра отключена")
	ErrRankTooLow            = errors.New("недостаточный ранг")
	ErrAlreadyCheckedIn      = errors.New("сегодня уже отмечались")
	ErrInvalidName           = errors.New("недопустимое имя")
)
