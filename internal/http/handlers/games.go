package handlers

import (
	"net/http"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/game"

	"github.com/gin-gonic/gin"
)

// ============ MINES ============

// MinesStartRequest представляет запрос на начало раунда
type MinesStartRequest struct {
	Stake      int64 `json:"stake" binding:"required,min=1"`
	MinesCount int   `json:"mines_count" binding:"required,min=1,max=24"`
}

// MinesRevealRequest представляет запрос на открытие ячейки
type MinesRevealRequest struct {
	Cell *int `json:"cell" binding:"required,min=0,max=24"`
}

// MinesStart запускает новый раунд сапёра
func (h *Handler) MinesStart(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req MinesStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	r, err := h.Games.StartMines(ctx, pfid, req.Stake, req.MinesCount)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.State())
}

// MinesReveal открывает ячейку в активном раунде
func (h *Handler) MinesReveal(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req MinesRevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.Cell == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cell is required"})
		return
	}

	ctx := c.Request.Context()
	r, err := h.Games.RevealMines(ctx, pfid, *req.Cell)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.State())
}

// MinesCashout забирает выигрыш в активном раунде
func (h *Handler) MinesCashout(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	r, err := h.Games.CashoutMines(ctx, pfid)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.State())
}

// MinesState возвращает текущее состояние раунда
func (h *Handler) MinesState(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	r, err := h.Games.MinesState(pfid)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}

	state := r.State()
	state["active"] = r.IsActive()
	c.JSON(http.StatusOK, state)
}

// MinesInfo возвращает таблицы множителей для фронтенда
func (h *Handler) MinesInfo(c *gin.Context) {
	tables := make(map[int][]float64)
	for mines := 1; mines < game.MinesBoardSize; mines++ {
		row := make([]float64, 0, game.MinesBoardSize-mines)
		for k := 1; k <= game.MinesBoardSize-mines; k++ {
			row = append(row, game.MinesMultiplier(game.MinesBoardSize, mines, k))
		}
		tables[mines] = row
	}

	c.JSON(http.StatusOK, gin.H{
		"board_size":        game.MinesBoardSize,
		"multiplier_tables": tables,
	})
}

// ============ WHEEL ============

// WheelSpin списывает фиксированную ставку и крутит витрину призов
func (h *Handler) WheelSpin(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result, err := h.Games.SpinWheel(ctx, pfid)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ============ ROULETTE ============

// RouletteRequest - ставки по кодам позиций: "17", "red", "odd" и т.д.
type RouletteRequest struct {
	Bets map[string]int64 `json:"bets" binding:"required"`
}

// Roulette разыгрывает один бросок шарика
func (h *Handler) Roulette(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req RouletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.Games.PlayRoulette(ctx, pfid, req.Bets)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RouletteHistory возвращает ленту последних выпавших номеров
func (h *Handler) RouletteHistory(c *gin.Context) {
	ctx := c.Request.Context()
	feed, err := h.Games.RouletteHistory(ctx)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": feed})
}

// ============ BACCARAT ============

// BaccaratRequest - ставки на исходы раунда
type BaccaratRequest struct {
	Bets game.BaccaratBets `json:"bets" binding:"required"`
}

// Baccarat разыгрывает раунд баккары
func (h *Handler) Baccarat(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req BaccaratRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.Games.PlayBaccarat(ctx, pfid, req.Bets)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BeadPlate возвращает дорожку последних исходов баккары
func (h *Handler) BeadPlate(c *gin.Context) {
	ctx := c.Request.Context()
	plate, err := h.Games.BeadPlate(ctx)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bead_plate": plate})
}

// ============ BLACKJACK ============

// BlackjackStartRequest представляет запрос на начало раунда
type BlackjackStartRequest struct {
	Stake int64 `json:"stake" binding:"required,min=1"`
}

// BlackjackStart запускает новый раунд блэкджека
func (h *Handler) BlackjackStart(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req BlackjackStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	r, err := h.Games.StartBlackjack(ctx, pfid, req.Stake)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.State())
}

// BlackjackHit берёт карту в активном раунде
func (h *Handler) BlackjackHit(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	r, err := h.Games.HitBlackjack(ctx, pfid)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.State())
}

// BlackjackStand останавливает добор и разыгрывает руку дилера
func (h *Handler) BlackjackStand(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	r, err := h.Games.StandBlackjack(ctx, pfid)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.State())
}

// BlackjackState возвращает текущее состояние раунда
func (h *Handler) BlackjackState(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	r, err := h.Games.BlackjackState(pfid)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}

	state := r.State()
	state["active"] = r.IsActive()
	c.JSON(http.StatusOK, state)
}
