package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Profile возвращает профиль игрока с вычисленным титулом.
// Нового игрока создаёт на лету: внешняя платформа уже его знает.
func (h *Handler) Profile(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	name := c.Query("name")
	m, err := h.Ledger.Register(ctx, pfid, name)
	if err != nil {
		apiError(c, err)
		return
	}

	// титул зарабатывается очками героя, не XP
	heroPts, err := h.Boards.HeroPoints(ctx, m.PFID)
	if err != nil {
		apiError(c, err)
		return
	}

	now := time.Now()
	tier := h.Settings.Thresholds(ctx).ResolveTier(heroPts)

	c.JSON(http.StatusOK, gin.H{
		"pfid":             m.PFID,
		"name":             m.Name,
		"xp":               m.XP,
		"hero_points":      heroPts,
		"bonus_xp":         m.LiveBonusXP(now),
		"spendable_xp":     m.SpendableXP(now),
		"tier":             tier,
		"vip_level":        m.VIPLevel,
		"vip_active":       m.VIPActive(now),
		"vip_expiry":       m.VIPExpiry,
		"vip_points":       m.VIPPoints,
		"consecutive_days": m.ConsecutiveDays,
		"last_checkin":     m.LastCheckin,
		"join_date":        m.JoinDate,
	})
}

// DailyCheckin отмечает ежедневный визит и начисляет бонус
func (h *Handler) DailyCheckin(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result, err := h.Checkin.Checkin(ctx, pfid)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bonus":  result.Bonus,
		"streak": result.Streak,
		"member": result.Member,
	})
}

// History возвращает последние операции журнала игрока
func (h *Handler) History(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 100)
	ctx := c.Request.Context()
	txs, err := h.Ledger.History(ctx, pfid, limit)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": txs})
}

// Prizes возвращает призовые билеты игрока
func (h *Handler) Prizes(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 50)
	ctx := c.Request.Context()
	tickets, err := h.Grants.Tickets(ctx, pfid, limit)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prizes": tickets})
}

// RenameRequest представляет запрос на смену никнейма
type RenameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=32"`
}

// Rename меняет никнейм за плату
func (h *Handler) Rename(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	m, err := h.Shop.Rename(ctx, pfid, req.Name)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": m.Name, "spendable_xp": m.SpendableXP(time.Now())})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
