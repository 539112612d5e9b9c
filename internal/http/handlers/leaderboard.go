package handlers

import (
	"net/http"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/redisdb"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"

	"github.com/gin-gonic/gin"
)

// BoardRow - строка вечного лидерборда с титулом. Титул считается
// из очков героя, поэтому месячный лидерборд отдаётся без него.
type BoardRow struct {
	repository.LeaderboardEntry
	Tier string `json:"tier"`
}

func (h *Handler) decorate(c *gin.Context, entries []repository.LeaderboardEntry) []BoardRow {
	thresholds := h.Settings.Thresholds(c.Request.Context())
	rows := make([]BoardRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, BoardRow{LeaderboardEntry: e, Tier: thresholds.ResolveTier(e.Points)})
	}
	return rows
}

// HeroBoard возвращает вечный лидерборд.
// Redis-проекция быстрая, но необязательная: при недоступности
// читаем из Postgres.
func (h *Handler) HeroBoard(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	ctx := c.Request.Context()

	if entries, ok := h.Projector.Top(ctx, redisdb.KeyHeroBoard, limit); ok {
		c.JSON(http.StatusOK, gin.H{"board": h.decorate(c, entries), "source": "cache"})
		return
	}

	entries, err := h.Boards.TopHero(ctx, limit)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"board": h.decorate(c, entries), "source": "db"})
}

// MonthlyBoard возвращает лидерборд текущего месяца
func (h *Handler) MonthlyBoard(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	ctx := c.Request.Context()

	if entries, ok := h.Projector.Top(ctx, redisdb.KeyMonthlyBoard, limit); ok {
		c.JSON(http.StatusOK, gin.H{"board": entries, "source": "cache"})
		return
	}

	entries, err := h.Boards.TopMonthly(ctx, limit)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"board": entries, "source": "db"})
}

// MonthlyGods возвращает зал славы победителей прошлых месяцев
func (h *Handler) MonthlyGods(c *gin.Context) {
	limit := queryInt(c, "limit", 12)
	ctx := c.Request.Context()

	gods, err := h.Boards.Gods(ctx, limit)
	if err != nil {
		apiError(c, err)
		return
	}
	if gods == nil {
		gods = []repository.MonthlyGod{}
	}
	c.JSON(http.StatusOK, gin.H{"gods": gods})
}
