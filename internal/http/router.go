package http

import (
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/http/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes вешает все эндпоинты ядра на роутер
func RegisterRoutes(r *gin.Engine, h *handlers.Handler) {
	api := r.Group("/api")

	// профиль и леджер
	api.GET("/profile", h.Profile)
	api.POST("/checkin", h.DailyCheckin)
	api.GET("/history", h.History)
	api.GET("/prizes", h.Prizes)
	api.POST("/rename", h.Rename)

	// игры
	games := api.Group("/games")
	{
		games.POST("/mines/start", h.MinesStart)
		games.POST("/mines/reveal", h.MinesReveal)
		games.POST("/mines/cashout", h.MinesCashout)
		games.GET("/mines/state", h.MinesState)
		games.GET("/mines/info", h.MinesInfo)

		games.POST("/wheel/spin", h.WheelSpin)

		games.POST("/roulette", h.Roulette)
		games.GET("/roulette/history", h.RouletteHistory)

		games.POST("/baccarat", h.Baccarat)
		games.GET("/baccarat/bead-plate", h.BeadPlate)

		games.POST("/blackjack/start", h.BlackjackStart)
		games.POST("/blackjack/hit", h.BlackjackHit)
		games.POST("/blackjack/stand", h.BlackjackStand)
		games.GET("/blackjack/state", h.BlackjackState)
	}

	// миссии
	api.GET("/missions", h.MissionList)
	api.POST("/missions/:id/claim", h.MissionClaim)

	// магазин
	api.GET("/shop", h.Catalog)
	api.POST("/shop/:id/buy", h.Buy)
	api.POST("/shop/:id/buy-vp", h.BuyWithVP)

	// лидерборды
	api.GET("/leaderboard/hero", h.HeroBoard)
	api.GET("/leaderboard/monthly", h.MonthlyBoard)
	api.GET("/leaderboard/gods", h.MonthlyGods)

	// лента событий
	r.GET("/ws/feed", h.Feed)
}
