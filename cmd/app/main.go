package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/bot"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/db"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/feed"
	httpServer "github.com/ProPoker-coder/ProPoker-Kingdom/internal/http"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/http/handlers"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/redisdb"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	redisClient := redisdb.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	projector := redisdb.NewBoardProjector(redisClient)

	settingsRepo := repository.NewSettingsRepository(dbPool)
	settings := config.NewSettings(settingsRepo)
	boards := repository.NewLeaderboardRepository(dbPool)

	hub := feed.NewHub()

	ledger := service.NewLedgerService(dbPool, projector)
	grants := service.NewGrantService(dbPool, nil)
	games := service.NewGameService(dbPool, ledger, settings, grants, hub, nil)
	checkin := service.NewCheckinService(dbPool, settings)
	missions := service.NewMissionService(dbPool, settings, grants)
	shop := service.NewShopService(dbPool, settings, grants)
	tournaments := service.NewTournamentService(dbPool, projector)

	// Админ бот запускается до HTTP сервера, чтобы уведомления
	// работали с первого раунда
	var adminBot *bot.AdminBot
	if cfg.AdminBotEnabled && len(cfg.AdminTelegramIDs) > 0 {
		var err error
		adminBot, err = bot.NewAdminBot(cfg.BotToken, cfg.AdminTelegramIDs, bot.Deps{
			Settings:     settings,
			SettingsRepo: settingsRepo,
			Members:      repository.NewMemberRepository(dbPool),
			Journal:      repository.NewTransactionRepository(dbPool),
			Boards:       boards,
			Prizes:       repository.NewPrizeRepository(dbPool),
			Audit:        repository.NewAuditRepository(dbPool),
			Grants:       grants,
			Tournaments:  tournaments,
			Projector:    projector,
		})
		if err != nil {
			log.Error("failed to start admin bot", "error", err)
		} else {
			grants.SetNotifier(adminBot)
			games.SetNotifier(adminBot)
			go adminBot.Start()
			log.Info("admin bot started", "admin_ids", cfg.AdminTelegramIDs)
		}
	}

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Player-ID")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers.Handler{
		Ledger:    ledger,
		Games:     games,
		Checkin:   checkin,
		Missions:  missions,
		Shop:      shop,
		Grants:    grants,
		Settings:  settings,
		Boards:    boards,
		Projector: projector,
		Hub:       hub,
	}
	httpServer.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	if adminBot != nil {
		adminBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
