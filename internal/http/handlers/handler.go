package handlers

import (
	"errors"
	"net/http"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/config"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/domain"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/feed"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/redisdb"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/repository"
	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler держит все зависимости http-слоя
type Handler struct {
	Ledger    *service.LedgerService
	Games     *service.GameService
	Checkin   *service.CheckinService
	Missions  *service.MissionService
	Shop      *service.ShopService
	Grants    *service.GrantService
	Settings  *config.Settings
	Boards    *repository.LeaderboardRepository
	Projector *redisdb.BoardProjector
	Hub       *feed.Hub
}

// Идентификация игрока внешней платформой: pfid приходит в заголовке.
// Аутентификацию выполняет вышестоящий прокси, нам достаточно идентификатора.
func getPlayerID(c *gin.Context) (string, bool) {
	pfid := c.GetHeader("X-Player-ID")
	if pfid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not identified"})
		return "", false
	}
	return pfid, true
}

// Маппинг доменных ошибок на http-статусы
func apiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrStakeOutOfRange),
		errors.Is(err, domain.ErrInvalidBetComposition),
		errors.Is(err, domain.ErrRankTooLow),
		errors.Is(err, domain.ErrRoundNotActive),
		errors.Is(err, domain.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrAlreadyCheckedIn):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMissionNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGameDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
