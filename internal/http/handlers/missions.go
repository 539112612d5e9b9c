package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MissionList возвращает список миссий со статусом выполнения для игрока
func (h *Handler) MissionList(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	statuses, err := h.Missions.Statuses(ctx, pfid)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"missions": statuses})
}

// MissionClaim выдаёт награду за выполненную миссию
func (h *Handler) MissionClaim(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	missionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	ctx := c.Request.Context()
	status, err := h.Missions.Claim(ctx, pfid, missionID)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
