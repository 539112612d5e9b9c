package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Catalog возвращает витрину магазина, доступную игроку по рангу
func (h *Handler) Catalog(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	items, err := h.Shop.Catalog(ctx, pfid)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Buy покупает позицию магазина за XP
func (h *Handler) Buy(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	ctx := c.Request.Context()
	ticket, err := h.Shop.Buy(ctx, pfid, itemID)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// BuyWithVP покупает позицию магазина за vip-очки
func (h *Handler) BuyWithVP(c *gin.Context) {
	pfid, ok := getPlayerID(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	ctx := c.Request.Context()
	ticket, err := h.Shop.BuyWithVP(ctx, pfid, itemID)
	if err != nil {
		apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}
