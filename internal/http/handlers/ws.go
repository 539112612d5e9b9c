package handlers

import (
	"net/http"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Источник проверяет вышестоящий прокси
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed апгрейдит соединение и подключает клиента к ленте событий
// (крупные выигрыши, исходы раундов)
func (h *Handler) Feed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.Hub.Attach(conn)
}
