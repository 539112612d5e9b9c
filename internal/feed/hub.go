package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ProPoker-coder/ProPoker-Kingdom/internal/logger"
)

// Event - сообщение ленты для подключённых клиентов
type Event struct {
	Type     string `json:"type"` // big_win | round
	PlayerID string `json:"player_id,omitempty"`
	GameType string `json:"game_type"`
	Amount   int64  `json:"amount,omitempty"`
	Entry    string `json:"entry,omitempty"`
	Time     int64  `json:"time"`
}

// Hub рассылает события всем подключённым клиентам.
// Медленный клиент пропускает события, рассылка его не ждёт.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logger.Debug("клиент ленты подключён", "clients", h.ClientCount())
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(ev Event) {
	ev.Time = time.Now().Unix()
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Warn("не удалось сериализовать событие ленты", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// переполненный буфер: клиент отстал, событие пропускается
		}
	}
}

// BroadcastBigWin объявляет крупный выигрыш
func (h *Hub) BroadcastBigWin(playerID, gameType string, amount int64) {
	h.broadcast(Event{Type: "big_win", PlayerID: playerID, GameType: gameType, Amount: amount})
}

// BroadcastRound транслирует запись завершённого раунда (бисер баккары)
func (h *Hub) BroadcastRound(gameType, entry string) {
	h.broadcast(Event{Type: "round", GameType: gameType, Entry: entry})
}
