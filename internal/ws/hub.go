package ws

import (
	"encoding/json"
	"sync"

	"github.com/averarp/community-backend/internal/goroutine"
	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/models"
)

// Hub управляет подключениями live-ленты журнала аудита. Подключаются
// только администраторы; каждая новая запись журнала рассылается всем.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создаёт хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastLogEntry рассылает запись журнала всем подключённым клиентам.
// Сообщение следует контракту ленты: "type" — имя события, "data" — запись.
func (h *Hub) BroadcastLogEntry(entry models.LogEntry) {
	payload := map[string]any{
		"type": "log_entry",
		"data": entry,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.WithComponent("ws").Errorf("не удалось сериализовать запись журнала: %v", err)
		return
	}
	h.broadcast <- raw
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Медленного клиента отключаем, чтобы не копить его очередь.
			c := client
			goroutine.SafeGo(func() {
				c.Close()
			})
		}
	}
}
