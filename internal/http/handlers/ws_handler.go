package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/service"
	"github.com/averarp/community-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений live-ленты журнала.
type WSHandler struct {
	hub          *ws.Hub
	tokenManager *service.TokenManager
	upgrader     websocket.Upgrader
}

// NewWSHandler создаёт хэндлер.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager) *WSHandler {
	return &WSHandler{
		hub:          hub,
		tokenManager: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
// Браузерный WebSocket не умеет ставить заголовки, поэтому токен в query.
// Лента журнала доступна только администраторам.
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		common.RespondUnauthorized(c, "токен сессии обязателен")
		return
	}

	session, err := h.tokenManager.Parse(rawToken)
	if err != nil || session.UserID == "" {
		common.RespondUnauthorized(c, "токен невалиден")
		return
	}
	if !session.Admin {
		common.RespondError(c, http.StatusForbidden, "недостаточно прав")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "не удалось установить соединение")
		return
	}

	client := ws.NewClient(conn, h.hub, session.UserID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
