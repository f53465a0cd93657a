package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/service"
	"github.com/averarp/community-backend/internal/validation"
)

// LogHandler обслуживает журнал аудита.
type LogHandler struct {
	audit *service.AuditService
}

func NewLogHandler(audit *service.AuditService) *LogHandler {
	return &LogHandler{audit: audit}
}

// List GET /api/logs?userId=...&action=...&limit=...
func (h *LogHandler) List(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", 0)
	entries := h.audit.Query(c.Query("userId"), c.Query("action"), limit)

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"logs": entries,
	})
}

// Create POST /api/logs
// Доступно любому авторизованному пользователю: фронтенд пишет сюда
// события вроде подачи заявки. userId и userName по умолчанию из сессии.
func (h *LogHandler) Create(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateLogRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "action обязателен")
		return
	}
	if err := validation.ValidateLength("details", req.Details, 0, validation.MaxDetailsLength); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = session.UserID
	}
	userName := req.UserName
	if userName == "" {
		userName = session.Name
	}
	if userName == "" {
		userName = "Unknown"
	}

	entry := h.audit.Append(req.Action, userID, userName, req.Details)

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"log": entry,
	})
}
