package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/service"
)

// ModerationHandler обслуживает бан и разбан пользователей.
type ModerationHandler struct {
	moderation *service.ModerationService
}

func NewModerationHandler(moderation *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// Ban POST /api/admin/users/ban
func (h *ModerationHandler) Ban(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.BanRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "userId и reason обязательны")
		return
	}

	actor := session.Name
	if actor == "" {
		actor = "Admin"
	}

	dmSent, err := h.moderation.Ban(c.Request.Context(), req.UserID, req.Reason, actor)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Bruger er blevet banned",
		"dmSent":  dmSent,
	})
}

// Unban POST /api/admin/users/unban
func (h *ModerationHandler) Unban(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UnbanRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "userId и reason обязательны")
		return
	}

	actor := session.Name
	if actor == "" {
		actor = "Admin"
	}

	whitelistRestored, err := h.moderation.Unban(c.Request.Context(), req.UserID, req.Reason, req.RestoreWhitelist, actor)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"message":           "Bruger er blevet unbanned",
		"whitelistRestored": whitelistRestored,
	})
}
