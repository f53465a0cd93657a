package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/service"
)

// AuthHandler обслуживает вход через Discord OAuth.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginURL GET /api/auth/login-url
func (h *AuthHandler) LoginURL(c *gin.Context) {
	common.RespondSuccess(c, http.StatusOK, gin.H{
		"url": h.auth.LoginURL(),
	})
}

// Exchange POST /api/auth/exchange
func (h *AuthHandler) Exchange(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "код авторизации обязателен")
		return
	}

	result, err := h.auth.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user": dto.SessionResponse{
			ID:      result.Session.UserID,
			Name:    result.Session.Name,
			Avatar:  result.Session.Avatar,
			Roles:   result.Session.Roles,
			IsAdmin: result.Session.Admin,
		},
	})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"user": dto.SessionResponse{
			ID:      session.UserID,
			Name:    session.Name,
			Avatar:  session.Avatar,
			Roles:   session.Roles,
			IsAdmin: session.Admin,
		},
	})
}
