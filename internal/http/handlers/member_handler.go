package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/service"
)

// MemberHandler обслуживает списки участников гильдии.
type MemberHandler struct {
	members *service.MemberService
}

func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// Overview GET /api/admin/users
func (h *MemberHandler) Overview(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	users, err := h.members.Overview(c.Request.Context(), session)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"users": users,
	})
}

// Directory GET /api/admin/discord-users
func (h *MemberHandler) Directory(c *gin.Context) {
	users, err := h.members.DirectoryUsers(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"users": users,
	})
}
