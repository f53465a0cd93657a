package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/service"
)

// ApplicationHandler обслуживает заявки.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// List GET /api/applications?userId=...
func (h *ApplicationHandler) List(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	apps, err := h.applications.List(session.UserID, session.Admin, c.Query("userId"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"applications": apps,
	})
}

// Submit POST /api/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SubmitApplicationRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "тип заявки обязателен")
		return
	}

	app, err := h.applications.Submit(session.UserID, session.Name, service.SubmitApplicationInput{
		ID:     req.ID,
		Type:   req.Type,
		Fields: req.Fields,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"application": app,
	})
}

// Review PATCH /api/applications
func (h *ApplicationHandler) Review(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.ReviewApplicationRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "id и status обязательны")
		return
	}

	actor := session.Name
	if actor == "" {
		actor = "Admin"
	}

	app, err := h.applications.Review(service.ReviewApplicationInput{
		ID:                req.ID,
		Status:            req.Status,
		ReviewNote:        req.ReviewNote,
		RequiresInterview: req.RequiresInterview,
	}, actor)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"application": app,
	})
}
