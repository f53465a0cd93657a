package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/service"
	"github.com/averarp/community-backend/internal/storage"
)

// NoteHandler обслуживает заметки администраторов о пользователях.
type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// List GET /api/admin/users/notes?userId=...
func (h *NoteHandler) List(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		common.RespondBadRequest(c, "userId обязателен")
		return
	}

	notes, err := h.notes.ListByUser(userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"notes": notes,
	})
}

// Create POST /api/admin/users/notes
func (h *NoteHandler) Create(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateNoteRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "userId и content обязательны")
		return
	}

	actor := session.Name
	if actor == "" {
		actor = "Admin"
	}

	note, err := h.notes.Create(req.UserID, req.Content, req.Image, actor)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"note": note,
	})
}

// Image GET /api/admin/users/notes/image/:filename
func (h *NoteHandler) Image(c *gin.Context) {
	fileName := c.Param("filename")
	if !storage.ValidFilename(fileName) {
		common.RespondBadRequest(c, "недопустимое имя файла")
		return
	}

	data, err := h.notes.Image(fileName)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	// Изображения заметок неизменяемы, кэшировать можно навсегда.
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, "image/png", data)
}
