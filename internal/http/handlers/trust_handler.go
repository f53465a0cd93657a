package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/handlers/common"
	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/service"
)

// TrustHandler обслуживает trust score и предупреждения.
type TrustHandler struct {
	trust *service.TrustService
}

func NewTrustHandler(trust *service.TrustService) *TrustHandler {
	return &TrustHandler{trust: trust}
}

// Get GET /api/trust?userId=...
// Обычный пользователь видит только свои данные, администратор — любые.
func (h *TrustHandler) Get(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	requestedID := c.Query("userId")
	if !session.Admin && requestedID != "" && requestedID != session.UserID {
		common.RespondError(c, http.StatusForbidden, "недостаточно прав")
		return
	}

	targetID := requestedID
	if targetID == "" {
		targetID = session.UserID
	}

	rec, err := h.trust.GetOrCreate(targetID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	respondTrust(c, rec)
}

// GetAdmin GET /api/admin/trust?userId=...
func (h *TrustHandler) GetAdmin(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		common.RespondBadRequest(c, "userId обязателен")
		return
	}

	rec, err := h.trust.GetOrCreate(userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	respondTrust(c, rec)
}

// Action POST /api/admin/trust
// Одна точка входа на четыре операции: adjustScore, setScore,
// addWarning, removeWarning. Форму value определяет action.
func (h *TrustHandler) Action(c *gin.Context) {
	session, err := common.CurrentSession(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.TrustActionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "userId и action обязательны")
		return
	}

	actor := session.Name
	if actor == "" {
		actor = "Admin"
	}

	var rec models.TrustRecord
	switch req.Action {
	case "adjustScore":
		delta, ok := decodeIntValue(req.Value)
		if !ok {
			common.RespondBadRequest(c, "value должно быть числом")
			return
		}
		rec, err = h.trust.AdjustScore(req.UserID, delta, actor)

	case "setScore":
		value, ok := decodeIntValue(req.Value)
		if !ok {
			common.RespondBadRequest(c, "value должно быть числом")
			return
		}
		rec, err = h.trust.SetScore(req.UserID, value, actor)

	case "addWarning":
		var value dto.AddWarningValue
		if len(req.Value) == 0 || json.Unmarshal(req.Value, &value) != nil {
			common.RespondBadRequest(c, "value должно быть объектом предупреждения")
			return
		}
		rec, err = h.trust.AddWarning(req.UserID, value.Reason, value.Note, value.Severity, actor)

	case "removeWarning":
		var value dto.RemoveWarningValue
		if len(req.Value) == 0 || json.Unmarshal(req.Value, &value) != nil {
			common.RespondBadRequest(c, "value должно быть объектом снятия предупреждения")
			return
		}
		if value.WarningID == "" {
			common.RespondBadRequest(c, "warningId обязателен")
			return
		}
		rec, err = h.trust.RemoveWarning(req.UserID, value.WarningID, value.Reason, actor)

	default:
		common.RespondBadRequest(c, "неизвестное действие "+req.Action)
		return
	}

	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	respondTrust(c, rec)
}

// decodeIntValue принимает и число, и строку с числом: фронтенд
// исторически слал оба варианта.
func decodeIntValue(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	return 0, false
}

func respondTrust(c *gin.Context, rec models.TrustRecord) {
	common.RespondSuccess(c, http.StatusOK, gin.H{
		"trustScore": rec.TrustScore,
		"warnings":   rec.Warnings,
	})
}
