package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler обслуживает проверку живости.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
