package handlers

import (
	"net/http"
	"os"
	"runtime"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/config"
	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/handlers/common"
)

// SettingsHandler отдаёт информацию о запущенном сервере для админки.
type SettingsHandler struct {
	cfg *config.Config
}

func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// Get GET /api/admin/server-settings
func (h *SettingsHandler) Get(c *gin.Context) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{
		"settings": dto.ServerSettings{
			Hostname:    hostname,
			Port:        h.cfg.HTTPPort,
			Environment: h.cfg.Env,
			GoVersion:   runtime.Version(),
		},
	})
}
