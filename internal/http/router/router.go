package router

import (
	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/config"
	"github.com/averarp/community-backend/internal/http/handlers"
	"github.com/averarp/community-backend/internal/http/middleware"
	"github.com/averarp/community-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	trustHandler *handlers.TrustHandler,
	applicationHandler *handlers.ApplicationHandler,
	moderationHandler *handlers.ModerationHandler,
	memberHandler *handlers.MemberHandler,
	noteHandler *handlers.NoteHandler,
	logHandler *handlers.LogHandler,
	settingsHandler *handlers.SettingsHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Логин: rate limit только на обмен кода.
	authGroup := api.Group("/auth")
	{
		authGroup.GET("/login-url", authHandler.LoginURL)
		authGroup.POST("/exchange",
			middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod),
			authHandler.Exchange)
	}

	// WebSocket авторизуется сам через query-токен.
	api.GET("/ws", wsHandler.Handle)

	// Маршруты для любого авторизованного пользователя.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/trust", trustHandler.Get)

		protected.GET("/applications", applicationHandler.List)
		protected.POST("/applications", applicationHandler.Submit)

		protected.POST("/logs", logHandler.Create)
	}

	// Админские маршруты.
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.PATCH("/applications", applicationHandler.Review)

		admin.GET("/admin/trust", trustHandler.GetAdmin)
		admin.POST("/admin/trust", trustHandler.Action)

		admin.GET("/admin/users", memberHandler.Overview)
		admin.GET("/admin/discord-users", memberHandler.Directory)

		admin.POST("/admin/users/ban", moderationHandler.Ban)
		admin.POST("/admin/users/unban", moderationHandler.Unban)

		admin.GET("/admin/users/notes", noteHandler.List)
		admin.POST("/admin/users/notes", noteHandler.Create)
		admin.GET("/admin/users/notes/image/:filename", noteHandler.Image)

		admin.GET("/admin/server-settings", settingsHandler.Get)

		admin.GET("/logs", logHandler.List)
	}

	return r
}
