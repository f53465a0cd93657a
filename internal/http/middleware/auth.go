package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextSessionKey = "session"
)

// AuthMiddleware проверяет JWT токен сессии и кладёт сессию в контекст.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.ErrorResponse{Success: false, Error: "требуется авторизация"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		session, err := tokens.Parse(raw)
		if err != nil || session.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.ErrorResponse{Success: false, Error: "токен невалиден"})
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// RequireAdmin пропускает только администраторов. Ставится после AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextSessionKey)
		session, ok := raw.(*service.Session)
		if !exists || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.ErrorResponse{Success: false, Error: "требуется авторизация"})
			return
		}
		if !session.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.ErrorResponse{Success: false, Error: "недостаточно прав"})
			return
		}
		c.Next()
	}
}
