package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/http/middleware"
	"github.com/averarp/community-backend/internal/pkg/apperror"
	"github.com/averarp/community-backend/internal/service"
)

// ErrSessionNotFound возвращается, когда сессия не найдена в контексте.
var ErrSessionNotFound = errors.New("сессия не найдена в контексте")

// CurrentSession извлекает сессию из контекста gin.
func CurrentSession(c *gin.Context) (*service.Session, error) {
	raw, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session, ok := raw.(*service.Session)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// BindAndValidate разбирает JSON тело запроса.
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("ошибка валидации запроса: %w", err)
	}
	return nil
}

// RespondError отправляет конверт ошибки.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Success: false, Error: message})
}

// RespondAppError отправляет конверт ошибки по типизированной ошибке
// сервисного слоя; причины внутренних ошибок наружу не уходят.
func RespondAppError(c *gin.Context, err error) {
	RespondError(c, apperror.StatusFor(err), apperror.MessageFor(err))
}

// RespondSuccess отправляет конверт успеха: success=true плюс полезная нагрузка.
func RespondSuccess(c *gin.Context, statusCode int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// RespondUnauthorized отправляет 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondBadRequest отправляет 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// ParseIntQuery читает целочисленный query-параметр с дефолтом.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
