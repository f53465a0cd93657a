package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/averarp/community-backend/internal/dto"
	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: хэндлер кладёт ошибку
// через c.Error, сюда она приходит уже типизированной (apperror) и
// превращается в конверт {success:false, error}. Причины внутренних
// ошибок клиенту не выдаются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		c.JSON(apperror.StatusFor(err), dto.ErrorResponse{
			Success: false,
			Error:   apperror.MessageFor(err),
		})
	}
}
