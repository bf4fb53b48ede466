package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/interface/http/response"
	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

// ErrorHandler отдаёт ошибки, добавленные через c.Error, если ответ ещё не записан.
// Паники превращаются в 500 без подробностей.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithFields(logrus.Fields{
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"panic":  fmt.Sprint(rec),
				}).Error("panic recovered")
				if !c.Writer.Written() {
					response.Abort(c, apperror.New(apperror.ErrCodeInternal, "Internal server error"))
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		response.Error(c, c.Errors.Last().Err)
	}
}

// RequestLogger пишет строку лога на каждый запрос.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
			"client": c.ClientIP(),
		})
		if v, ok := c.Get(ContextUserIDKey); ok {
			entry = entry.WithField("user_id", v)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request completed with server error")
			return
		}
		entry.Debug("request completed")
	}
}
