package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

// ErrorBody - общий формат ошибок API.
type ErrorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Code    string         `json:"code,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error отдаёт AppError в общем формате. Поля Details дублируются на верхнем
// уровне, чтобы клиент мог читать, например, existingPortfolio напрямую.
// Причина 5xx ошибок только логируется.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Wrap(err, apperror.ErrCodeInternal, "Internal server error")
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"code":   appErr.Code,
			"error":  err.Error(),
		}).Error("request failed")
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  string(appErr.Code),
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
		for k, v := range appErr.Details {
			if _, taken := body[k]; !taken {
				body[k] = v
			}
		}
	}
	c.JSON(appErr.HTTPStatus, body)
}

// Abort - то же, что Error, но прерывает цепочку middleware.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		Error: message,
		Code:  string(apperror.ErrCodeBadRequest),
	})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorBody{
		Error: message,
		Code:  string(apperror.ErrCodeNotFound),
	})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorBody{
		Error: message,
		Code:  string(apperror.ErrCodeUnauthorized),
	})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, ErrorBody{
		Error: message,
		Code:  string(apperror.ErrCodeForbidden),
	})
}
