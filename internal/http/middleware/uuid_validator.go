package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/interface/http/response"
)

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: router.PATCH("/portfolios/:id", UUIDValidator("id"), handler.UpdatePortfolio)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(paramName)); err != nil {
			response.BadRequest(c, "Parameter "+paramName+" must be a valid UUID")
			c.Abort()
			return
		}
		c.Next()
	}
}
