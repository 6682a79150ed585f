package middleware

import (
	"github.com/gin-gonic/gin"

	"wasteworks/internal/models"
)

// UserAuth admits any authenticated account.
func UserAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret)
}

func AdminAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, models.RoleAdmin)
}

func CollectorAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, models.RoleCollector)
}
