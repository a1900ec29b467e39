package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farellandr/eventreg/internal/auth"
)

func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

func TokenManagerMiddleware(manager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("jwt_manager", manager)
		c.Next()
	}
}

func GetTokenManager(c *gin.Context) *auth.JWTManager {
	manager, exists := c.Get("jwt_manager")
	if !exists {
		return nil
	}
	return manager.(*auth.JWTManager)
}
