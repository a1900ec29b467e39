package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventreg/internal/helpers"
	"github.com/farellandr/eventreg/internal/middleware"
	"github.com/farellandr/eventreg/internal/services"
)

func ListUsers(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	users, err := services.NewUserService(gormDB).List(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func Health(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	sqlDB, err := gormDB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		helpers.RespondWithError(c, http.StatusServiceUnavailable, "Database unreachable.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
