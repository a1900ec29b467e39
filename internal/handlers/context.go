package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farellandr/eventreg/internal/helpers"
)

func getDB(c *gin.Context) (*gorm.DB, bool) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	return db.(*gorm.DB), true
}

func pathID(c *gin.Context) (uint, bool) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		helpers.RespondWithError(c, http.StatusNotFound, "Not found.")
	}
	return id, ok
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		helpers.RespondWithFields(c, http.StatusBadRequest, "Invalid input. Please check your fields.", helpers.BindingErrorFields(err))
		return false
	}
	return true
}
