package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/farellandr/eventreg/internal/helpers"
	"github.com/farellandr/eventreg/internal/middleware"
	"github.com/farellandr/eventreg/internal/services"
)

type CategoryRequest struct {
	Name        string  `json:"nombre" binding:"required,max=100"`
	Description *string `json:"descripcion"`
}

type CategoryPatchRequest struct {
	Name        *string `json:"nombre" binding:"omitempty,max=100"`
	Description *string `json:"descripcion"`
}

func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	category, err := services.NewCategoryService(gormDB).Create(c.Request.Context(), middleware.CurrentActor(c), services.CategoryInput{
		Name:        &req.Name,
		Description: req.Description,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func ListCategories(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	page, fields := helpers.ParsePage(c)
	if fields != nil {
		helpers.RespondWithFields(c, http.StatusBadRequest, "Invalid pagination.", fields)
		return
	}

	result, err := services.NewCategoryService(gormDB).List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, helpers.PageResponse(result, result.Items))
}

func GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	category, err := services.NewCategoryService(gormDB).Get(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	category, err := services.NewCategoryService(gormDB).Update(c.Request.Context(), middleware.CurrentActor(c), id, services.CategoryInput{
		Name:        &req.Name,
		Description: req.Description,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func PatchCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CategoryPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	category, err := services.NewCategoryService(gormDB).Update(c.Request.Context(), middleware.CurrentActor(c), id, services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	if err := services.NewCategoryService(gormDB).Delete(c.Request.Context(), actor, id); err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	log.Info().Uint("category_id", id).Uint("user_id", actor.UserID).Msg("category deleted")
	c.Status(http.StatusNoContent)
}
