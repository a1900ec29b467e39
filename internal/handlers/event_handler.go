package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/farellandr/eventreg/internal/helpers"
	"github.com/farellandr/eventreg/internal/middleware"
	"github.com/farellandr/eventreg/internal/services"
)

type EventRequest struct {
	Title       string  `json:"titulo" binding:"required,max=200"`
	Date        string  `json:"fecha" binding:"required,isodate"`
	Time        string  `json:"hora" binding:"required,clocktime"`
	Location    string  `json:"ubicacion" binding:"required,max=255"`
	Description *string `json:"descripcion"`
	CategoryID  uint    `json:"categoria" binding:"required"`
}

type EventPatchRequest struct {
	Title       *string `json:"titulo" binding:"omitempty,max=200"`
	Date        *string `json:"fecha" binding:"omitempty,isodate"`
	Time        *string `json:"hora" binding:"omitempty,clocktime"`
	Location    *string `json:"ubicacion" binding:"omitempty,max=255"`
	Description *string `json:"descripcion"`
	CategoryID  *uint   `json:"categoria"`
}

func (r EventRequest) input() services.EventInput {
	return services.EventInput{
		Title:       &r.Title,
		Date:        &r.Date,
		Time:        &r.Time,
		Location:    &r.Location,
		Description: r.Description,
		CategoryID:  &r.CategoryID,
	}
}

func (r EventPatchRequest) input() services.EventInput {
	return services.EventInput{
		Title:       r.Title,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Description: r.Description,
		CategoryID:  r.CategoryID,
	}
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, err := services.NewEventService(gormDB).Create(c.Request.Context(), middleware.CurrentActor(c), req.input())
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func GetEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, err := services.NewEventService(gormDB).Get(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	page, fields := helpers.ParsePage(c)
	if fields != nil {
		helpers.RespondWithFields(c, http.StatusBadRequest, "Invalid pagination.", fields)
		return
	}

	categoryID, err := helpers.OptionalUintQuery(c, "categoria")
	if err != nil {
		helpers.RespondWithFields(c, http.StatusBadRequest, "Invalid filter.", map[string]string{"categoria": "Enter a whole number."})
		return
	}

	result, err := services.NewEventService(gormDB).List(c.Request.Context(), services.EventFilter{
		CategoryID: categoryID,
		Date:       c.Query("fecha"),
		Page:       page,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, helpers.PageResponse(result, result.Items))
}

func UpdateEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, err := services.NewEventService(gormDB).Update(c.Request.Context(), middleware.CurrentActor(c), id, req.input())
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func PatchEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req EventPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	event, err := services.NewEventService(gormDB).Update(c.Request.Context(), middleware.CurrentActor(c), id, req.input())
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func DeleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	if err := services.NewEventService(gormDB).Delete(c.Request.Context(), actor, id); err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	log.Info().Uint("event_id", id).Uint("user_id", actor.UserID).Msg("event deleted")
	c.Status(http.StatusNoContent)
}

func GetEventParticipants(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	summary, err := services.NewEventService(gormDB).Participants(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
