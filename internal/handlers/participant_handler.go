package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/farellandr/eventreg/internal/helpers"
	"github.com/farellandr/eventreg/internal/metrics"
	"github.com/farellandr/eventreg/internal/middleware"
	"github.com/farellandr/eventreg/internal/services"
)

// ParticipantRequest fields nombre and correo are ignored unless the caller
// is a superuser; regular users always register as themselves.
type ParticipantRequest struct {
	EventID uint   `json:"evento" binding:"required"`
	Name    string `json:"nombre" binding:"max=150"`
	Email   string `json:"correo" binding:"max=254"`
}

type ParticipantPatchRequest struct {
	EventID *uint   `json:"evento"`
	Name    *string `json:"nombre" binding:"omitempty,max=150"`
	Email   *string `json:"correo" binding:"omitempty,max=254"`
}

func CreateParticipant(c *gin.Context) {
	var req ParticipantRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	participant, err := services.NewParticipantService(gormDB).Register(c.Request.Context(), actor, services.RegistrationInput{
		EventID: req.EventID,
		Name:    req.Name,
		Email:   req.Email,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateRegistration) {
			metrics.Registrations.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			log.Warn().Uint("event_id", req.EventID).Uint("user_id", actor.UserID).Msg("duplicate registration rejected")
		}
		helpers.RespondWithServiceError(c, err)
		return
	}

	metrics.Registrations.WithLabelValues(metrics.OutcomeCreated).Inc()
	log.Info().Uint("participant_id", participant.ID).Uint("event_id", participant.EventID).Msg("participant registered")

	c.JSON(http.StatusCreated, services.Present(*participant, actor))
}

func ListParticipants(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	page, fields := helpers.ParsePage(c)
	if fields != nil {
		helpers.RespondWithFields(c, http.StatusBadRequest, "Invalid pagination.", fields)
		return
	}

	eventID, err := helpers.OptionalUintQuery(c, "evento")
	if err != nil {
		helpers.RespondWithFields(c, http.StatusBadRequest, "Invalid filter.", map[string]string{"evento": "Enter a whole number."})
		return
	}

	viewer := middleware.CurrentActor(c)
	result, err := services.NewParticipantService(gormDB).List(c.Request.Context(), viewer, services.ParticipantFilter{
		EventID:  eventID,
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     page,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, helpers.PageResponse(result, services.PresentAll(result.Items, viewer)))
}

func GetParticipant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	viewer := middleware.CurrentActor(c)
	participant, err := services.NewParticipantService(gormDB).Get(c.Request.Context(), viewer, id)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.Present(*participant, viewer))
}

func UpdateParticipant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ParticipantRequest
	if !bindJSON(c, &req) {
		return
	}

	update := services.ParticipantUpdate{EventID: &req.EventID}
	if req.Name != "" {
		update.Name = &req.Name
	}
	if req.Email != "" {
		update.Email = &req.Email
	}
	updateParticipant(c, id, update)
}

func PatchParticipant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ParticipantPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	updateParticipant(c, id, services.ParticipantUpdate{
		EventID: req.EventID,
		Name:    req.Name,
		Email:   req.Email,
	})
}

func updateParticipant(c *gin.Context, id uint, update services.ParticipantUpdate) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	participant, err := services.NewParticipantService(gormDB).Update(c.Request.Context(), actor, id, update)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.Present(*participant, actor))
}

func DeleteParticipant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	if err := services.NewParticipantService(gormDB).Unregister(c.Request.Context(), actor, id); err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	log.Info().Uint("participant_id", id).Uint("user_id", actor.UserID).Msg("participant unregistered")
	c.Status(http.StatusNoContent)
}

func ListRegisteredEvents(c *gin.Context) {
	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	events, err := services.NewParticipantService(gormDB).EventsFor(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}
