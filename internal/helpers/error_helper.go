package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/farellandr/eventreg/internal/services"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

func RespondWithFields(c *gin.Context, statusCode int, customMessage string, fields map[string]string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
		Fields:  fields,
	})
}

// RespondWithServiceError is the single mapping from service errors to HTTP.
func RespondWithServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondWithFields(c, http.StatusBadRequest, "Invalid input. Please check your fields.", verr.Fields)
	case errors.Is(err, services.ErrUnauthenticated):
		RespondWithError(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	case errors.Is(err, services.ErrInvalidCredentials):
		RespondWithError(c, http.StatusUnauthorized, "No active account found with the given credentials.")
	case errors.Is(err, services.ErrForbidden):
		RespondWithError(c, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, services.ErrEventNotFound):
		RespondWithError(c, http.StatusNotFound, "Event not found.")
	case errors.Is(err, services.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, "Not found.")
	case errors.Is(err, services.ErrDuplicateRegistration):
		RespondWithError(c, http.StatusConflict, "Participant already registered for this event.")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		RespondWithError(c, http.StatusInternalServerError, "Internal server error.")
	}
}
