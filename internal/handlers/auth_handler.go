package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/farellandr/eventreg/internal/helpers"
	"github.com/farellandr/eventreg/internal/middleware"
	"github.com/farellandr/eventreg/internal/services"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	user, err := services.NewUserService(gormDB).Register(c.Request.Context(), services.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func ObtainToken(c *gin.Context) {
	var req TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	gormDB, ok := getDB(c)
	if !ok {
		return
	}

	manager := middleware.GetTokenManager(c)
	if manager == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Token manager not configured.")
		return
	}

	actor, err := services.NewUserService(gormDB).Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	pair, err := manager.IssuePair(actor)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, pair)
}

func RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	manager := middleware.GetTokenManager(c)
	if manager == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Token manager not configured.")
		return
	}

	access, err := manager.Refresh(req.Refresh)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Token is invalid or expired.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}
