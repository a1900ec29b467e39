package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventreg/internal/auth"
	"github.com/farellandr/eventreg/internal/helpers"
)

const actorKey = "actor"

// JWTAuthMiddleware resolves the bearer token when one is sent. Anonymous
// requests pass through; a bad token is rejected outright.
func JWTAuthMiddleware(manager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, err := auth.TokenFromHeader(header)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization header must be 'Bearer <token>'.")
			return
		}

		claims, err := manager.Validate(token, auth.TokenTypeAccess)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Given token not valid for any token type.")
			return
		}

		actor := claims.Actor()
		c.Set(actorKey, actor)
		c.Set("user_id", actor.UserID)
		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c) == nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

// CurrentActor returns nil for anonymous requests.
func CurrentActor(c *gin.Context) *auth.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, _ := value.(*auth.Actor)
	return actor
}

// RequireSuperuser rejects writes from regular users before the body is read.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !actor.IsSuperuser {
			helpers.RespondWithError(c, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}
