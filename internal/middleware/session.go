package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"stockportal/internal/apierror"
	"stockportal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"

	// LoginPath is where an unauthenticated browser is sent.
	LoginPath = "/login"
)

// SessionValidator is satisfied by service.SessionService.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*service.SessionClaims, error)
}

// SessionAuth requires a valid Bearer session token on every protected route.
func SessionAuth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.NewRedirect("Authentication required", LoginPath))
			return
		}

		claims, err := sessions.Validate(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if errors.Is(err, service.ErrInvalidSession) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.NewRedirect("Session is invalid or expired", LoginPath))
			return
		}
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierror.New("Session store unavailable"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the session claims set by SessionAuth, or nil.
func GetClaims(c *gin.Context) *service.SessionClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.SessionClaims)
	return claims
}
