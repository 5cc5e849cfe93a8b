package handler

import (
	"errors"
	"net/http"

	"stockportal/internal/apierror"
	"stockportal/internal/dto"
	"stockportal/internal/middleware"
	"stockportal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct{ sessions service.SessionService }

func NewAuthHandler(sessions service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sessions.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		log.Warn().Str("username", req.Username).Str("ip", c.ClientIP()).Msg("login rejected")
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid username or password"))
		return
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("login failed")
		c.JSON(http.StatusServiceUnavailable, apierror.New("Login is temporarily unavailable"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.NewRedirect("Authentication required", middleware.LoginPath))
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), claims.SessionID); err != nil {
		log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("logout failed")
		c.JSON(http.StatusServiceUnavailable, apierror.New("Logout is temporarily unavailable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": middleware.LoginPath})
}
