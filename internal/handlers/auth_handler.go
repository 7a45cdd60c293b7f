package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/middleware"
	"github.com/storefront/catalog/internal/services"
	"github.com/storefront/catalog/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes mounts the auth endpoints. Profile is the only one behind
// the access-token guard; refresh and logout authenticate by refresh token
// in the body instead.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/profile", authRequired, h.Profile)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh tolerates an unparseable or empty body: the service answers the
// absence of a token with its own status, which differs from logout's.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.TokenRequest
	_ = c.ShouldBindJSON(&req)

	response, err := h.authService.Refresh(req.Token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.TokenRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(req.Token); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		h.HandleServiceError(c, apperrors.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    claims.UserID,
		"email": claims.Email,
	})
}
