package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/stocksync/backend/internal/application/identity"
)

// AuthHandler handles authentication and user registration endpoints
type AuthHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRoutes registers auth routes. These are public.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
	}
}

// Login authenticates a user and issues an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Register creates a user inside an activated organization
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}
