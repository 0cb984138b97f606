package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/stocksync/backend/internal/application/identity"
)

// OrganizationHandler handles organization onboarding and activation
type OrganizationHandler struct {
	BaseHandler
	orgService *identityapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *identityapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// RegisterPublicRoutes registers the routes reachable without a token.
// Onboarding and activation happen before any user can log in.
func (h *OrganizationHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.Onboard)
		orgs.POST("/activate", h.Activate)
	}
}

// RegisterRoutes registers the authenticated organization routes
func (h *OrganizationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orgs := rg.Group("/organizations")
	{
		orgs.GET("", h.List)
		orgs.GET("/:id", h.Get)
	}
}

// Onboard creates an inactive organization and triggers the activation email
func (h *OrganizationHandler) Onboard(c *gin.Context) {
	var req identityapp.OnboardOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	org, err := h.orgService.Onboard(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// activateRequest carries the activation token from the emailed link
type activateRequest struct {
	Token string `json:"token" binding:"required,uuid"`
}

// Activate activates an organization using its activation token
func (h *OrganizationHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	token, err := uuid.Parse(req.Token)
	if err != nil {
		h.BadRequest(c, "invalid activation token")
		return
	}

	org, err := h.orgService.Activate(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// Get returns one organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid organization id")
		return
	}

	org, err := h.orgService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// List lists organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}

	orgs, err := h.orgService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orgs)
}
