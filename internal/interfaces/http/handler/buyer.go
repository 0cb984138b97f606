package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/stocksync/backend/internal/application/partner"
)

// BuyerHandler handles the supplier-side buyer registry endpoints
type BuyerHandler struct {
	BaseHandler
	buyerService *partnerapp.BuyerService
}

// NewBuyerHandler creates a new BuyerHandler
func NewBuyerHandler(buyerService *partnerapp.BuyerService) *BuyerHandler {
	return &BuyerHandler{buyerService: buyerService}
}

// RegisterRoutes registers buyer routes
func (h *BuyerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	buyers := rg.Group("/buyers")
	{
		buyers.POST("", h.Register)
		buyers.GET("", h.List)
		buyers.PUT("/:id/credit-limit", h.SetCreditLimit)
	}
}

// Register links a purchasing organization to the caller as a buyer
func (h *BuyerHandler) Register(c *gin.Context) {
	var req partnerapp.RegisterBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buyer, err := h.buyerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, buyer)
}

// creditLimitRequest carries the new credit limit
type creditLimitRequest struct {
	CreditLimit string `json:"credit_limit" binding:"required"`
}

// SetCreditLimit updates a buyer's credit limit
func (h *BuyerHandler) SetCreditLimit(c *gin.Context) {
	buyerID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid buyer id")
		return
	}
	var body creditLimitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	limit, err := parseDecimal(body.CreditLimit)
	if err != nil {
		h.BadRequest(c, "invalid credit_limit")
		return
	}

	buyer, err := h.buyerService.SetCreditLimit(c.Request.Context(), buyerID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, buyer)
}

// List lists the caller's registered buyers
func (h *BuyerHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}

	buyers, err := h.buyerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, buyers)
}
