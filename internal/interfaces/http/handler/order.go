package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/stocksync/backend/internal/application/trade"
)

// OrderHandler handles cart and order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/cart", h.GetCart)
		orders.POST("/cart/items", h.UpdateCart)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// UpdateCart applies a signed quantity delta to the caller's open cart,
// opening a new one if none exists
func (h *OrderHandler) UpdateCart(c *gin.Context) {
	var req tradeapp.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateCart(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetCart returns the caller's open cart
func (h *OrderHandler) GetCart(c *gin.Context) {
	order, err := h.orderService.GetCart(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// completeRequest carries the total the caller expects to pay
type completeRequest struct {
	ReportedTotal string `json:"reported_total" binding:"required"`
}

// Complete finalizes an order and settles stock between the trading parties
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}
	var body completeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	reportedTotal, err := parseDecimal(body.ReportedTotal)
	if err != nil {
		h.BadRequest(c, "invalid reported_total")
		return
	}

	order, err := h.orderService.CompleteOrder(c.Request.Context(), tradeapp.CompleteOrderRequest{
		OrderID:       orderID,
		ReportedTotal: reportedTotal,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel cancels an order, reversing settlement if it had completed
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Get returns one order
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List lists the caller's orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}
