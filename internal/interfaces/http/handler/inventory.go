package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/stocksync/backend/internal/application/inventory"
)

// InventoryHandler handles stock level and ledger endpoints
type InventoryHandler struct {
	BaseHandler
	ledgerService *inventoryapp.LedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledgerService *inventoryapp.LedgerService) *InventoryHandler {
	return &InventoryHandler{ledgerService: ledgerService}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/add", h.AddStock)
		inv.POST("/remove", h.RemoveStock)
		inv.POST("/adjust", h.AdjustStock)
		inv.POST("/threshold", h.SetThreshold)
		inv.GET("", h.List)
		inv.GET("/item", h.Get)
		inv.GET("/:id/ledger", h.Ledger)
	}
}

// AddStock increases stock, creating the inventory row if needed
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req inventoryapp.StockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledgerService.AddStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveStock decreases stock, rejecting removals past zero
func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	var req inventoryapp.StockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledgerService.RemoveStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AdjustStock sets an absolute quantity, recording the delta in the ledger
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledgerService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetThreshold changes the reorder threshold and max stock level of a row
func (h *InventoryHandler) SetThreshold(c *gin.Context) {
	var req inventoryapp.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledgerService.SetReorderThreshold(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get returns the inventory row for a product at a location
func (h *InventoryHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "invalid product_id")
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "invalid location_id")
		return
	}

	result, err := h.ledgerService.GetInventory(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List lists the caller's inventory rows
func (h *InventoryHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		h.BadRequest(c, "invalid pagination parameters")
		return
	}

	rows, total, err := h.ledgerService.ListInventory(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rows, total, filter.Page, filter.PageSize)
}

// Ledger returns the movement history of one inventory row, oldest first
func (h *InventoryHandler) Ledger(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid inventory id")
		return
	}

	movements, err := h.ledgerService.GetLedger(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
