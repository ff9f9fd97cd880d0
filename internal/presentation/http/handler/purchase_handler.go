package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// PurchaseHandler handles purchase-related HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// List handles listing purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	window, err := GetDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := service.PurchaseFilter{
		SupplierID: c.Query("supplier_id"),
		Range:      window,
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), filter, GetPagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchases retrieved successfully", result)
}

// Create handles recording a purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	var input service.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase recorded successfully", purchase)
}

// Get handles getting a purchase by id
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}

// Update handles editing a purchase
func (h *PurchaseHandler) Update(c *gin.Context) {
	var input service.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	purchase, err := h.purchaseService.UpdatePurchase(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase updated successfully", purchase)
}

// Delete handles deleting a purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	if err := h.purchaseService.DeletePurchase(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase deleted successfully", nil)
}
