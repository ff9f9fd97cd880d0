package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles recording a sale
func (h *SaleHandler) Create(c *gin.Context) {
	var input service.RecordSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.saleService.RecordSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", result)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	window, err := GetDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := service.SaleFilter{
		Search:        c.Query("search"),
		ClientID:      c.Query("client_id"),
		PaymentMethod: enum.PaymentMethod(c.Query("payment_method")),
		Range:         window,
	}

	result, err := h.saleService.ListSales(c.Request.Context(), filter, GetPagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a sale by id
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Delete handles deleting a sale and returning its stock
func (h *SaleHandler) Delete(c *gin.Context) {
	if err := h.saleService.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale deleted successfully", nil)
}
