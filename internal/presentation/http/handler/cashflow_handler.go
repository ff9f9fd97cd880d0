package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// CashFlowHandler handles cash-flow HTTP requests
type CashFlowHandler struct {
	cashFlowService *service.CashFlowService
}

// NewCashFlowHandler creates a new cash-flow handler
func NewCashFlowHandler(cashFlowService *service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{cashFlowService: cashFlowService}
}

// List handles listing the transaction feed with totals. Without from the
// whole feed is returned.
func (h *CashFlowHandler) List(c *gin.Context) {
	window, err := GetDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.cashFlowService.Summary(c.Request.Context(), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash flow retrieved successfully", summary)
}

// Summary handles returning only the totals of a window
func (h *CashFlowHandler) Summary(c *gin.Context) {
	window, err := GetDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.cashFlowService.Summary(c.Request.Context(), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash flow summary retrieved successfully", gin.H{
		"totalIncome":  summary.TotalIncome,
		"totalExpense": summary.TotalExpense,
		"balance":      summary.Balance,
		"count":        len(summary.Transactions),
	})
}

// ListAdjustments handles listing manual cash movements
func (h *CashFlowHandler) ListAdjustments(c *gin.Context) {
	adjustments, err := h.cashFlowService.ListAdjustments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash adjustments retrieved successfully", adjustments)
}

// CreateAdjustment handles recording a manual cash movement
func (h *CashFlowHandler) CreateAdjustment(c *gin.Context) {
	var input service.AdjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	adjustment, err := h.cashFlowService.AddAdjustment(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash adjustment recorded successfully", adjustment)
}

// DeleteAdjustment handles deleting a manual cash movement
func (h *CashFlowHandler) DeleteAdjustment(c *gin.Context) {
	if err := h.cashFlowService.DeleteAdjustment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash adjustment deleted successfully", nil)
}
