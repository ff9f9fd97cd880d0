package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// ReceivableHandler handles accounts-receivable HTTP requests
type ReceivableHandler struct {
	receivableService *service.ReceivableService
}

// NewReceivableHandler creates a new receivable handler
func NewReceivableHandler(receivableService *service.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// List handles listing receivables, optionally by status
func (h *ReceivableHandler) List(c *gin.Context) {
	status := enum.ReceivableStatus(c.Query("status"))
	receivables, err := h.receivableService.ListReceivables(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivables retrieved successfully", receivables)
}

// Get handles getting a receivable by id
func (h *ReceivableHandler) Get(c *gin.Context) {
	receivable, err := h.receivableService.GetReceivable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivable retrieved successfully", receivable)
}

// MarkPaid handles settling a receivable
func (h *ReceivableHandler) MarkPaid(c *gin.Context) {
	receivable, changed, err := h.receivableService.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if !changed {
		response.OK(c, "Receivable was already paid", receivable)
		return
	}
	response.OK(c, "Receivable marked as paid", receivable)
}
