package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// ESCPOSContentType is the media type of raw printer streams
const ESCPOSContentType = "application/vnd.escpos"

// ReceiptHandler handles receipt and printer HTTP requests.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	width          int
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(receiptService *service.ReceiptService, width int) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, width: width}
}

// GetStatus returns the current printer status.
func (h *ReceiptHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.Status(c.Request.Context()))
}

// Get returns the receipt of a sale. With format=escpos the raw printer
// stream is sent instead, for clients that drive their own printer.
func (h *ReceiptHandler) Get(c *gin.Context) {
	receipt, err := h.receiptService.SaleReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Query("format") == "escpos" {
		c.Header("Content-Disposition", `attachment; filename="receipt-`+receipt.SaleID+`.bin"`)
		c.Data(http.StatusOK, ESCPOSContentType, service.FormatReceipt(receipt, h.width))
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Print sends the receipt of a sale to the configured printer.
func (h *ReceiptHandler) Print(c *gin.Context) {
	receipt, err := h.receiptService.PrintSaleReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		// The receipt was built but printing failed
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}
