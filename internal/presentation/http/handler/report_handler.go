package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// ReportHandler serves spreadsheet reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CashFlow handles downloading the cash-flow report
func (h *ReportHandler) CashFlow(c *gin.Context) {
	h.serve(c, h.reportService.CashFlowReport)
}

// Sales handles downloading the sales report
func (h *ReportHandler) Sales(c *gin.Context) {
	h.serve(c, h.reportService.SalesReport)
}

// Purchases handles downloading the purchases report
func (h *ReportHandler) Purchases(c *gin.Context) {
	h.serve(c, h.reportService.PurchasesReport)
}

func (h *ReportHandler) serve(c *gin.Context, render func(context.Context, service.DateRange) (*service.Report, error)) {
	window, err := GetDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := render(c.Request.Context(), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, service.XLSXContentType, report.Content)
}
