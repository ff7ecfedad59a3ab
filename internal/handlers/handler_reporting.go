package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/fitadmin/gym_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// queryDateFormat is the layout accepted for report period query params.
const queryDateFormat = "2006-01-02"

// reportingHandler handles HTTP requests for financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/profit-and-loss", h.profitAndLoss)
		reportsGroup.GET("/cash-flow", h.cashFlow)
		reportsGroup.GET("/revenue-breakdown", h.revenueBreakdown)
		reportsGroup.GET("/tax-remittance", h.taxRemittance)
	}
}

// extractPeriod parses the from/to query params. Missing params default to the
// trailing 30 days ending today, matching the dashboard's initial view.
func extractPeriod(c *gin.Context) (domain.Period, error) {
	now := time.Now().UTC()
	period := domain.Period{
		Start: now.AddDate(0, 0, -30),
		End:   now,
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(queryDateFormat, fromStr)
		if err != nil {
			return domain.Period{}, err
		}
		period.Start = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(queryDateFormat, toStr)
		if err != nil {
			return domain.Period{}, err
		}
		// Include the whole closing day.
		period.End = to.Add(24*time.Hour - time.Nanosecond)
	}
	return period, nil
}

// profitAndLoss returns the P&L report for the requested period.
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	period, err := extractPeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD: " + err.Error()})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), tenantID, period)
	if err != nil {
		handleReportingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report, period))
}

// cashFlow returns the cash flow report at the requested granularity.
func (h *reportingHandler) cashFlow(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	period, err := extractPeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD: " + err.Error()})
		return
	}

	granularity := domain.Granularity(c.DefaultQuery("granularity", string(domain.GranularityMonth)))

	report, err := h.reportingService.CashFlow(c.Request.Context(), tenantID, period, granularity)
	if err != nil {
		handleReportingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCashFlowResponse(report, period, granularity))
}

// revenueBreakdown returns revenue split by source and plan with a trend series.
func (h *reportingHandler) revenueBreakdown(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	period, err := extractPeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD: " + err.Error()})
		return
	}

	report, err := h.reportingService.RevenueBreakdown(c.Request.Context(), tenantID, period)
	if err != nil {
		handleReportingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRevenueBreakdownResponse(report, period))
}

// taxRemittance returns collected-versus-claimable tax netting for the period.
func (h *reportingHandler) taxRemittance(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	period, err := extractPeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD: " + err.Error()})
		return
	}

	report, err := h.reportingService.TaxRemittance(c.Request.Context(), tenantID, period)
	if err != nil {
		handleReportingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxRemittanceResponse(report, period))
}

// handleReportingError maps reporting service errors onto HTTP statuses.
func handleReportingError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrInvalidPeriod), errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Report generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
	}
}
