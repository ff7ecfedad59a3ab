package handlers

import (
	"errors"
	"net/http"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/fitadmin/gym_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currency conversion and settings
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: cs}
}

// registerCurrencyRoutes registers routes related to currency operations
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencyGroup := rg.Group("/currency")
	{
		currencyGroup.POST("/convert", h.convert)
		currencyGroup.GET("/settings", h.getSettings)
		currencyGroup.PUT("/settings", h.updateSettings)
		currencyGroup.POST("/rates/refresh", h.refreshRates)
	}
}

// convert converts an amount between two enabled currencies at the tenant's
// effective rates.
func (h *currencyHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.ConvertCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid conversion request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.currencyService.Convert(c.Request.Context(), tenantID, req.Amount, req.FromCurrency, req.ToCurrency)
	if err != nil {
		handleCurrencyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConversionResultResponse(result))
}

// getSettings returns the tenant's currency settings.
func (h *currencyHandler) getSettings(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	settings, err := h.currencyService.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		handleCurrencyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencySettingsResponse(settings))
}

// updateSettings validates and saves the tenant's currency settings.
func (h *currencyHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.UpdateCurrencySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid currency settings request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	settings, err := h.currencyService.UpdateSettings(c.Request.Context(), tenantID, req, updaterUserID)
	if err != nil {
		handleCurrencyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencySettingsResponse(settings))
}

// refreshRates pulls the live feed into the tenant's stored rates. A feed
// outage is reported as refreshed=false, not as an error.
func (h *currencyHandler) refreshRates(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	settings, refreshed, err := h.currencyService.RefreshRates(c.Request.Context(), tenantID, updaterUserID)
	if err != nil {
		handleCurrencyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RateRefreshResponse{
		Refreshed: refreshed,
		Settings:  dto.ToCurrencySettingsResponse(settings),
	})
}

// handleCurrencyError maps currency service errors onto HTTP statuses.
func handleCurrencyError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnsupportedCurrency):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Currency settings not found"})
	default:
		logger.Error("Currency operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process currency operation"})
	}
}
