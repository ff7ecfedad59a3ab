package handlers

import (
	"errors"
	"net/http"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/fitadmin/gym_management_app/internal/middleware"
	"github.com/fitadmin/gym_management_app/internal/utils/taxid"
	"github.com/gin-gonic/gin"
)

// taxHandler handles HTTP requests related to tax calculation and configuration
type taxHandler struct {
	taxService portssvc.TaxSvcFacade
}

// newTaxHandler creates a new taxHandler
func newTaxHandler(ts portssvc.TaxSvcFacade) *taxHandler {
	return &taxHandler{taxService: ts}
}

// RegisterTaxRoutes registers routes related to tax operations
func RegisterTaxRoutes(rg *gin.RouterGroup, taxService portssvc.TaxSvcFacade) {
	h := newTaxHandler(taxService)

	taxGroup := rg.Group("/tax")
	{
		taxGroup.GET("/jurisdictions", h.listJurisdictions)
		taxGroup.POST("/calculate", h.calculateTax)
		taxGroup.POST("/validate-id", h.validateTaxID)
		taxGroup.GET("/config", h.getTaxConfig)
		taxGroup.PUT("/config", h.updateTaxConfig)
	}
}

// listJurisdictions returns every jurisdiction rule for settings UIs.
func (h *taxHandler) listJurisdictions(c *gin.Context) {
	rules := h.taxService.ListJurisdictions()
	c.JSON(http.StatusOK, dto.ToListJurisdictionResponse(rules))
}

// calculateTax computes a tax breakdown for a subtotal. When the request omits
// the jurisdiction, the tenant's stored configuration supplies it.
func (h *taxHandler) calculateTax(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid tax calculation request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var breakdown domain.TaxBreakdown
	var err error
	if req.JurisdictionCode == "" {
		breakdown, err = h.taxService.CalculateForTenant(c.Request.Context(), tenantID, req.Subtotal)
	} else {
		smallSupplier := req.IsSmallSupplier != nil && *req.IsSmallSupplier
		breakdown, err = h.taxService.Calculate(req.Subtotal, req.JurisdictionCode, smallSupplier)
	}
	if err != nil {
		handleTaxError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxBreakdownResponse(breakdown))
}

// validateTaxID checks a registration number's format and checksum. Invalid
// numbers are a 200 response with valid=false; they are expected user input,
// not faults.
func (h *taxHandler) validateTaxID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ValidateTaxIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid tax ID validation request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var result taxid.ValidationResult
	var formatted string
	switch req.Type {
	case "qst":
		result = taxid.ValidateQSTNumber(req.Number)
	default:
		result = taxid.ValidateGSTNumber(req.Number)
		if result.Valid {
			formatted = taxid.FormatGSTNumber(req.Number)
		}
	}

	c.JSON(http.StatusOK, dto.ToTaxIDValidationResponse(result, formatted))
}

// getTaxConfig returns the tenant's tax configuration.
func (h *taxHandler) getTaxConfig(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	config, err := h.taxService.GetTenantConfig(c.Request.Context(), tenantID)
	if err != nil {
		handleTaxError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxConfigResponse(config))
}

// updateTaxConfig validates and saves the tenant's tax configuration.
func (h *taxHandler) updateTaxConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req dto.UpdateTaxConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid tax config request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	config, err := h.taxService.UpdateTenantConfig(c.Request.Context(), tenantID, req, updaterUserID)
	if err != nil {
		handleTaxError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxConfigResponse(config))
}

// handleTaxError maps tax service errors onto HTTP statuses.
func handleTaxError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnknownJurisdiction):
		// A bad jurisdiction means corrupt tenant configuration, not user input.
		logger.Error("Unknown jurisdiction in tax operation", "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tax configuration not found"})
	default:
		logger.Error("Tax operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process tax operation"})
	}
}
