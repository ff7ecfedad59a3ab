package handlers

import (
	"regexp"

	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/middleware"
	"github.com/fitadmin/gym_management_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// currencyCodePattern matches a three-letter uppercase ISO 4217 style code.
var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// registerCustomValidations adds the binding validations the DTOs rely on.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return currencyCodePattern.MatchString(fl.Field().String())
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerExampleRoutes(v1)

	// Routes specific to a single tenant (identified by tenant_id)
	tenantSpecific := v1.Group("/tenants/:tenant_id")
	{
		RegisterTaxRoutes(tenantSpecific, services.Tax)
		registerCurrencyRoutes(tenantSpecific, services.Currency)
		registerReportingRoutes(tenantSpecific, services.Reporting)
	}
}
