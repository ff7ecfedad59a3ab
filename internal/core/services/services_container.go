package services

import (
	portsrepo "github.com/fitadmin/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, rateSource portssvc.RateSource) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Tax = NewTaxService(repos.TenantSettingsRepo)
	container.Currency = NewCurrencyService(repos.TenantSettingsRepo, rateSource)
	container.Reporting = NewReportingService(repos.FinancialDataRepo)

	return container
}
