package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service container at startup.
type RepositoryProvider struct {
	TenantSettingsRepo TenantSettingsRepository
	FinancialDataRepo  FinancialDataRepository
}
