package pgsql

import (
	portsrepo "github.com/fitadmin/gym_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	tenantSettingsRepo := newPgxTenantSettingsRepository(dbPool)
	financialDataRepo := newFinancialDataRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TenantSettingsRepo: tenantSettingsRepo,
		FinancialDataRepo:  financialDataRepo,
	}
}
