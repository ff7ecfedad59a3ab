package services_test

import (
	"context"
	"testing"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/core/services"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockTenantSettingsRepository is a mock type for the TenantSettingsRepository interface
type MockTenantSettingsRepository struct {
	mock.Mock
}

func (m *MockTenantSettingsRepository) FindTaxConfig(ctx context.Context, tenantID string) (*domain.TenantTaxConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantTaxConfig), args.Error(1)
}

func (m *MockTenantSettingsRepository) SaveTaxConfig(ctx context.Context, config domain.TenantTaxConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockTenantSettingsRepository) FindCurrencySettings(ctx context.Context, tenantID string) (*domain.TenantCurrencySettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantCurrencySettings), args.Error(1)
}

func (m *MockTenantSettingsRepository) SaveCurrencySettings(ctx context.Context, settings domain.TenantCurrencySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// --- Test Suite Setup ---

type TaxServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTenantSettingsRepository
	service  portssvc.TaxSvcFacade
}

func (suite *TaxServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTenantSettingsRepository)
	suite.service = services.NewTaxService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *TaxServiceTestSuite) TestCalculate_OntarioHST() {
	subtotal := decimal.RequireFromString("100.00")

	breakdown, err := suite.service.Calculate(subtotal, "ON", false)

	suite.Require().NoError(err)
	suite.True(breakdown.HST.Equal(decimal.RequireFromString("13.00")), "HST was %s", breakdown.HST)
	suite.True(breakdown.GST.IsZero())
	suite.True(breakdown.PST.IsZero())
	suite.True(breakdown.QST.IsZero())
	suite.True(breakdown.TaxTotal.Equal(decimal.RequireFromString("13.00")))
	suite.True(breakdown.Total.Equal(decimal.RequireFromString("113.00")))
}

func (suite *TaxServiceTestSuite) TestCalculate_QuebecGSTAndQSTOnSubtotal() {
	subtotal := decimal.RequireFromString("100.00")

	breakdown, err := suite.service.Calculate(subtotal, "QC", false)

	suite.Require().NoError(err)
	suite.True(breakdown.GST.Equal(decimal.RequireFromString("5.00")), "GST was %s", breakdown.GST)
	// QST applies to the pre-tax subtotal: 100 * 0.09975 rounds to 9.98.
	suite.True(breakdown.QST.Equal(decimal.RequireFromString("9.98")), "QST was %s", breakdown.QST)
	suite.True(breakdown.TaxTotal.Equal(decimal.RequireFromString("14.98")))
	suite.True(breakdown.Total.Equal(decimal.RequireFromString("114.98")))
}

func (suite *TaxServiceTestSuite) TestCalculate_BCSplitsGSTAndPST() {
	subtotal := decimal.RequireFromString("49.99")

	breakdown, err := suite.service.Calculate(subtotal, "BC", false)

	suite.Require().NoError(err)
	suite.True(breakdown.GST.Equal(decimal.RequireFromString("2.50")), "GST was %s", breakdown.GST)
	suite.True(breakdown.PST.Equal(decimal.RequireFromString("3.50")), "PST was %s", breakdown.PST)
	suite.True(breakdown.HST.IsZero())
	suite.True(breakdown.Total.Equal(subtotal.Add(breakdown.TaxTotal)))
}

func (suite *TaxServiceTestSuite) TestCalculate_SmallSupplierChargesNothing() {
	subtotal := decimal.RequireFromString("500.00")

	breakdown, err := suite.service.Calculate(subtotal, "BC", true)

	suite.Require().NoError(err)
	suite.True(breakdown.TaxTotal.IsZero())
	suite.True(breakdown.Total.Equal(subtotal))
}

func (suite *TaxServiceTestSuite) TestCalculate_UnknownJurisdiction() {
	_, err := suite.service.Calculate(decimal.RequireFromString("10.00"), "XX", false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownJurisdiction)
}

func (suite *TaxServiceTestSuite) TestCalculate_CompositionMatchesComponents() {
	subtotal := decimal.RequireFromString("250.00")

	for _, rule := range suite.service.ListJurisdictions() {
		breakdown, err := suite.service.Calculate(subtotal, rule.Code, false)
		suite.Require().NoError(err)

		switch rule.Composition {
		case domain.CompositionHST:
			suite.False(breakdown.HST.IsZero(), "expected HST for %s", rule.Code)
			suite.True(breakdown.GST.IsZero(), "unexpected GST for %s", rule.Code)
			suite.True(breakdown.PST.IsZero(), "unexpected PST for %s", rule.Code)
			suite.True(breakdown.QST.IsZero(), "unexpected QST for %s", rule.Code)
		case domain.CompositionGSTPST:
			suite.False(breakdown.GST.IsZero(), "expected GST for %s", rule.Code)
			suite.False(breakdown.PST.IsZero(), "expected PST for %s", rule.Code)
			suite.True(breakdown.HST.IsZero(), "unexpected HST for %s", rule.Code)
		case domain.CompositionGSTQST:
			suite.False(breakdown.GST.IsZero(), "expected GST for %s", rule.Code)
			suite.False(breakdown.QST.IsZero(), "expected QST for %s", rule.Code)
			suite.True(breakdown.PST.IsZero(), "unexpected PST for %s", rule.Code)
		case domain.CompositionGSTOnly:
			suite.False(breakdown.GST.IsZero(), "expected GST for %s", rule.Code)
			suite.True(breakdown.PST.IsZero(), "unexpected PST for %s", rule.Code)
			suite.True(breakdown.HST.IsZero(), "unexpected HST for %s", rule.Code)
			suite.True(breakdown.QST.IsZero(), "unexpected QST for %s", rule.Code)
		}

		suite.True(breakdown.TaxTotal.Equal(breakdown.GST.Add(breakdown.PST).Add(breakdown.HST).Add(breakdown.QST)))
		suite.True(breakdown.Total.Equal(breakdown.Subtotal.Add(breakdown.TaxTotal)))
	}
}

func (suite *TaxServiceTestSuite) TestCalculateForTenant_UsesStoredConfig() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	config := &domain.TenantTaxConfig{
		TenantID:         tenantID,
		JurisdictionCode: "ON",
		IsSmallSupplier:  false,
	}

	suite.mockRepo.On("FindTaxConfig", ctx, tenantID).Return(config, nil).Once()

	breakdown, err := suite.service.CalculateForTenant(ctx, tenantID, decimal.RequireFromString("100.00"))

	suite.Require().NoError(err)
	suite.True(breakdown.HST.Equal(decimal.RequireFromString("13.00")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxServiceTestSuite) TestCalculateForTenant_ConfigNotFound() {
	ctx := context.Background()
	tenantID := uuid.NewString()

	suite.mockRepo.On("FindTaxConfig", ctx, tenantID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CalculateForTenant(ctx, tenantID, decimal.RequireFromString("100.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxServiceTestSuite) TestListJurisdictions_SortedAndComplete() {
	rules := suite.service.ListJurisdictions()

	suite.Len(rules, 13)
	for i := 1; i < len(rules); i++ {
		suite.Less(rules[i-1].Code, rules[i].Code)
	}
}

func (suite *TaxServiceTestSuite) TestUpdateTenantConfig_Success() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	updaterUserID := uuid.NewString()
	req := dto.UpdateTaxConfigRequest{
		JurisdictionCode: "QC",
		GSTNumber:        "123456782 RT 0001",
		QSTNumber:        "1234567890TQ0001",
		IsSmallSupplier:  false,
	}

	suite.mockRepo.On("SaveTaxConfig", ctx, mock.AnythingOfType("domain.TenantTaxConfig")).Return(nil).Once()

	config, err := suite.service.UpdateTenantConfig(ctx, tenantID, req, updaterUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(config)
	suite.Equal("QC", config.JurisdictionCode)
	// Stored numbers are normalized, whitespace stripped.
	suite.Equal("123456782RT0001", config.GSTNumber)
	suite.Equal(updaterUserID, config.CreatedBy)
	suite.Equal(updaterUserID, config.LastUpdatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxServiceTestSuite) TestUpdateTenantConfig_RejectsBadJurisdiction() {
	ctx := context.Background()
	req := dto.UpdateTaxConfigRequest{JurisdictionCode: "ZZ"}

	config, err := suite.service.UpdateTenantConfig(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(config)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTaxConfig")
}

func (suite *TaxServiceTestSuite) TestUpdateTenantConfig_RejectsBadChecksum() {
	ctx := context.Background()
	req := dto.UpdateTaxConfigRequest{
		JurisdictionCode: "ON",
		GSTNumber:        "123456789RT0001",
	}

	config, err := suite.service.UpdateTenantConfig(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(config)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTaxConfig")
}

// --- Run Test Suite ---

func TestTaxService(t *testing.T) {
	suite.Run(t, new(TaxServiceTestSuite))
}
