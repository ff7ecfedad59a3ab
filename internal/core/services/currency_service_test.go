package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/core/services"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockRateSource is a mock type for the RateSource interface
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchLatest(ctx context.Context) *domain.RateSnapshot {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.RateSnapshot)
}

// --- Test Suite Setup ---

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockTenantSettingsRepository
	mockSource *MockRateSource
	service    portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTenantSettingsRepository)
	suite.mockSource = new(MockRateSource)
	suite.service = services.NewCurrencyService(suite.mockRepo, suite.mockSource)
}

func (suite *CurrencyServiceTestSuite) manualSettings(tenantID string) *domain.TenantCurrencySettings {
	return &domain.TenantCurrencySettings{
		TenantID:          tenantID,
		BaseCurrency:      "CAD",
		EnabledCurrencies: []string{"CAD", "USD", "EUR"},
		ManualRates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.35"),
			"EUR": decimal.RequireFromString("1.45"),
		},
		UseAutoRates:   false,
		LastRateUpdate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- Test Cases ---

func (suite *CurrencyServiceTestSuite) TestConvertAmount_SameCurrencyIsIdentity() {
	amount := decimal.RequireFromString("123.456")
	snapshot := domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates:        map[string]decimal.Decimal{"USD": decimal.RequireFromString("1.35")},
		ObservedAt:   time.Now(),
	}

	result, err := suite.service.ConvertAmount(amount, "USD", "USD", snapshot)

	suite.Require().NoError(err)
	suite.True(result.ToAmount.Equal(amount))
	suite.True(result.Rate.Equal(decimal.NewFromInt(1)))
}

func (suite *CurrencyServiceTestSuite) TestConvertAmount_TriangulatesThroughBase() {
	snapshot := domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.35"),
			"EUR": decimal.RequireFromString("1.45"),
		},
		ObservedAt: time.Now(),
	}

	result, err := suite.service.ConvertAmount(decimal.RequireFromString("100.00"), "USD", "EUR", snapshot)

	suite.Require().NoError(err)
	// 100 USD -> 135 CAD -> 135/1.45 EUR = 93.10 after rounding to cents.
	suite.True(result.ToAmount.Equal(decimal.RequireFromString("93.10")), "ToAmount was %s", result.ToAmount)
	suite.True(result.Rate.Equal(decimal.RequireFromString("0.931034")), "Rate was %s", result.Rate)
}

func (suite *CurrencyServiceTestSuite) TestConvertAmount_ZeroAmountStillReportsRate() {
	snapshot := domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.35"),
			"EUR": decimal.RequireFromString("1.45"),
		},
		ObservedAt: time.Now(),
	}

	result, err := suite.service.ConvertAmount(decimal.Zero, "USD", "EUR", snapshot)

	suite.Require().NoError(err)
	suite.True(result.ToAmount.IsZero())
	suite.True(result.Rate.Equal(decimal.RequireFromString("0.931034")))
}

func (suite *CurrencyServiceTestSuite) TestConvertAmount_RoundTripStaysWithinTwoCents() {
	snapshot := domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.35"),
			"EUR": decimal.RequireFromString("1.45"),
		},
		ObservedAt: time.Now(),
	}
	amount := decimal.RequireFromString("100.00")

	there, err := suite.service.ConvertAmount(amount, "USD", "EUR", snapshot)
	suite.Require().NoError(err)
	back, err := suite.service.ConvertAmount(there.ToAmount, "EUR", "USD", snapshot)
	suite.Require().NoError(err)

	drift := back.ToAmount.Sub(amount).Abs()
	suite.True(drift.LessThanOrEqual(decimal.RequireFromString("0.02")), "round trip drifted %s", drift)
}

func (suite *CurrencyServiceTestSuite) TestConvertAmount_MissingRateIsUnsupported() {
	snapshot := domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates:        map[string]decimal.Decimal{"USD": decimal.RequireFromString("1.35")},
		ObservedAt:   time.Now(),
	}

	_, err := suite.service.ConvertAmount(decimal.NewFromInt(10), "USD", "JPY", snapshot)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
}

func (suite *CurrencyServiceTestSuite) TestResolveRates_ManualFillsDocumentedDefaults() {
	settings := suite.manualSettings(uuid.NewString())
	settings.ManualRates = nil

	snapshot, refreshed := suite.service.ResolveRates(context.Background(), *settings)

	suite.False(refreshed)
	suite.Equal(domain.RateOriginManual, snapshot.Origin)
	suite.True(snapshot.Rates["USD"].Equal(decimal.RequireFromString("1.35")))
	suite.True(snapshot.Rates["EUR"].Equal(decimal.RequireFromString("1.45")))
	suite.True(snapshot.Rates["CAD"].Equal(decimal.NewFromInt(1)))
}

func (suite *CurrencyServiceTestSuite) TestResolveRates_FeedOutageFallsBackToStored() {
	settings := suite.manualSettings(uuid.NewString())
	settings.UseAutoRates = true
	settings.ManualRates["USD"] = decimal.RequireFromString("1.40")

	suite.mockSource.On("FetchLatest", mock.Anything).Return(nil).Once()

	snapshot, refreshed := suite.service.ResolveRates(context.Background(), *settings)

	suite.False(refreshed)
	suite.Equal(domain.RateOriginManual, snapshot.Origin)
	suite.True(snapshot.Rates["USD"].Equal(decimal.RequireFromString("1.40")))
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvert_DisabledCurrencyRejected() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	settings := suite.manualSettings(tenantID)

	suite.mockRepo.On("FindCurrencySettings", ctx, tenantID).Return(settings, nil).Once()

	_, err := suite.service.Convert(ctx, tenantID, decimal.NewFromInt(50), "USD", "JPY")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvert_AutoSnapshotPersistedBestEffort() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	settings := suite.manualSettings(tenantID)
	settings.UseAutoRates = true

	feed := &domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates: map[string]decimal.Decimal{
			"CAD": decimal.NewFromInt(1),
			"USD": decimal.RequireFromString("1.38"),
			"EUR": decimal.RequireFromString("1.47"),
		},
		ObservedAt: time.Now(),
		Origin:     domain.RateOriginAuto,
	}

	suite.mockRepo.On("FindCurrencySettings", ctx, tenantID).Return(settings, nil).Once()
	suite.mockSource.On("FetchLatest", mock.Anything).Return(feed).Once()
	suite.mockRepo.On("SaveCurrencySettings", ctx, mock.AnythingOfType("domain.TenantCurrencySettings")).Return(nil).Once()

	result, err := suite.service.Convert(ctx, tenantID, decimal.RequireFromString("100.00"), "CAD", "USD")

	suite.Require().NoError(err)
	// 100 CAD at 1.38 CAD per USD is 72.46 USD.
	suite.True(result.ToAmount.Equal(decimal.RequireFromString("72.46")), "ToAmount was %s", result.ToAmount)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestConvert_PersistFailureDoesNotFailConversion() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	settings := suite.manualSettings(tenantID)
	settings.UseAutoRates = true

	feed := &domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates: map[string]decimal.Decimal{
			"CAD": decimal.NewFromInt(1),
			"USD": decimal.RequireFromString("1.38"),
		},
		ObservedAt: time.Now(),
		Origin:     domain.RateOriginAuto,
	}

	suite.mockRepo.On("FindCurrencySettings", ctx, tenantID).Return(settings, nil).Once()
	suite.mockSource.On("FetchLatest", mock.Anything).Return(feed).Once()
	suite.mockRepo.On("SaveCurrencySettings", ctx, mock.AnythingOfType("domain.TenantCurrencySettings")).Return(assert.AnError).Once()

	result, err := suite.service.Convert(ctx, tenantID, decimal.RequireFromString("100.00"), "CAD", "USD")

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestRefreshRates_FeedOutageLeavesStoredRates() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	settings := suite.manualSettings(tenantID)

	suite.mockRepo.On("FindCurrencySettings", ctx, tenantID).Return(settings, nil).Once()
	suite.mockSource.On("FetchLatest", mock.Anything).Return(nil).Once()

	returned, refreshed, err := suite.service.RefreshRates(ctx, tenantID, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(refreshed)
	suite.Equal(settings, returned)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrencySettings")
}

func (suite *CurrencyServiceTestSuite) TestRefreshRates_PersistsFeedRates() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	settings := suite.manualSettings(tenantID)

	feed := &domain.RateSnapshot{
		BaseCurrency: "CAD",
		Rates: map[string]decimal.Decimal{
			"CAD": decimal.NewFromInt(1),
			"USD": decimal.RequireFromString("1.39"),
			"EUR": decimal.RequireFromString("1.48"),
		},
		ObservedAt: time.Now(),
		Origin:     domain.RateOriginAuto,
	}

	suite.mockRepo.On("FindCurrencySettings", ctx, tenantID).Return(settings, nil).Twice()
	suite.mockSource.On("FetchLatest", mock.Anything).Return(feed).Once()
	suite.mockRepo.On("SaveCurrencySettings", ctx, mock.MatchedBy(func(s domain.TenantCurrencySettings) bool {
		return s.ManualRates["USD"].Equal(decimal.RequireFromString("1.39"))
	})).Return(nil).Once()

	_, refreshed, err := suite.service.RefreshRates(ctx, tenantID, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(refreshed)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestUpdateSettings_BaseMustBeEnabled() {
	ctx := context.Background()
	req := dto.UpdateCurrencySettingsRequest{
		BaseCurrency:      "CAD",
		EnabledCurrencies: []string{"USD", "EUR"},
	}

	settings, err := suite.service.UpdateSettings(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settings)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrencySettings")
}

func (suite *CurrencyServiceTestSuite) TestUpdateSettings_RejectsNonPositiveRate() {
	ctx := context.Background()
	req := dto.UpdateCurrencySettingsRequest{
		BaseCurrency:      "CAD",
		EnabledCurrencies: []string{"CAD", "USD"},
		ManualRates: map[string]decimal.Decimal{
			"USD": decimal.Zero,
		},
	}

	settings, err := suite.service.UpdateSettings(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settings)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestUpdateSettings_Success() {
	ctx := context.Background()
	tenantID := uuid.NewString()
	updaterUserID := uuid.NewString()
	req := dto.UpdateCurrencySettingsRequest{
		BaseCurrency:      "CAD",
		EnabledCurrencies: []string{"CAD", "USD"},
		ManualRates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.36"),
		},
		UseAutoRates: true,
	}

	suite.mockRepo.On("SaveCurrencySettings", ctx, mock.AnythingOfType("domain.TenantCurrencySettings")).Return(nil).Once()

	settings, err := suite.service.UpdateSettings(ctx, tenantID, req, updaterUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(settings)
	suite.Equal(tenantID, settings.TenantID)
	suite.True(settings.UseAutoRates)
	suite.Equal(updaterUserID, settings.LastUpdatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
