package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitadmin/gym_management_app/internal/apperrors"
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	portssvc "github.com/fitadmin/gym_management_app/internal/core/ports/services"
	"github.com/fitadmin/gym_management_app/internal/dto"
	"github.com/fitadmin/gym_management_app/internal/handlers"
	"github.com/fitadmin/gym_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TaxService ---
type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) Calculate(subtotal decimal.Decimal, jurisdictionCode string, isSmallSupplier bool) (domain.TaxBreakdown, error) {
	args := m.Called(subtotal, jurisdictionCode, isSmallSupplier)
	return args.Get(0).(domain.TaxBreakdown), args.Error(1)
}
func (m *MockTaxService) CalculateFromStoredRule(subtotal decimal.Decimal, rule domain.JurisdictionTaxRule, isSmallSupplier bool) domain.TaxBreakdown {
	args := m.Called(subtotal, rule, isSmallSupplier)
	return args.Get(0).(domain.TaxBreakdown)
}
func (m *MockTaxService) CalculateForTenant(ctx context.Context, tenantID string, subtotal decimal.Decimal) (domain.TaxBreakdown, error) {
	args := m.Called(ctx, tenantID, subtotal)
	return args.Get(0).(domain.TaxBreakdown), args.Error(1)
}
func (m *MockTaxService) RateRulesFor(jurisdictionCode string) (domain.JurisdictionTaxRule, error) {
	args := m.Called(jurisdictionCode)
	return args.Get(0).(domain.JurisdictionTaxRule), args.Error(1)
}
func (m *MockTaxService) ListJurisdictions() []domain.JurisdictionTaxRule {
	args := m.Called()
	return args.Get(0).([]domain.JurisdictionTaxRule)
}
func (m *MockTaxService) GetTenantConfig(ctx context.Context, tenantID string) (*domain.TenantTaxConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantTaxConfig), args.Error(1)
}
func (m *MockTaxService) UpdateTenantConfig(ctx context.Context, tenantID string, req dto.UpdateTaxConfigRequest, updaterUserID string) (*domain.TenantTaxConfig, error) {
	args := m.Called(ctx, tenantID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantTaxConfig), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TaxSvcFacade = (*MockTaxService)(nil)

// --- Test Suite ---
type TaxHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockTaxService *MockTaxService
	jwtSecret      string
	tenantID       string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *TaxHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "gma-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *TaxHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.tenantID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockTaxService = new(MockTaxService)

	v1 := suite.router.Group("/api/v1/tenants/:tenant_id")
	handlers.RegisterTaxRoutes(v1, suite.mockTaxService)
}

func (suite *TaxHandlerTestSuite) performRequest(method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TaxHandlerTestSuite) TestCalculateTax_ExplicitJurisdiction() {
	token := suite.generateTestToken(uuid.NewString())
	subtotal := decimal.RequireFromString("100.00")
	breakdown := domain.TaxBreakdown{
		Subtotal: subtotal,
		HST:      decimal.RequireFromString("13.00"),
		TaxTotal: decimal.RequireFromString("13.00"),
		Total:    decimal.RequireFromString("113.00"),
	}

	suite.mockTaxService.On("Calculate", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(subtotal)
	}), "ON", false).Return(breakdown, nil).Once()

	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/tenants/%s/tax/calculate", suite.tenantID),
		token,
		`{"subtotal": "100.00", "jurisdictionCode": "ON"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TaxBreakdownResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Total.Equal(decimal.RequireFromString("113.00")))
	suite.mockTaxService.AssertExpectations(suite.T())
}

func (suite *TaxHandlerTestSuite) TestCalculateTax_FallsBackToTenantConfig() {
	token := suite.generateTestToken(uuid.NewString())
	breakdown := domain.TaxBreakdown{
		Subtotal: decimal.RequireFromString("50.00"),
		GST:      decimal.RequireFromString("2.50"),
		TaxTotal: decimal.RequireFromString("2.50"),
		Total:    decimal.RequireFromString("52.50"),
	}

	suite.mockTaxService.On("CalculateForTenant", mock.Anything, suite.tenantID, mock.Anything).
		Return(breakdown, nil).Once()

	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/tenants/%s/tax/calculate", suite.tenantID),
		token,
		`{"subtotal": "50.00"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTaxService.AssertExpectations(suite.T())
}

func (suite *TaxHandlerTestSuite) TestCalculateTax_RequiresAuth() {
	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/tenants/%s/tax/calculate", suite.tenantID),
		"",
		`{"subtotal": "100.00"}`)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTaxService.AssertNotCalled(suite.T(), "Calculate")
}

func (suite *TaxHandlerTestSuite) TestCalculateTax_MissingSubtotalRejected() {
	token := suite.generateTestToken(uuid.NewString())

	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/tenants/%s/tax/calculate", suite.tenantID),
		token,
		`{"jurisdictionCode": "ON"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTaxService.AssertNotCalled(suite.T(), "Calculate")
}

func (suite *TaxHandlerTestSuite) TestValidateTaxID_ValidGST() {
	token := suite.generateTestToken(uuid.NewString())

	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/tenants/%s/tax/validate-id", suite.tenantID),
		token,
		`{"type": "gst", "number": "123456782RT0001"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TaxIDValidationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Valid)
	suite.Equal("123 456 782 RT 0001", resp.Formatted)
}

func (suite *TaxHandlerTestSuite) TestValidateTaxID_InvalidChecksumIsOKFalse() {
	token := suite.generateTestToken(uuid.NewString())

	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/tenants/%s/tax/validate-id", suite.tenantID),
		token,
		`{"type": "gst", "number": "123456789RT0001"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TaxIDValidationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Valid)
	suite.NotEmpty(resp.Reason)
}

func (suite *TaxHandlerTestSuite) TestGetTaxConfig_NotFound() {
	token := suite.generateTestToken(uuid.NewString())

	suite.mockTaxService.On("GetTenantConfig", mock.Anything, suite.tenantID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/tenants/%s/tax/config", suite.tenantID),
		token, "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockTaxService.AssertExpectations(suite.T())
}

func (suite *TaxHandlerTestSuite) TestUpdateTaxConfig_PassesAuthenticatedUser() {
	userID := uuid.NewString()
	token := suite.generateTestToken(userID)
	config := &domain.TenantTaxConfig{
		TenantID:         suite.tenantID,
		JurisdictionCode: "ON",
	}

	suite.mockTaxService.On("UpdateTenantConfig", mock.Anything, suite.tenantID, mock.AnythingOfType("dto.UpdateTaxConfigRequest"), userID).
		Return(config, nil).Once()

	w := suite.performRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/tenants/%s/tax/config", suite.tenantID),
		token,
		`{"jurisdictionCode": "ON"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTaxService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestTaxHandler(t *testing.T) {
	suite.Run(t, new(TaxHandlerTestSuite))
}
