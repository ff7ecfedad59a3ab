package dto

import (
	"github.com/fitadmin/gym_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// reportDateFormat is the rendering used for report boundary dates.
const reportDateFormat = "2006-01-02"

// ProfitAndLossResponse represents the profit and loss report response.
type ProfitAndLossResponse struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
	Revenue  struct {
		Subscriptions decimal.Decimal `json:"subscriptions"`
		OneTime       decimal.Decimal `json:"oneTime"`
		Total         decimal.Decimal `json:"total"`
	} `json:"revenue"`
	Expenses struct {
		Operational decimal.Decimal `json:"operational"`
		Payroll     decimal.Decimal `json:"payroll"`
		Refunds     decimal.Decimal `json:"refunds"`
		Total       decimal.Decimal `json:"total"`
	} `json:"expenses"`
	Summary struct {
		NetIncome decimal.Decimal `json:"netIncome"`
		Margin    decimal.Decimal `json:"margin"`
	} `json:"summary"`
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response.
func ToProfitAndLossResponse(report *domain.PnLReport, period domain.Period) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: period.Start.Format(reportDateFormat),
		ToDate:   period.End.Format(reportDateFormat),
	}
	response.Revenue.Subscriptions = report.SubscriptionRevenue
	response.Revenue.OneTime = report.OneTimeRevenue
	response.Revenue.Total = report.TotalRevenue
	response.Expenses.Operational = report.OperationalExpenses
	response.Expenses.Payroll = report.PayrollExpenses
	response.Expenses.Refunds = report.Refunds
	response.Expenses.Total = report.TotalExpenses
	response.Summary.NetIncome = report.NetIncome
	response.Summary.Margin = report.Margin
	return response
}

// CashFlowBucketResponse represents one period bucket in the cash flow response.
type CashFlowBucketResponse struct {
	Period  string          `json:"period"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowResponse represents the cash flow report response.
type CashFlowResponse struct {
	FromDate    string                   `json:"fromDate"`
	ToDate      string                   `json:"toDate"`
	Granularity string                   `json:"granularity"`
	ByPeriod    []CashFlowBucketResponse `json:"byPeriod"`
	Totals      struct {
		Inflow  decimal.Decimal `json:"inflow"`
		Outflow decimal.Decimal `json:"outflow"`
		Net     decimal.Decimal `json:"net"`
	} `json:"totals"`
}

// ToCashFlowResponse converts a domain cash flow report to a DTO response.
func ToCashFlowResponse(report *domain.CashFlowReport, period domain.Period, granularity domain.Granularity) CashFlowResponse {
	response := CashFlowResponse{
		FromDate:    period.Start.Format(reportDateFormat),
		ToDate:      period.End.Format(reportDateFormat),
		Granularity: string(granularity),
		ByPeriod:    make([]CashFlowBucketResponse, len(report.ByPeriod)),
	}
	for i, bucket := range report.ByPeriod {
		response.ByPeriod[i] = CashFlowBucketResponse{
			Period:  bucket.Key,
			Inflow:  bucket.Inflow,
			Outflow: bucket.Outflow,
			Net:     bucket.Net,
		}
	}
	response.Totals.Inflow = report.TotalInflow
	response.Totals.Outflow = report.TotalOutflow
	response.Totals.Net = report.NetCashFlow
	return response
}

// RevenueSourceResponse represents one row of the by-source revenue split.
type RevenueSourceResponse struct {
	Source     string          `json:"source"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"transactionCount"`
}

// PlanRevenueResponse represents one row of the by-plan revenue split.
type PlanRevenueResponse struct {
	PlanID            string          `json:"planID"`
	PlanName          string          `json:"planName"`
	Amount            decimal.Decimal `json:"amount"`
	Percentage        decimal.Decimal `json:"percentage"`
	ActiveSubscribers int             `json:"activeSubscribers"`
}

// RevenueTrendPointResponse represents one month of the revenue trend series.
type RevenueTrendPointResponse struct {
	Period        string          `json:"period"`
	Subscriptions decimal.Decimal `json:"subscriptions"`
	OneTime       decimal.Decimal `json:"oneTime"`
	Total         decimal.Decimal `json:"total"`
}

// RevenueBreakdownResponse represents the revenue breakdown report response.
type RevenueBreakdownResponse struct {
	FromDate     string                      `json:"fromDate"`
	ToDate       string                      `json:"toDate"`
	TotalRevenue decimal.Decimal             `json:"totalRevenue"`
	BySource     []RevenueSourceResponse     `json:"bySource"`
	ByPlan       []PlanRevenueResponse       `json:"byPlan"`
	MonthlyTrend []RevenueTrendPointResponse `json:"monthlyTrend"`
}

// ToRevenueBreakdownResponse converts a domain revenue breakdown to a DTO response.
func ToRevenueBreakdownResponse(report *domain.RevenueBreakdownReport, period domain.Period) RevenueBreakdownResponse {
	response := RevenueBreakdownResponse{
		FromDate:     period.Start.Format(reportDateFormat),
		ToDate:       period.End.Format(reportDateFormat),
		TotalRevenue: report.TotalRevenue,
		BySource:     make([]RevenueSourceResponse, len(report.BySource)),
		ByPlan:       make([]PlanRevenueResponse, len(report.ByPlan)),
		MonthlyTrend: make([]RevenueTrendPointResponse, len(report.MonthlyTrend)),
	}
	for i, source := range report.BySource {
		response.BySource[i] = RevenueSourceResponse{
			Source:     source.Source,
			Amount:     source.Amount,
			Percentage: source.Percentage,
			Count:      source.Count,
		}
	}
	for i, plan := range report.ByPlan {
		response.ByPlan[i] = PlanRevenueResponse{
			PlanID:            plan.PlanID,
			PlanName:          plan.PlanName,
			Amount:            plan.Amount,
			Percentage:        plan.Percentage,
			ActiveSubscribers: plan.ActiveSubscribers,
		}
	}
	for i, point := range report.MonthlyTrend {
		response.MonthlyTrend[i] = RevenueTrendPointResponse{
			Period:        point.Period,
			Subscriptions: point.Subscriptions,
			OneTime:       point.OneTime,
			Total:         point.Total,
		}
	}
	return response
}

// TaxRemittanceLineResponse represents one remittance authority's netting.
type TaxRemittanceLineResponse struct {
	Collected decimal.Decimal `json:"collected"`
	Claimable decimal.Decimal `json:"claimable"`
	NetOwing  decimal.Decimal `json:"netOwing"`
}

// TaxRemittanceResponse represents the tax remittance report response.
type TaxRemittanceResponse struct {
	FromDate     string                    `json:"fromDate"`
	ToDate       string                    `json:"toDate"`
	GSTHST       TaxRemittanceLineResponse `json:"gstHst"`
	QST          TaxRemittanceLineResponse `json:"qst"`
	InvoiceCount int                       `json:"invoiceCount"`
	ExpenseCount int                       `json:"expenseCount"`
}

// ToTaxRemittanceResponse converts a domain tax remittance report to a DTO response.
func ToTaxRemittanceResponse(report *domain.TaxRemittanceReport, period domain.Period) TaxRemittanceResponse {
	return TaxRemittanceResponse{
		FromDate: period.Start.Format(reportDateFormat),
		ToDate:   period.End.Format(reportDateFormat),
		GSTHST: TaxRemittanceLineResponse{
			Collected: report.GSTHST.Collected,
			Claimable: report.GSTHST.Claimable,
			NetOwing:  report.GSTHST.NetOwing,
		},
		QST: TaxRemittanceLineResponse{
			Collected: report.QST.Collected,
			Claimable: report.QST.Claimable,
			NetOwing:  report.QST.NetOwing,
		},
		InvoiceCount: report.InvoiceCount,
		ExpenseCount: report.ExpenseCount,
	}
}
