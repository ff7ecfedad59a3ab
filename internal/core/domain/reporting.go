package domain

import (
	"github.com/shopspring/decimal"
)

// PnLReport is a profit and loss summary for a period.
type PnLReport struct {
	SubscriptionRevenue decimal.Decimal `json:"subscriptionRevenue"`
	OneTimeRevenue      decimal.Decimal `json:"oneTimeRevenue"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	OperationalExpenses decimal.Decimal `json:"operationalExpenses"`
	PayrollExpenses     decimal.Decimal `json:"payrollExpenses"`
	Refunds             decimal.Decimal `json:"refunds"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NetIncome           decimal.Decimal `json:"netIncome"`
	// Margin is net income as a percentage of revenue; zero when there is no
	// revenue rather than a division fault.
	Margin decimal.Decimal `json:"margin"`
}

// CashFlowBucket is one period bucket in a cash-flow report. Key is the bucket
// date rendered per the requested granularity (day date, ISO-week start date,
// or month).
type CashFlowBucket struct {
	Key     string          `json:"period"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowReport is a bucketed inflow/outflow summary. The sums of the bucket
// columns equal the top-level totals exactly.
type CashFlowReport struct {
	TotalInflow  decimal.Decimal  `json:"totalInflow"`
	TotalOutflow decimal.Decimal  `json:"totalOutflow"`
	NetCashFlow  decimal.Decimal  `json:"netCashFlow"`
	ByPeriod     []CashFlowBucket `json:"byPeriod"`
}

// RevenueSource is one row of the by-source revenue split.
type RevenueSource struct {
	Source     string          `json:"source"` // "subscription" or "one_time"
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"transactionCount"`
}

// PlanRevenue is one row of the by-plan revenue split. ActiveSubscribers is the
// plan's current subscriber count, not the count during the report period.
type PlanRevenue struct {
	PlanID            string          `json:"planID"`
	PlanName          string          `json:"planName"`
	Amount            decimal.Decimal `json:"amount"`
	Percentage        decimal.Decimal `json:"percentage"`
	ActiveSubscribers int             `json:"activeSubscribers"`
}

// RevenueTrendPoint is one month of the revenue trend series.
type RevenueTrendPoint struct {
	Period        string          `json:"period"` // YYYY-MM
	Subscriptions decimal.Decimal `json:"subscriptions"`
	OneTime       decimal.Decimal `json:"oneTime"`
	Total         decimal.Decimal `json:"total"`
}

// RevenueBreakdownReport splits revenue by source and by membership plan.
type RevenueBreakdownReport struct {
	TotalRevenue decimal.Decimal     `json:"totalRevenue"`
	BySource     []RevenueSource     `json:"bySource"`
	ByPlan       []PlanRevenue       `json:"byPlan"`
	MonthlyTrend []RevenueTrendPoint `json:"monthlyTrend"`
}

// TaxRemittanceLine nets collected tax against claimable input tax credits for
// one remittance authority.
type TaxRemittanceLine struct {
	Collected decimal.Decimal `json:"collected"`
	Claimable decimal.Decimal `json:"claimable"`
	NetOwing  decimal.Decimal `json:"netOwing"`
}

// TaxRemittanceReport sums invoice tax as collected and expense input tax
// credits as claimable. GST and HST are netted jointly because they are
// remitted to a single authority; QST is netted separately.
type TaxRemittanceReport struct {
	GSTHST       TaxRemittanceLine `json:"gstHst"`
	QST          TaxRemittanceLine `json:"qst"`
	InvoiceCount int               `json:"invoiceCount"`
	ExpenseCount int               `json:"expenseCount"`
}
