package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transactional records consumed by the reporting services. The engine never
// queries storage itself; the caller supplies records for a bounded date range.

// PaymentStatus reflects the settlement state of a member payment.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentPending   PaymentStatus = "PENDING"
	PaymentFailed    PaymentStatus = "FAILED"
)

// RefundStatus reflects the state of a refund.
type RefundStatus string

const (
	RefundSucceeded RefundStatus = "SUCCEEDED"
	RefundPending   RefundStatus = "PENDING"
	RefundFailed    RefundStatus = "FAILED"
)

// PayrollStatus reflects the state of a payroll run.
type PayrollStatus string

const (
	PayrollPaid  PayrollStatus = "PAID"
	PayrollDraft PayrollStatus = "DRAFT"
)

// InvoiceStatus reflects the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "ISSUED"
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceVoided InvoiceStatus = "VOIDED"
)

// Payment is a member payment. SubscriptionActive and the plan fields reflect
// the member's subscription as it stands at query time, not at payment time;
// the revenue categorization deliberately uses present state.
type Payment struct {
	PaymentID          string          `json:"paymentID"`
	MemberID           string          `json:"memberID"`
	Amount             decimal.Decimal `json:"amount"`
	OccurredAt         time.Time       `json:"occurredAt"`
	Status             PaymentStatus   `json:"status"`
	SubscriptionActive bool            `json:"subscriptionActive"`
	PlanID             string          `json:"planID"`
	PlanName           string          `json:"planName"`
}

// InputTaxCredit is the tax already paid on a business expense, creditable
// against tax collected when computing the net remittance.
type InputTaxCredit struct {
	GST decimal.Decimal `json:"gst"`
	HST decimal.Decimal `json:"hst"`
	QST decimal.Decimal `json:"qst"`
}

// Expense is an operational expense with its creditable input tax.
type Expense struct {
	ExpenseID  string          `json:"expenseID"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurredAt"`
	ITC        InputTaxCredit  `json:"itc"`
}

// PayrollRun is a staff payroll disbursement.
type PayrollRun struct {
	PayrollRunID string          `json:"payrollRunID"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaidAt       time.Time       `json:"paidAt"`
	Status       PayrollStatus   `json:"status"`
}

// Refund is money returned to a member.
type Refund struct {
	RefundID   string          `json:"refundID"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurredAt"`
	Status     RefundStatus    `json:"status"`
}

// InvoiceTaxLines carries the per-component tax amounts on an issued invoice.
type InvoiceTaxLines struct {
	GST decimal.Decimal `json:"gst"`
	PST decimal.Decimal `json:"pst"`
	HST decimal.Decimal `json:"hst"`
	QST decimal.Decimal `json:"qst"`
}

// Invoice is an issued invoice with the tax that was charged on it.
type Invoice struct {
	InvoiceID string          `json:"invoiceID"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       InvoiceTaxLines `json:"tax"`
	IssuedAt  time.Time       `json:"issuedAt"`
	Status    InvoiceStatus   `json:"status"`
}

// FinancialActivity bundles every transactional record for one tenant and
// period, plus the current active-subscriber count per plan. It is the sole
// input shape of the reporting services.
type FinancialActivity struct {
	Payments    []Payment
	Expenses    []Expense
	PayrollRuns []PayrollRun
	Refunds     []Refund
	Invoices    []Invoice
	// PlanSubscribers maps plan ID to its current active-subscriber count,
	// independent of the report period.
	PlanSubscribers map[string]int
}
