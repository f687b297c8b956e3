package dto

import (
	"time"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// LoanRequest is the body of both /check-eligibility and /create-loan.
type LoanRequest struct {
	CustomerID   int64           `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount" swaggertype:"number"`
	InterestRate float64         `json:"interest_rate"`
	Tenure       int             `json:"tenure"`
}

func (r *LoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return apperrors.NewValidationError("customer_id", "must be a positive number")
	}
	return loan.ValidateTerms(r.LoanAmount, r.InterestRate, r.Tenure)
}

type EligibilityResponse struct {
	CustomerID            int64   `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    string  `json:"monthly_installment"`
	CreditScore           float64 `json:"credit_score"`
	Reason                string  `json:"reason,omitempty"`
}

func NewEligibilityResponse(customerID int64, d *credit.Decision) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            customerID,
		Approval:              d.Approved,
		InterestRate:          d.InterestRate,
		CorrectedInterestRate: d.CorrectedInterestRate,
		Tenure:                d.Tenure,
		MonthlyInstallment:    d.MonthlyInstallment.StringFixed(2),
		CreditScore:           d.Score,
		Reason:                string(d.Reason),
	}
}

type CreateLoanResponse struct {
	LoanID             *int64 `json:"loan_id"`
	CustomerID         int64  `json:"customer_id"`
	LoanApproved       bool   `json:"loan_approved"`
	Message            string `json:"message"`
	MonthlyInstallment string `json:"monthly_installment"`
	Reason             string `json:"reason,omitempty"`
}

func NewCreateLoanResponse(o *credit.Origination) CreateLoanResponse {
	return CreateLoanResponse{
		LoanID:             o.LoanID,
		CustomerID:         o.CustomerID,
		LoanApproved:       o.Approved,
		Message:            o.Message,
		MonthlyInstallment: o.MonthlyInstallment.StringFixed(2),
		Reason:             string(o.Decision.Reason),
	}
}

type LoanCustomerSummary struct {
	CustomerID  int64  `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Age         int    `json:"age"`
	PhoneNumber string `json:"phone_number"`
}

type LoanDetailResponse struct {
	LoanID             int64               `json:"loan_id"`
	Customer           LoanCustomerSummary `json:"customer"`
	LoanAmount         string              `json:"loan_amount"`
	InterestRate       float64             `json:"interest_rate"`
	MonthlyInstallment string              `json:"monthly_installment"`
	Tenure             int                 `json:"tenure"`
}

func NewLoanDetailResponse(l *loan.Loan, c *customer.Customer) LoanDetailResponse {
	resp := LoanDetailResponse{
		LoanID:             l.LoanID,
		LoanAmount:         l.LoanAmount.StringFixed(2),
		InterestRate:       l.InterestRate,
		MonthlyInstallment: l.MonthlyRepayment.StringFixed(2),
		Tenure:             l.Tenure,
	}
	if c != nil {
		resp.Customer = LoanCustomerSummary{
			CustomerID:  c.CustomerID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Age:         c.Age,
			PhoneNumber: c.PhoneNumber,
		}
	}
	return resp
}

type CustomerLoanItem struct {
	LoanID             int64   `json:"loan_id"`
	LoanAmount         string  `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment string  `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

func NewCustomerLoanItems(loans []*loan.Loan) []CustomerLoanItem {
	items := make([]CustomerLoanItem, 0, len(loans))
	for _, l := range loans {
		items = append(items, CustomerLoanItem{
			LoanID:             l.LoanID,
			LoanAmount:         l.LoanAmount.StringFixed(2),
			InterestRate:       l.InterestRate,
			MonthlyInstallment: l.MonthlyRepayment.StringFixed(2),
			RepaymentsLeft:     l.RepaymentsLeft(),
		})
	}
	return items
}

type LoanResponse struct {
	LoanID           int64     `json:"loan_id"`
	CustomerID       int64     `json:"customer_id"`
	LoanAmount       string    `json:"loan_amount"`
	Tenure           int       `json:"tenure"`
	InterestRate     float64   `json:"interest_rate"`
	MonthlyRepayment string    `json:"monthly_repayment"`
	EMIsPaidOnTime   int       `json:"emis_paid_on_time"`
	RepaymentsLeft   int       `json:"repayments_left"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewLoanListResponse(loans []*loan.Loan) []LoanResponse {
	resp := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, LoanResponse{
			LoanID:           l.LoanID,
			CustomerID:       l.CustomerID,
			LoanAmount:       l.LoanAmount.StringFixed(2),
			Tenure:           l.Tenure,
			InterestRate:     l.InterestRate,
			MonthlyRepayment: l.MonthlyRepayment.StringFixed(2),
			EMIsPaidOnTime:   l.EMIsPaidOnTime,
			RepaymentsLeft:   l.RepaymentsLeft(),
			StartDate:        l.StartDate.Format(dateLayout),
			EndDate:          l.EndDate.Format(dateLayout),
			IsActive:         l.IsActive,
			CreatedAt:        l.CreatedAt,
		})
	}
	return resp
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
