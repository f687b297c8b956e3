package loan

import (
	"fmt"
	"math"
	"time"

	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// DaysPerMonth is the fixed month length used to derive a loan's end date.
const DaysPerMonth = 30

// Upper bounds keep accepted terms storable: amounts and installments live in NUMERIC(14,2).
const (
	MaxInterestRate = 100.0
	MaxTenure       = 600
)

var MaxLoanAmount = decimal.NewFromInt(10_000_000_000)

type Loan struct {
	LoanID           int64           `json:"loan_id"`
	CustomerID       int64           `json:"customer_id"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	Tenure           int             `json:"tenure"`
	InterestRate     float64         `json:"interest_rate"`
	MonthlyRepayment decimal.Decimal `json:"monthly_repayment"`
	EMIsPaidOnTime   int             `json:"emis_paid_on_time"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CalculateEMI returns the fixed monthly installment for a reducing-balance loan, rounded
// half away from zero to 2 decimal places. tenure must be at least 1.
func CalculateEMI(principal decimal.Decimal, annualRate float64, tenure int) decimal.Decimal {
	if tenure < 1 {
		return decimal.Zero
	}

	i := annualRate / 12 / 100
	if i == 0 {
		return principal.Div(decimal.NewFromInt(int64(tenure))).Round(2)
	}

	p := principal.InexactFloat64()
	growth := math.Pow(1+i, float64(tenure))
	emi := p * i
	if !math.IsInf(growth, 1) {
		emi = emi * growth / (growth - 1)
	}
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(emi).Round(2)
}

// ValidateTerms checks the raw loan request fields before any evaluation takes place.
func ValidateTerms(amount decimal.Decimal, interestRate float64, tenure int) error {
	switch {
	case !amount.IsPositive():
		return apperrors.NewValidationError("loan_amount", "must be greater than 0")
	case amount.GreaterThan(MaxLoanAmount):
		return apperrors.NewValidationError("loan_amount", "must not exceed "+MaxLoanAmount.String())
	case !amount.Equal(amount.Round(2)):
		return apperrors.NewValidationError("loan_amount", "must have at most 2 decimal places")
	case math.IsNaN(interestRate) || interestRate < 0 || interestRate > MaxInterestRate:
		return apperrors.NewValidationError("interest_rate", fmt.Sprintf("must be between 0 and %v", MaxInterestRate))
	case tenure < 1 || tenure > MaxTenure:
		return apperrors.NewValidationError("tenure", fmt.Sprintf("must be between 1 and %d", MaxTenure))
	}
	return nil
}

// NewLoan builds a freshly originated loan starting on today.
func NewLoan(loanID, customerID int64, amount decimal.Decimal, interestRate float64, tenure int, monthlyRepayment decimal.Decimal, today time.Time) (*Loan, error) {
	if loanID <= 0 {
		return nil, fmt.Errorf("%w: loan id must be positive", apperrors.ErrInvalidArgument)
	}
	if err := ValidateTerms(amount, interestRate, tenure); err != nil {
		return nil, err
	}

	start := truncateToDate(today)
	return &Loan{
		LoanID:           loanID,
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           tenure,
		InterestRate:     interestRate,
		MonthlyRepayment: monthlyRepayment,
		EMIsPaidOnTime:   0,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, DaysPerMonth*tenure),
		IsActive:         true,
	}, nil
}

func (l *Loan) RepaymentsLeft() int {
	return max(0, l.Tenure-l.EMIsPaidOnTime)
}

// IsLate reports whether the loan still has EMIs not paid on time.
func (l *Loan) IsLate() bool {
	return l.EMIsPaidOnTime < l.Tenure
}

type PortfolioStats struct {
	Customers       int64
	ActiveLoans     int64
	LateLoans       int64
	ActivePrincipal decimal.Decimal
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
