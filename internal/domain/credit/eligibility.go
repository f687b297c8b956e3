package credit

import (
	"time"

	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
)

const (
	approveUnchangedAbove = 50.0
	midSlabFloor          = 30.0
	lowSlabFloor          = 10.0

	midSlabMinRate = 12.0
	lowSlabMinRate = 16.0
)

type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonApprovedLimitExceeded Reason = "approved_limit_exceeded"
	ReasonEMIBurdenExceeded     Reason = "emi_burden_exceeded"
	ReasonCreditScoreTooLow     Reason = "credit_score_too_low"
)

func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return "Loan approved"
	case ReasonApprovedLimitExceeded:
		return "Loan not approved: current loans exceed approved limit"
	case ReasonEMIBurdenExceeded:
		return "Loan not approved: current EMIs exceed 50% of monthly salary"
	case ReasonCreditScoreTooLow:
		return "Loan not approved due to credit score"
	default:
		return "Loan not approved"
	}
}

type Request struct {
	LoanAmount   decimal.Decimal
	InterestRate float64
	Tenure       int
}

type Decision struct {
	Approved              bool
	Score                 float64
	InterestRate          float64
	CorrectedInterestRate float64
	Tenure                int
	MonthlyInstallment    decimal.Decimal
	Reason                Reason
}

// Evaluate decides a loan request against a profile snapshot. Hard limits are checked
// first, in order: approved limit, then EMI burden. Only then does the score slab apply.
// The installment is zero on rejection.
func Evaluate(p Profile, req Request, today time.Time) Decision {
	d := Decision{
		Score:                 Score(p, today),
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: req.InterestRate,
		Tenure:                req.Tenure,
		MonthlyInstallment:    decimal.Zero,
	}

	switch {
	case p.overApprovedLimit():
		d.Reason = ReasonApprovedLimitExceeded
		return d
	case p.overEMIBurden():
		d.Reason = ReasonEMIBurdenExceeded
		return d
	}

	switch {
	case d.Score > approveUnchangedAbove:
		d.Approved = true
	case d.Score > midSlabFloor:
		d.Approved = true
		d.CorrectedInterestRate = max(req.InterestRate, midSlabMinRate)
	case d.Score > lowSlabFloor:
		d.Approved = true
		d.CorrectedInterestRate = max(req.InterestRate, lowSlabMinRate)
	default:
		d.Reason = ReasonCreditScoreTooLow
		return d
	}

	d.MonthlyInstallment = loan.CalculateEMI(req.LoanAmount, d.CorrectedInterestRate, req.Tenure)
	return d
}
