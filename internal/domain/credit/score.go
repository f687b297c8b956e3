package credit

import (
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
)

const (
	MinScore = 0.0
	MaxScore = 100.0

	baseScore          = 50.0
	onTimeWeight       = 50.0
	perLoanPenalty     = 5.0
	currentYearPenalty = 5.0
	emiBurdenScoreCap  = 10.0
)

var emiBurdenShare = decimal.NewFromFloat(0.5)

// Profile is the snapshot a decision is made on: one customer and every loan they hold.
type Profile struct {
	Customer *customer.Customer
	Loans    []*loan.Loan
}

func (p Profile) activePrincipal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range p.Loans {
		if l.IsActive {
			sum = sum.Add(l.LoanAmount)
		}
	}
	return sum
}

func (p Profile) activeMonthlyRepayment() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range p.Loans {
		if l.IsActive {
			sum = sum.Add(l.MonthlyRepayment)
		}
	}
	return sum
}

func (p Profile) overApprovedLimit() bool {
	return p.activePrincipal().GreaterThan(p.Customer.ApprovedLimit)
}

func (p Profile) overEMIBurden() bool {
	return p.activeMonthlyRepayment().GreaterThan(p.Customer.MonthlySalary.Mul(emiBurdenShare))
}

// Score rates a profile in [0, 100]. today only decides which loans count as started this year.
func Score(p Profile, today time.Time) float64 {
	if p.overApprovedLimit() {
		return MinScore
	}

	score := baseScore

	paidOnTime := 0
	startedThisYear := 0
	for _, l := range p.Loans {
		paidOnTime += l.EMIsPaidOnTime
		if !l.StartDate.IsZero() && l.StartDate.Year() == today.Year() {
			startedThisYear++
		}
	}
	count := len(p.Loans)

	score += float64(paidOnTime) / float64(max(count, 1)) * onTimeWeight
	score -= float64(count) * perLoanPenalty
	score -= float64(startedThisYear) * currentYearPenalty

	if p.overEMIBurden() {
		score = min(score, emiBurdenScoreCap)
	}

	return min(MaxScore, max(MinScore, score))
}
