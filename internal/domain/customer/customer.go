package customer

import (
	"strings"
	"time"
	"unicode/utf8"

	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	MinAge = 18
	MaxAge = 100

	maxNameLength  = 50
	maxPhoneLength = 15
)

// MaxMonthlySalary keeps the approved limit within the NUMERIC(14,2) money columns.
var MaxMonthlySalary = decimal.NewFromInt(10_000_000_000)

var (
	limitMultiplier = decimal.NewFromInt(36)
	limitRoundingTo = decimal.NewFromInt(100000)
)

type Customer struct {
	CustomerID    int64           `json:"customer_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	CurrentDebt   decimal.Decimal `json:"current_debt"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ApprovedLimitFor is 36 months of salary rounded to the nearest lakh (100000), halves away
// from zero.
func ApprovedLimitFor(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(limitMultiplier).Div(limitRoundingTo).Round(0).Mul(limitRoundingTo)
}

// NewCustomer validates the registration fields and fixes the approved limit. A zero
// customerID leaves id assignment to the repository.
func NewCustomer(customerID int64, firstName, lastName string, age int, phoneNumber string, monthlySalary decimal.Decimal) (*Customer, error) {
	c := &Customer{
		CustomerID:    customerID,
		FirstName:     strings.TrimSpace(firstName),
		LastName:      strings.TrimSpace(lastName),
		Age:           age,
		PhoneNumber:   strings.TrimSpace(phoneNumber),
		MonthlySalary: monthlySalary,
		CurrentDebt:   decimal.Zero,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ApprovedLimit = ApprovedLimitFor(monthlySalary)
	return c, nil
}

func (c *Customer) Validate() error {
	switch {
	case c.CustomerID < 0:
		return apperrors.NewValidationError("customer_id", "must be positive")
	case c.FirstName == "":
		return apperrors.NewValidationError("first_name", "must not be empty")
	case utf8.RuneCountInString(c.FirstName) > maxNameLength:
		return apperrors.NewValidationError("first_name", "must be at most 50 characters")
	case c.LastName == "":
		return apperrors.NewValidationError("last_name", "must not be empty")
	case utf8.RuneCountInString(c.LastName) > maxNameLength:
		return apperrors.NewValidationError("last_name", "must be at most 50 characters")
	case c.Age < MinAge || c.Age > MaxAge:
		return apperrors.NewValidationError("age", "must be between 18 and 100")
	case c.PhoneNumber == "":
		return apperrors.NewValidationError("phone_number", "must not be empty")
	case utf8.RuneCountInString(c.PhoneNumber) > maxPhoneLength:
		return apperrors.NewValidationError("phone_number", "must be at most 15 characters")
	case c.MonthlySalary.IsNegative():
		return apperrors.NewValidationError("monthly_salary", "must not be negative")
	case c.MonthlySalary.GreaterThan(MaxMonthlySalary):
		return apperrors.NewValidationError("monthly_salary", "must not exceed "+MaxMonthlySalary.String())
	case !c.MonthlySalary.Equal(c.MonthlySalary.Round(2)):
		return apperrors.NewValidationError("monthly_salary", "must have at most 2 decimal places")
	}
	return nil
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
