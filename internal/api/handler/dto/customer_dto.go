package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// PhoneNumber accepts either a JSON string or a bare JSON number.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = PhoneNumber(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("phone_number must be a string or a number")
	}
	*p = PhoneNumber(n.String())
	return nil
}

// RegisterCustomerRequest takes the salary as monthly_salary or, for older clients,
// monthly_income. A zero monthly_salary falls through to monthly_income.
type RegisterCustomerRequest struct {
	CustomerID    int64            `json:"customer_id,omitempty"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	Age           int              `json:"age"`
	PhoneNumber   PhoneNumber      `json:"phone_number" swaggertype:"string"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty" swaggertype:"number"`
	MonthlyIncome *decimal.Decimal `json:"monthly_income,omitempty" swaggertype:"number"`
}

func (r *RegisterCustomerRequest) Salary() (decimal.Decimal, error) {
	switch {
	case r.MonthlySalary != nil && !r.MonthlySalary.IsZero():
		return *r.MonthlySalary, nil
	case r.MonthlyIncome != nil:
		return *r.MonthlyIncome, nil
	case r.MonthlySalary != nil:
		return *r.MonthlySalary, nil
	}
	return decimal.Zero, apperrors.NewValidationError("monthly_salary", "monthly_salary or monthly_income is required")
}

func (r *RegisterCustomerRequest) ToInput() (customer.RegisterInput, error) {
	salary, err := r.Salary()
	if err != nil {
		return customer.RegisterInput{}, err
	}
	return customer.RegisterInput{
		CustomerID:    r.CustomerID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Age:           r.Age,
		PhoneNumber:   string(r.PhoneNumber),
		MonthlySalary: salary,
	}, nil
}

type CustomerResponse struct {
	CustomerID    int64     `json:"customer_id"`
	Name          string    `json:"name"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Age           int       `json:"age"`
	PhoneNumber   string    `json:"phone_number"`
	MonthlySalary string    `json:"monthly_salary"`
	MonthlyIncome string    `json:"monthly_income"`
	ApprovedLimit string    `json:"approved_limit"`
	CurrentDebt   string    `json:"current_debt"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	salary := cust.MonthlySalary.StringFixed(2)
	return CustomerResponse{
		CustomerID:    cust.CustomerID,
		Name:          cust.FullName(),
		FirstName:     cust.FirstName,
		LastName:      cust.LastName,
		Age:           cust.Age,
		PhoneNumber:   cust.PhoneNumber,
		MonthlySalary: salary,
		MonthlyIncome: salary,
		ApprovedLimit: cust.ApprovedLimit.StringFixed(2),
		CurrentDebt:   cust.CurrentDebt.StringFixed(2),
		CreatedAt:     cust.CreatedAt,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}

type TotalDebtResponse struct {
	CustomerID int64  `json:"customer_id"`
	TotalDebt  string `json:"total_debt"`
}

type CreditScoreResponse struct {
	CustomerID  int64   `json:"customer_id"`
	CreditScore float64 `json:"credit_score"`
}
