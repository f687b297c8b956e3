package handler

import (
	"context"
	"io"
	"log/slog"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) Register(ctx context.Context, in customer.RegisterInput) (*customer.Customer, error) {
	ret := _m.Called(ctx, in)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

type MockLoanService struct {
	mock.Mock
}

func (_m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.LoanDetails, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.LoanDetails
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.LoanDetails)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) ListCustomerLoans(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) CustomerTotalDebt(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Get(0).(decimal.Decimal), ret.Error(1)
}

func (_m *MockLoanService) ListActiveLoans(ctx context.Context) ([]*loan.Loan, error) {
	ret := _m.Called(ctx)

	var r0 []*loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) ListLateLoans(ctx context.Context) ([]*loan.Loan, error) {
	ret := _m.Called(ctx)

	var r0 []*loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Loan)
	}
	return r0, ret.Error(1)
}

var _ loan.LoanService = (*MockLoanService)(nil)

type MockCreditService struct {
	mock.Mock
}

func (_m *MockCreditService) EvaluateEligibility(ctx context.Context, customerID int64, loanAmount decimal.Decimal, interestRate float64, tenure int) (*credit.Decision, error) {
	ret := _m.Called(ctx, customerID, loanAmount, interestRate, tenure)

	var r0 *credit.Decision
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*credit.Decision)
	}
	return r0, ret.Error(1)
}

func (_m *MockCreditService) OriginateLoan(ctx context.Context, customerID int64, loanAmount decimal.Decimal, interestRate float64, tenure int) (*credit.Origination, error) {
	ret := _m.Called(ctx, customerID, loanAmount, interestRate, tenure)

	var r0 *credit.Origination
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*credit.Origination)
	}
	return r0, ret.Error(1)
}

func (_m *MockCreditService) ComputeScore(ctx context.Context, customerID int64) (float64, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Get(0).(float64), ret.Error(1)
}

var _ credit.CreditService = (*MockCreditService)(nil)
