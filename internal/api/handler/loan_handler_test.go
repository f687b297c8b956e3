package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func loanRouter(svc loan.LoanService) *chi.Mux {
	h := NewLoanHandler(svc, logger)
	r := chi.NewRouter()
	r.Get("/view-loan/{loanID}", h.ViewLoan)
	r.Get("/view-loans/{customerID}", h.ViewCustomerLoans)
	r.Get("/customers/{customerID}/total-debt", h.CustomerTotalDebt)
	r.Get("/loans/active", h.ListActiveLoans)
	r.Get("/loans/late", h.ListLateLoans)
	return r
}

func sampleLoan(id int64, paid int) *loan.Loan {
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	return &loan.Loan{
		LoanID:           id,
		CustomerID:       7,
		LoanAmount:       decimal.NewFromInt(100000),
		Tenure:           12,
		InterestRate:     12,
		MonthlyRepayment: decimal.RequireFromString("8884.88"),
		EMIsPaidOnTime:   paid,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 360),
		IsActive:         true,
	}
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestViewLoan(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("GetLoan", mock.Anything, int64(5)).Return(&loan.LoanDetails{Loan: sampleLoan(5, 0), Customer: sampleCustomer()}, nil)

		rec := get(loanRouter(svc), "/view-loan/5")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.LoanDetailResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(5), resp.LoanID)
		assert.Equal(t, "100000.00", resp.LoanAmount)
		assert.Equal(t, "8884.88", resp.MonthlyInstallment)
		assert.Equal(t, 12, resp.Tenure)
		assert.Equal(t, int64(7), resp.Customer.CustomerID)
		assert.Equal(t, "Lovelace", resp.Customer.LastName)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("GetLoan", mock.Anything, int64(6)).Return(nil, fmt.Errorf("%w: loan with ID 6", loan.ErrNotFound))

		rec := get(loanRouter(svc), "/view-loan/6")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Loan not found", decodeError(t, rec).Error.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := get(loanRouter(new(MockLoanService)), "/view-loan/0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestViewCustomerLoans(t *testing.T) {
	t.Run("lists repayments left", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("ListCustomerLoans", mock.Anything, int64(7)).Return([]*loan.Loan{sampleLoan(1, 4), sampleLoan(2, 12)}, nil)

		rec := get(loanRouter(svc), "/view-loans/7")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.CustomerLoanItem
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, 8, resp[0].RepaymentsLeft)
		assert.Equal(t, 0, resp[1].RepaymentsLeft)
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("ListCustomerLoans", mock.Anything, int64(8)).Return([]*loan.Loan{}, nil)

		rec := get(loanRouter(svc), "/view-loans/8")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("ListCustomerLoans", mock.Anything, int64(9)).Return(nil, fmt.Errorf("%w: customer 9", customer.ErrNotFound))

		rec := get(loanRouter(svc), "/view-loans/9")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCustomerTotalDebt(t *testing.T) {
	svc := new(MockLoanService)
	svc.On("CustomerTotalDebt", mock.Anything, int64(7)).Return(decimal.NewFromInt(150000), nil)

	rec := get(loanRouter(svc), "/customers/7/total-debt")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"customer_id":7,"total_debt":"150000.00"}`, rec.Body.String())
}

func TestListActiveAndLateLoans(t *testing.T) {
	svc := new(MockLoanService)
	svc.On("ListActiveLoans", mock.Anything).Return([]*loan.Loan{sampleLoan(1, 0)}, nil)
	svc.On("ListLateLoans", mock.Anything).Return(nil, fmt.Errorf("%w: failed to list late loans", apperrors.ErrInternalServer))

	rec := get(loanRouter(svc), "/loans/active")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.LoanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "2025-03-14", resp[0].StartDate)
	assert.Equal(t, "2026-03-09", resp[0].EndDate)
	assert.Equal(t, 12, resp[0].RepaymentsLeft)

	rec = get(loanRouter(svc), "/loans/late")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
