package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func customerRouter(svc customer.CustomerService) *chi.Mux {
	h := NewCustomerHandler(svc, logger)
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Get("/customers", h.ListCustomers)
	r.Get("/customers/{customerID}", h.GetCustomer)
	r.Delete("/customers/{customerID}", h.DeleteCustomer)
	return r
}

func sampleCustomer() *customer.Customer {
	return &customer.Customer{
		CustomerID:    7,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Age:           36,
		PhoneNumber:   "9876543210",
		MonthlySalary: decimal.NewFromInt(50000),
		ApprovedLimit: decimal.NewFromInt(1800000),
		CurrentDebt:   decimal.Zero,
		CreatedAt:     time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRegisterCustomer(t *testing.T) {
	t.Run("registers with monthly_income", func(t *testing.T) {
		svc := new(MockCustomerService)
		expected := customer.RegisterInput{
			FirstName:     "Ada",
			LastName:      "Lovelace",
			Age:           36,
			PhoneNumber:   "9876543210",
			MonthlySalary: decimal.NewFromInt(50000),
		}
		svc.On("Register", mock.Anything, mock.MatchedBy(func(in customer.RegisterInput) bool {
			return in.FirstName == expected.FirstName && in.PhoneNumber == expected.PhoneNumber &&
				in.Age == expected.Age && in.MonthlySalary.Equal(expected.MonthlySalary) && in.CustomerID == 0
		})).Return(sampleCustomer(), nil)

		body := `{"first_name":"Ada","last_name":"Lovelace","age":36,"phone_number":9876543210,"monthly_income":50000}`
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		customerRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CustomerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(7), resp.CustomerID)
		assert.Equal(t, "Ada Lovelace", resp.Name)
		assert.Equal(t, "1800000.00", resp.ApprovedLimit)
		assert.Equal(t, "50000.00", resp.MonthlyIncome)
		svc.AssertExpectations(t)
	})

	t.Run("prefers monthly_salary and passes customer_id", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("Register", mock.Anything, mock.MatchedBy(func(in customer.RegisterInput) bool {
			return in.CustomerID == 300 && in.MonthlySalary.Equal(decimal.NewFromInt(62500))
		})).Return(sampleCustomer(), nil)

		body := `{"customer_id":300,"first_name":"Ada","last_name":"Lovelace","age":36,"phone_number":"9876543210","monthly_salary":62500,"monthly_income":1}`
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		customerRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("requires a salary", func(t *testing.T) {
		svc := new(MockCustomerService)
		body := `{"first_name":"Ada","last_name":"Lovelace","age":36,"phone_number":"9876543210"}`
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		customerRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "monthly_salary", decodeError(t, rec).Error.Field)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		svc := new(MockCustomerService)
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"first_name":`))
		rec := httptest.NewRecorder()

		customerRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("echoes the invalid field", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.NewValidationError("age", "must be between 18 and 100"))

		body := `{"first_name":"Ada","last_name":"Lovelace","age":12,"phone_number":"1","monthly_salary":1000}`
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		customerRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "age", resp.Error.Field)
		assert.Equal(t, "must be between 18 and 100", resp.Error.Message)
	})

	t.Run("duplicate phone is a conflict", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: ux_customers_phone_number", apperrors.ErrAlreadyExists))

		body := `{"first_name":"Ada","last_name":"Lovelace","age":36,"phone_number":"9876543210","monthly_salary":50000}`
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		customerRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetCustomer(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("GetCustomer", mock.Anything, int64(7)).Return(sampleCustomer(), nil)

		rec := httptest.NewRecorder()
		customerRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/7", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CustomerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "9876543210", resp.PhoneNumber)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("GetCustomer", mock.Anything, int64(8)).Return(nil, fmt.Errorf("%w: 8", customer.ErrNotFound))

		rec := httptest.NewRecorder()
		customerRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/8", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Customer not found", decodeError(t, rec).Error.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockCustomerService)

		rec := httptest.NewRecorder()
		customerRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})
}

func TestListCustomers(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("ListCustomers", mock.Anything).Return([]*customer.Customer{sampleCustomer()}, nil)

	rec := httptest.NewRecorder()
	customerRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.CustomerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}

func TestDeleteCustomer(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("DeleteCustomer", mock.Anything, int64(7)).Return(nil)

		rec := httptest.NewRecorder()
		customerRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/customers/7", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("DeleteCustomer", mock.Anything, int64(9)).Return(fmt.Errorf("%w: 9", customer.ErrNotFound))

		rec := httptest.NewRecorder()
		customerRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/customers/9", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
