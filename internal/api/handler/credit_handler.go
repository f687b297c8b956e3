package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/pkg/apperrors"
)

type CreditHandler struct {
	service credit.CreditService
	logger  *slog.Logger
}

func NewCreditHandler(s credit.CreditService, l *slog.Logger) *CreditHandler {
	return &CreditHandler{
		service: s,
		logger:  l.With("component", "CreditHandler"),
	}
}

func (h *CreditHandler) decodeLoanRequest(r *http.Request) (*dto.LoanRequest, error) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// CheckEligibility handles POST /check-eligibility
//
// @Summary Check loan eligibility
// @Description Scores the customer and decides whether the loan would be approved, raising the interest rate for weaker scores. Nothing is persisted.
// @Tags Credit
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan terms"
// @Success 200 {object} dto.EligibilityResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /check-eligibility [post]
// @Security BearerAuth
func (h *CreditHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeLoanRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	decision, err := h.service.EvaluateEligibility(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewEligibilityResponse(req.CustomerID, decision))
}

// CreateLoan handles POST /create-loan
//
// @Summary Originate a loan
// @Description Re-checks eligibility and, when approved, books the loan at the corrected interest rate and raises the customer's current debt. A declined request answers 400 with loan_approved=false.
// @Tags Credit
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan terms"
// @Success 201 {object} dto.CreateLoanResponse "Loan approved and created"
// @Failure 400 {object} dto.CreateLoanResponse "Loan not approved"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, retry"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /create-loan [post]
// @Security BearerAuth
func (h *CreditHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeLoanRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	orig, err := h.service.OriginateLoan(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusCreated
	if !orig.Approved {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, dto.NewCreateLoanResponse(orig))
}

// CustomerScore handles GET /customers/{customerID}/score
//
// @Summary Current credit score of a customer
// @Tags Credit
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CreditScoreResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID}/score [get]
// @Security BearerAuth
func (h *CreditHandler) CustomerScore(w http.ResponseWriter, r *http.Request) {
	customerID, err := getIDFromURL(r, "customerID")
	if err != nil {
		respondError(w, err)
		return
	}

	score, err := h.service.ComputeScore(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.CreditScoreResponse{CustomerID: customerID, CreditScore: score})
}
