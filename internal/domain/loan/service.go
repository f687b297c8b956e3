package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = fmt.Errorf("loan %w", apperrors.ErrNotFound)

// LoanDetails is a loan together with the customer who holds it.
type LoanDetails struct {
	Loan     *Loan
	Customer *customer.Customer
}

type LoanService interface {
	GetLoan(ctx context.Context, loanID int64) (*LoanDetails, error)

	ListCustomerLoans(ctx context.Context, customerID int64) ([]*Loan, error)

	// CustomerTotalDebt sums the principal of the customer's active loans.
	CustomerTotalDebt(ctx context.Context, customerID int64) (decimal.Decimal, error)

	ListActiveLoans(ctx context.Context) ([]*Loan, error)

	ListLateLoans(ctx context.Context) ([]*Loan, error)
}

type loanServiceImpl struct {
	repo         Repository
	customerRepo customer.Repository
	logger       *slog.Logger
}

func NewLoanService(r Repository, cr customer.Repository, logger *slog.Logger) LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &loanServiceImpl{repo: r, customerRepo: cr, logger: logger.With(slog.String("component", "loanService"))}
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*LoanDetails, error) {
	s.logger.DebugContext(ctx, "Getting loan details", "loanID", loanID)

	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan with ID %d", ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	cust, err := s.customerRepo.FindByID(ctx, l.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load loan holder", "loanID", loanID, "customerID", l.CustomerID, "error", err)
		return nil, fmt.Errorf("failed to load customer %d for loan %d: %w", l.CustomerID, loanID, err)
	}

	return &LoanDetails{Loan: l, Customer: cust}, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID int64) ([]*Loan, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer loans", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("%w: failed to list loans for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) CustomerTotalDebt(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return decimal.Zero, err
	}

	total, err := s.repo.SumActiveLoanAmount(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sum active loans", "customerID", customerID, "error", err)
		return decimal.Zero, fmt.Errorf("%w: failed to compute total debt for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	return total, nil
}

func (s *loanServiceImpl) ListActiveLoans(ctx context.Context) ([]*Loan, error) {
	loans, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list active loans", "error", err)
		return nil, fmt.Errorf("%w: failed to list active loans: %v", apperrors.ErrInternalServer, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) ListLateLoans(ctx context.Context) ([]*Loan, error) {
	loans, err := s.repo.ListLate(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list late loans", "error", err)
		return nil, fmt.Errorf("%w: failed to list late loans: %v", apperrors.ErrInternalServer, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) ensureCustomer(ctx context.Context, customerID int64) error {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found", "customerID", customerID)
			return fmt.Errorf("%w: customer %d", customer.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Failed to look up customer", "customerID", customerID, "error", err)
		return fmt.Errorf("%w: failed to look up customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	return nil
}
