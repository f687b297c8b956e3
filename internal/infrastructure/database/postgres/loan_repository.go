package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const loanColumns = `loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, is_active, created_at`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

// CommitTx reports serialization failures as apperrors.ErrConflict.
func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	observe("GetLoanByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	return r.listByCustomer(ctx, r.db, "ListLoansByCustomer", customerID)
}

func (r *LoanRepository) ListByCustomerInTx(ctx context.Context, tx pgx.Tx, customerID int64) ([]*loan.Loan, error) {
	return r.listByCustomer(ctx, tx, "ListLoansByCustomerInTx", customerID)
}

func (r *LoanRepository) listByCustomer(ctx context.Context, q querier, queryName string, customerID int64) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY loan_id`
	return r.queryLoans(ctx, q, queryName, query, customerID)
}

func (r *LoanRepository) ListActive(ctx context.Context) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE is_active ORDER BY loan_id`
	return r.queryLoans(ctx, r.db, "ListActiveLoans", query)
}

// ListLate returns loans whose on-time EMI count is still below their tenure.
func (r *LoanRepository) ListLate(ctx context.Context) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE emis_paid_on_time < tenure ORDER BY loan_id`
	return r.queryLoans(ctx, r.db, "ListLateLoans", query)
}

func (r *LoanRepository) SumActiveLoanAmount(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(loan_amount), 0) FROM loans WHERE customer_id = $1 AND is_active`
	return r.sum(ctx, "SumActiveLoanAmount", query, customerID)
}

func (r *LoanRepository) SumActiveMonthlyRepayment(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(monthly_repayment), 0) FROM loans WHERE customer_id = $1 AND is_active`
	return r.sum(ctx, "SumActiveMonthlyRepayment", query, customerID)
}

func (r *LoanRepository) GetPortfolioStats(ctx context.Context) (*loan.PortfolioStats, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM customers),
            COUNT(*) FILTER (WHERE is_active),
            COUNT(*) FILTER (WHERE emis_paid_on_time < tenure),
            COALESCE(SUM(loan_amount) FILTER (WHERE is_active), 0)
        FROM loans`

	var stats loan.PortfolioStats
	start := time.Now()
	err := r.db.QueryRow(ctx, query).Scan(&stats.Customers, &stats.ActiveLoans, &stats.LateLoans, &stats.ActivePrincipal)
	observe("GetPortfolioStats", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to compute portfolio stats", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return &stats, nil
}

func (r *LoanRepository) NextLoanIDInTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	start := time.Now()
	id, err := nextCounterValue(ctx, tx, counterLoan)
	observe("NextLoanID", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to allocate loan id", "error", err)
		return 0, translateDBError(err, r.logger)
	}
	return id, nil
}

func (r *LoanRepository) InsertLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	query := `
        INSERT INTO loans (loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
        RETURNING created_at`

	start := time.Now()
	err := tx.QueryRow(ctx, query,
		l.LoanID, l.CustomerID, l.LoanAmount, l.Tenure, l.InterestRate,
		l.MonthlyRepayment, l.EMIsPaidOnTime, l.StartDate, l.EndDate, l.IsActive,
	).Scan(&l.CreatedAt)
	observe("InsertLoan", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "loan_id", l.LoanID, "error", err)
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.LoanID, "customer_id", l.CustomerID)
	return nil
}

func (r *LoanRepository) queryLoans(ctx context.Context, q querier, queryName, query string, args ...any) ([]*loan.Loan, error) {
	start := time.Now()
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		observe(queryName, start, err)
		r.logger.ErrorContext(ctx, "Failed to query loans", "query", queryName, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "query", queryName, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	err = rows.Err()
	observe(queryName, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "query", queryName, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	return loans, nil
}

func (r *LoanRepository) sum(ctx context.Context, queryName, query string, customerID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	start := time.Now()
	err := r.db.QueryRow(ctx, query, customerID).Scan(&total)
	observe(queryName, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to sum loans", "query", queryName, "customer_id", customerID, "error", err)
		return decimal.Zero, translateDBError(err, r.logger)
	}
	return total, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.LoanID,
		&l.CustomerID,
		&l.LoanAmount,
		&l.Tenure,
		&l.InterestRate,
		&l.MonthlyRepayment,
		&l.EMIsPaidOnTime,
		&l.StartDate,
		&l.EndDate,
		&l.IsActive,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
