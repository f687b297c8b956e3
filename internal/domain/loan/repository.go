package loan

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	ListByCustomerInTx(ctx context.Context, tx pgx.Tx, customerID int64) ([]*Loan, error)

	SumActiveLoanAmount(ctx context.Context, customerID int64) (decimal.Decimal, error)

	SumActiveMonthlyRepayment(ctx context.Context, customerID int64) (decimal.Decimal, error)

	ListActive(ctx context.Context) ([]*Loan, error)

	ListLate(ctx context.Context) ([]*Loan, error)

	GetPortfolioStats(ctx context.Context) (*PortfolioStats, error)

	// NextLoanIDInTx advances the loan id counter. The increment is undone if tx rolls back.
	NextLoanIDInTx(ctx context.Context, tx pgx.Tx) (int64, error)

	InsertLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
