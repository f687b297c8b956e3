package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const customerColumns = `customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

// Save inserts cust and its id counter update in one transaction.
func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) (err error) {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	start := time.Now()
	defer func() { observe("SaveCustomer", start, err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", rbErr))
			}
		}
	}()

	if cust.CustomerID == 0 {
		cust.CustomerID, err = nextCounterValue(ctx, tx, counterCustomer)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to allocate customer id", slog.Any("error", err))
			return translateDBError(err, r.logger)
		}
	} else if err = advanceCounter(ctx, tx, counterCustomer, cust.CustomerID); err != nil {
		r.logger.ErrorContext(ctx, "Failed to advance customer id counter", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	query := `
        INSERT INTO customers (customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING created_at`

	err = tx.QueryRow(ctx, query,
		cust.CustomerID,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
	).Scan(&cust.CreatedAt)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Customer id or phone number already registered", slog.Int64("customerID", cust.CustomerID))
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`

	start := time.Now()
	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	observe("FindCustomerByID", start, err)

	return cust, r.notFoundOr(ctx, err, customerID)
}

func (r *CustomerRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1 FOR UPDATE`

	start := time.Now()
	cust, err := scanCustomer(tx.QueryRow(ctx, query, customerID))
	observe("FindCustomerByIDForUpdate", start, err)

	return cust, r.notFoundOr(ctx, err, customerID)
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY customer_id`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		observe("FindAllCustomers", start, err)
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}
	err = rows.Err()
	observe("FindAllCustomers", start, err)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return customers, nil
}

// Delete removes the customer. Their loans go with them through the foreign key cascade.
func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, customerID)
	observe("DeleteCustomer", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", customer.ErrNotFound, customerID)
	}
	return nil
}

func (r *CustomerRepository) UpdateDebtInTx(ctx context.Context, tx pgx.Tx, customerID int64, delta decimal.Decimal) error {
	query := `UPDATE customers SET current_debt = current_debt + $1 WHERE customer_id = $2`

	start := time.Now()
	cmdTag, err := tx.Exec(ctx, query, delta, customerID)
	observe("UpdateCustomerDebt", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer debt", slog.Int64("customerID", customerID), slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", customer.ErrNotFound, customerID)
	}
	return nil
}

func (r *CustomerRepository) notFoundOr(ctx context.Context, err error, customerID int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %d", customer.ErrNotFound, customerID)
	}
	r.logger.ErrorContext(ctx, "Failed to load customer", slog.Int64("customerID", customerID), slog.Any("error", err))
	return translateDBError(err, r.logger)
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.CustomerID,
		&c.FirstName,
		&c.LastName,
		&c.Age,
		&c.PhoneNumber,
		&c.MonthlySalary,
		&c.ApprovedLimit,
		&c.CurrentDebt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
