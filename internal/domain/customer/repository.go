package customer

import (
	"context"
	"fmt"

	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var ErrNotFound = fmt.Errorf("customer %w", apperrors.ErrNotFound)

type Repository interface {
	// Save inserts a new customer. When CustomerID is zero the next counter value is assigned
	// and written back into c.
	Save(ctx context.Context, c *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// FindByIDForUpdate locks the customer row until tx ends.
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	Delete(ctx context.Context, customerID int64) error

	UpdateDebtInTx(ctx context.Context, tx pgx.Tx, customerID int64, delta decimal.Decimal) error
}
