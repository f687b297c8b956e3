package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"

	"github.com/shopspring/decimal"
)

type RegisterInput struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary decimal.Decimal
}

type CustomerService interface {
	Register(ctx context.Context, in RegisterInput) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   Repository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo Repository, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewLogPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) Register(ctx context.Context, in RegisterInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register customer")

	c, err := NewCustomer(in.CustomerID, in.FirstName, in.LastName, in.Age, in.PhoneNumber, in.MonthlySalary)
	if err != nil {
		s.logger.WarnContext(ctx, "Registration input rejected", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	monitoring.RecordCustomerRegistered()

	log := s.logger.With(slog.Int64("customerID", c.CustomerID))
	log.InfoContext(ctx, "Customer registered", slog.String("approvedLimit", c.ApprovedLimit.String()))

	evt := event.NewCustomerRegisteredEvent(event.CustomerPayload{
		CustomerID:    c.CustomerID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		PhoneNumber:   c.PhoneNumber,
		MonthlySalary: c.MonthlySalary,
		ApprovedLimit: c.ApprovedLimit,
	})
	if pubErr := s.pub.PublishCustomerRegistered(ctx, evt); pubErr != nil {
		log.ErrorContext(ctx, "Customer registered, but failed to publish event", slog.Any("error", pubErr))
	}

	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.DebugContext(ctx, "Getting customer by ID")

	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WarnContext(ctx, "Customer not found")
			return nil, err
		}
		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return c, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed customers", slog.Int("count", len(customers)))
	return customers, nil
}

// DeleteCustomer removes the customer together with all of its loans.
func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	log := s.logger.With(slog.Int64("customerID", customerID))

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WarnContext(ctx, "Customer not found for deletion")
			return err
		}
		log.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	log.InfoContext(ctx, "Customer deleted")
	return nil
}
