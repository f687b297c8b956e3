package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const DefaultOriginationRetries = 3

// Origination is the outcome of OriginateLoan. LoanID and Loan are nil when the request was
// declined.
type Origination struct {
	LoanID             *int64
	CustomerID         int64
	Approved           bool
	Message            string
	MonthlyInstallment decimal.Decimal
	Decision           Decision
	Loan               *loan.Loan
}

type CreditService interface {
	EvaluateEligibility(ctx context.Context, customerID int64, loanAmount decimal.Decimal, interestRate float64, tenure int) (*Decision, error)

	OriginateLoan(ctx context.Context, customerID int64, loanAmount decimal.Decimal, interestRate float64, tenure int) (*Origination, error)

	ComputeScore(ctx context.Context, customerID int64) (float64, error)
}

type Option func(*creditService)

// WithClock replaces the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *creditService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithOriginationRetries(n int) Option {
	return func(s *creditService) {
		if n > 0 {
			s.retries = n
		}
	}
}

func WithEventPublisher(pub event.EventPublisher) Option {
	return func(s *creditService) {
		if pub != nil {
			s.pub = pub
		}
	}
}

type creditService struct {
	customers customer.Repository
	loans     loan.Repository
	pub       event.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	retries   int
}

var _ CreditService = (*creditService)(nil)

func NewCreditService(customers customer.Repository, loans loan.Repository, logger *slog.Logger, opts ...Option) CreditService {
	if customers == nil || loans == nil {
		panic("credit service requires customer and loan repositories")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &creditService{
		customers: customers,
		loans:     loans,
		logger:    logger.With(slog.String("component", "creditService")),
		now:       time.Now,
		retries:   DefaultOriginationRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pub == nil {
		s.pub = event.NewLogPublisher(logger)
	}
	return s
}

func (s *creditService) EvaluateEligibility(ctx context.Context, customerID int64, loanAmount decimal.Decimal, interestRate float64, tenure int) (*Decision, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))

	if err := loan.ValidateTerms(loanAmount, interestRate, tenure); err != nil {
		log.WarnContext(ctx, "Eligibility request rejected by validation", slog.Any("error", err))
		return nil, err
	}

	profile, err := s.loadProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	d := Evaluate(profile, Request{LoanAmount: loanAmount, InterestRate: interestRate, Tenure: tenure}, s.now())
	monitoring.RecordDecision(d.Approved, string(d.Reason))

	log.InfoContext(ctx, "Eligibility evaluated",
		slog.Bool("approved", d.Approved),
		slog.Float64("score", d.Score),
		slog.String("reason", string(d.Reason)),
	)
	return &d, nil
}

func (s *creditService) ComputeScore(ctx context.Context, customerID int64) (float64, error) {
	profile, err := s.loadProfile(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return Score(profile, s.now()), nil
}

// OriginateLoan re-evaluates eligibility inside a transaction that locks the customer row and,
// when approved, inserts the loan and raises the customer's debt before committing. Write
// conflicts restart the whole attempt.
func (s *creditService) OriginateLoan(ctx context.Context, customerID int64, loanAmount decimal.Decimal, interestRate float64, tenure int) (*Origination, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))

	if err := loan.ValidateTerms(loanAmount, interestRate, tenure); err != nil {
		log.WarnContext(ctx, "Loan request rejected by validation", slog.Any("error", err))
		return nil, err
	}
	req := Request{LoanAmount: loanAmount, InterestRate: interestRate, Tenure: tenure}

	var (
		orig *Origination
		err  error
	)
	for attempt := 1; ; attempt++ {
		orig, err = s.originateOnce(ctx, customerID, req)
		if err == nil || !apperrors.IsRetryable(err) || attempt >= s.retries {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
			break
		}
		monitoring.RecordOriginationRetry()
		log.WarnContext(ctx, "Origination conflicted, retrying", slog.Int("attempt", attempt), slog.Any("error", err))
	}
	if err != nil {
		monitoring.RecordOrigination("error")
		log.ErrorContext(ctx, "Loan origination failed", slog.Any("error", err))
		return nil, err
	}

	monitoring.RecordDecision(orig.Approved, string(orig.Decision.Reason))
	if !orig.Approved {
		monitoring.RecordOrigination("rejected")
		log.InfoContext(ctx, "Loan declined", slog.String("reason", string(orig.Decision.Reason)))
		return orig, nil
	}

	monitoring.RecordOrigination("approved")
	log.InfoContext(ctx, "Loan originated", slog.Int64("loanID", *orig.LoanID))
	s.publishOriginated(ctx, orig)
	return orig, nil
}

func (s *creditService) originateOnce(ctx context.Context, customerID int64, req Request) (orig *Origination, err error) {
	tx, err := s.loans.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if p := recover(); p != nil {
			_ = s.loans.RollbackTx(ctx, tx)
			panic(p)
		}
		if !committed {
			if rbErr := s.loans.RollbackTx(ctx, tx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.WarnContext(ctx, "Rollback failed", slog.Any("error", rbErr))
			}
		}
	}()

	cust, err := s.customers.FindByIDForUpdate(ctx, tx, customerID)
	if err != nil {
		return nil, fmt.Errorf("could not lock customer %d: %w", customerID, err)
	}

	loans, err := s.loans.ListByCustomerInTx(ctx, tx, customerID)
	if err != nil {
		return nil, fmt.Errorf("could not read loans of customer %d: %w", customerID, err)
	}

	today := s.now()
	d := Evaluate(Profile{Customer: cust, Loans: loans}, req, today)
	orig = &Origination{
		CustomerID:         customerID,
		Approved:           d.Approved,
		Message:            d.Reason.Message(),
		MonthlyInstallment: d.MonthlyInstallment,
		Decision:           d,
	}
	if !d.Approved {
		return orig, nil
	}

	loanID, err := s.loans.NextLoanIDInTx(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("could not allocate loan id: %w", err)
	}

	l, err := loan.NewLoan(loanID, customerID, req.LoanAmount, d.CorrectedInterestRate, req.Tenure, d.MonthlyInstallment, today)
	if err != nil {
		return nil, err
	}

	if err = s.loans.InsertLoanInTx(ctx, tx, l); err != nil {
		return nil, fmt.Errorf("could not insert loan: %w", err)
	}

	if err = s.customers.UpdateDebtInTx(ctx, tx, customerID, req.LoanAmount); err != nil {
		return nil, fmt.Errorf("could not update debt of customer %d: %w", customerID, err)
	}

	if err = s.loans.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("could not commit origination: %w", err)
	}
	committed = true

	orig.LoanID = &l.LoanID
	orig.Loan = l
	return orig, nil
}

func (s *creditService) loadProfile(ctx context.Context, customerID int64) (Profile, error) {
	cust, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return Profile{}, fmt.Errorf("%w: customer %d", customer.ErrNotFound, customerID)
		}
		return Profile{}, fmt.Errorf("failed to load customer %d: %w", customerID, err)
	}

	loans, err := s.loans.ListByCustomer(ctx, customerID)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to load loans of customer %d: %w", customerID, err)
	}

	return Profile{Customer: cust, Loans: loans}, nil
}

func (s *creditService) publishOriginated(ctx context.Context, orig *Origination) {
	l := orig.Loan
	evt := event.NewLoanOriginatedEvent(event.LoanPayload{
		LoanID:            l.LoanID,
		CustomerID:        l.CustomerID,
		LoanAmount:        l.LoanAmount,
		InterestRate:      l.InterestRate,
		Tenure:            l.Tenure,
		MonthlyRepayment:  l.MonthlyRepayment,
		StartDate:         l.StartDate,
		EndDate:           l.EndDate,
		CreditScore:       orig.Decision.Score,
		InterestWasRaised: orig.Decision.CorrectedInterestRate > orig.Decision.InterestRate,
	})
	if err := s.pub.PublishLoanOriginated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Loan originated, but failed to publish event",
			slog.Int64("loanID", l.LoanID), slog.Any("error", err))
	}
}
