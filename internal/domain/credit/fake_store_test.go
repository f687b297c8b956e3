package credit

import (
	"context"
	"fmt"
	"sync"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// fakeStore behaves like a serializable database: a transaction holds txLock from BeginTx
// until it commits or rolls back, and its writes only become visible on commit.
type fakeStore struct {
	txLock sync.Mutex

	mu              sync.Mutex
	customers       map[int64]*customer.Customer
	loans           []*loan.Loan
	loanCounter     int64
	commitConflicts int
	begins          int
	commits         int
	rollbacks       int
}

type fakeTx struct {
	pgx.Tx
	nextLoanID int64
	loans      []*loan.Loan
	debt       map[int64]decimal.Decimal
	closed     bool
}

var (
	_ customer.Repository = (*fakeStore)(nil)
	_ loan.Repository     = (*fakeStore)(nil)
)

func newFakeStore(customers ...*customer.Customer) *fakeStore {
	s := &fakeStore{customers: make(map[int64]*customer.Customer)}
	for _, c := range customers {
		s.customers[c.CustomerID] = c
	}
	return s
}

func (s *fakeStore) customerSnapshot(id int64) customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.customers[id]
}

func (s *fakeStore) loanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loans)
}

func (s *fakeStore) Save(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.customers[c.CustomerID] = &cp
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, customerID int64) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, customer.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) FindByIDForUpdate(ctx context.Context, _ pgx.Tx, customerID int64) (*customer.Customer, error) {
	return s.FindByID(ctx, customerID)
}

func (s *fakeStore) FindAll(context.Context) ([]*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*customer.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customers, customerID)
	return nil
}

func (s *fakeStore) UpdateDebtInTx(_ context.Context, tx pgx.Tx, customerID int64, delta decimal.Decimal) error {
	ft := tx.(*fakeTx)
	ft.debt[customerID] = ft.debt[customerID].Add(delta)
	return nil
}

func (s *fakeStore) GetLoanByID(_ context.Context, loanID int64) (*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.loans {
		if l.LoanID == loanID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *fakeStore) ListByCustomer(_ context.Context, customerID int64) ([]*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loansOf(customerID, nil), nil
}

func (s *fakeStore) ListByCustomerInTx(_ context.Context, tx pgx.Tx, customerID int64) ([]*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loansOf(customerID, tx.(*fakeTx).loans), nil
}

func (s *fakeStore) loansOf(customerID int64, staged []*loan.Loan) []*loan.Loan {
	var out []*loan.Loan
	for _, l := range append(append([]*loan.Loan{}, s.loans...), staged...) {
		if l.CustomerID == customerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out
}

func (s *fakeStore) SumActiveLoanAmount(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	loans, _ := s.ListByCustomer(ctx, customerID)
	return Profile{Loans: loans}.activePrincipal(), nil
}

func (s *fakeStore) SumActiveMonthlyRepayment(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	loans, _ := s.ListByCustomer(ctx, customerID)
	return Profile{Loans: loans}.activeMonthlyRepayment(), nil
}

func (s *fakeStore) ListActive(context.Context) ([]*loan.Loan, error) { return nil, nil }

func (s *fakeStore) ListLate(context.Context) ([]*loan.Loan, error) { return nil, nil }

func (s *fakeStore) GetPortfolioStats(context.Context) (*loan.PortfolioStats, error) {
	return &loan.PortfolioStats{}, nil
}

func (s *fakeStore) NextLoanIDInTx(_ context.Context, tx pgx.Tx) (int64, error) {
	ft := tx.(*fakeTx)
	ft.nextLoanID++
	return ft.nextLoanID, nil
}

func (s *fakeStore) InsertLoanInTx(_ context.Context, tx pgx.Tx, l *loan.Loan) error {
	ft := tx.(*fakeTx)
	ft.loans = append(ft.loans, l)
	return nil
}

func (s *fakeStore) BeginTx(context.Context) (pgx.Tx, error) {
	s.txLock.Lock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begins++
	return &fakeTx{nextLoanID: s.loanCounter, debt: make(map[int64]decimal.Decimal)}, nil
}

func (s *fakeStore) CommitTx(_ context.Context, tx pgx.Tx) error {
	ft := tx.(*fakeTx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if ft.closed {
		return pgx.ErrTxClosed
	}
	if s.commitConflicts > 0 {
		s.commitConflicts--
		return fmt.Errorf("%w: could not serialize access", apperrors.ErrConflict)
	}

	s.loans = append(s.loans, ft.loans...)
	for id, delta := range ft.debt {
		s.customers[id].CurrentDebt = s.customers[id].CurrentDebt.Add(delta)
	}
	s.loanCounter = ft.nextLoanID
	s.commits++
	ft.closed = true
	s.txLock.Unlock()
	return nil
}

func (s *fakeStore) RollbackTx(_ context.Context, tx pgx.Tx) error {
	ft := tx.(*fakeTx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if ft.closed {
		return pgx.ErrTxClosed
	}
	s.rollbacks++
	ft.closed = true
	s.txLock.Unlock()
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	loans  []event.LoanOriginatedEvent
	failOn error
}

func (p *recordingPublisher) PublishCustomerRegistered(context.Context, event.CustomerRegisteredEvent) error {
	return nil
}

func (p *recordingPublisher) PublishLoanOriginated(_ context.Context, evt event.LoanOriginatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loans = append(p.loans, evt)
	return p.failOn
}

func (p *recordingPublisher) published() []event.LoanOriginatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.LoanOriginatedEvent(nil), p.loans...)
}
