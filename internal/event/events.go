package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	routingKeyCustomerRegistered = "customer.registered"
	routingKeyLoanOriginated     = "loan.originated"
	publisherAppID               = "credit-engine"
)

type EventPublisher interface {
	PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error
	PublishLoanOriginated(ctx context.Context, event LoanOriginatedEvent) error
}

type CustomerPayload struct {
	CustomerID    int64           `json:"customer_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

type CustomerRegisteredEvent struct {
	EventID   string          `json:"event_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   CustomerPayload `json:"payload"`
}

type LoanPayload struct {
	LoanID            int64           `json:"loan_id"`
	CustomerID        int64           `json:"customer_id"`
	LoanAmount        decimal.Decimal `json:"loan_amount"`
	InterestRate      float64         `json:"interest_rate"`
	Tenure            int             `json:"tenure"`
	MonthlyRepayment  decimal.Decimal `json:"monthly_repayment"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	CreditScore       float64         `json:"credit_score"`
	InterestWasRaised bool            `json:"interest_was_raised"`
}

type LoanOriginatedEvent struct {
	EventID   string      `json:"event_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   LoanPayload `json:"payload"`
}

func NewCustomerRegisteredEvent(payload CustomerPayload) CustomerRegisteredEvent {
	return CustomerRegisteredEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

func NewLoanOriginatedEvent(payload LoanPayload) LoanOriginatedEvent {
	return LoanOriginatedEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
