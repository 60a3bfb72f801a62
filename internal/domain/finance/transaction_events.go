package finance

import (
	"time"

	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCreatedEvent is raised when a new financial transaction is created
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	ReferenceDate time.Time       `json:"reference_date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	RawCategory   string          `json:"raw_category"`
}

// EventType returns the event type name
func (e *TransactionCreatedEvent) EventType() string {
	return "FinancialTransactionCreated"
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(tx *FinancialTransaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FinancialTransactionCreated", "FinancialTransaction", tx.ID),
		TransactionID:   tx.ID,
		ReferenceDate:   tx.ReferenceDate,
		Amount:          tx.Amount,
		Type:            tx.Type,
		RawCategory:     tx.RawCategory,
	}
}

// TransactionCashConfirmedEvent is raised when a payment or receipt is confirmed
type TransactionCashConfirmedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	CashFlowDate  time.Time       `json:"cash_flow_date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
}

// EventType returns the event type name
func (e *TransactionCashConfirmedEvent) EventType() string {
	return "FinancialTransactionCashConfirmed"
}

// NewTransactionCashConfirmedEvent creates a new TransactionCashConfirmedEvent
func NewTransactionCashConfirmedEvent(tx *FinancialTransaction) *TransactionCashConfirmedEvent {
	cashFlowDate := time.Now()
	if tx.CashFlowDate != nil {
		cashFlowDate = *tx.CashFlowDate
	}
	return &TransactionCashConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FinancialTransactionCashConfirmed", "FinancialTransaction", tx.ID),
		TransactionID:   tx.ID,
		CashFlowDate:    cashFlowDate,
		Amount:          tx.Amount,
		Type:            tx.Type,
	}
}
