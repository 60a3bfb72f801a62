package finance

import (
	"fmt"
	"time"

	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction is income or expense
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// FinancialTransaction represents one ledger movement aggregate root.
// A transaction is immutable once created, except for payment/receipt
// confirmation which sets the cash flow date, and the reconciled flag.
type FinancialTransaction struct {
	shared.BaseAggregateRoot
	ReferenceDate time.Time       `json:"reference_date"` // Accrual date
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"` // Always positive; sign comes from Type
	Type          TransactionType `json:"type"`
	RawCategory   string          `json:"raw_category"`
	ImpactsCash   bool            `json:"impacts_cash"`
	CashFlowDate  *time.Time      `json:"cash_flow_date"`
	IsReconciled  bool            `json:"is_reconciled"`
	LotID         *uuid.UUID      `json:"lot_id"` // Cost center: the purchased livestock batch
	Notes         string          `json:"notes"`
}

// NewFinancialTransaction creates a new accrual-only transaction.
// It does not impact cash until ConfirmCashMovement is called.
func NewFinancialTransaction(
	referenceDate time.Time,
	description string,
	amount valueobject.Money,
	txType TransactionType,
	rawCategory string,
) (*FinancialTransaction, error) {
	if referenceDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_DATE", "Reference date cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Transaction type is not valid")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	tx := &FinancialTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceDate:     referenceDate,
		Description:       description,
		Amount:            amount.Amount(),
		Type:              txType,
		RawCategory:       rawCategory,
	}

	tx.AddDomainEvent(NewTransactionCreatedEvent(tx))

	return tx, nil
}

// NewCashTransaction creates a transaction whose cash movement is already
// confirmed (e.g. a sale received or a purchase paid on the spot).
func NewCashTransaction(
	referenceDate time.Time,
	description string,
	amount valueobject.Money,
	txType TransactionType,
	rawCategory string,
	cashFlowDate time.Time,
) (*FinancialTransaction, error) {
	tx, err := NewFinancialTransaction(referenceDate, description, amount, txType, rawCategory)
	if err != nil {
		return nil, err
	}
	if err := tx.ConfirmCashMovement(cashFlowDate); err != nil {
		return nil, err
	}
	return tx, nil
}

// ConfirmCashMovement records that the transaction was actually paid or
// received on the given date. This is the only permitted mutation of a
// transaction's financial content.
func (t *FinancialTransaction) ConfirmCashMovement(cashFlowDate time.Time) error {
	if cashFlowDate.IsZero() {
		return shared.NewDomainError("INVALID_CASH_FLOW_DATE", "Cash flow date cannot be empty")
	}
	if t.ImpactsCash && t.CashFlowDate != nil {
		return shared.NewDomainError("ALREADY_CONFIRMED",
			fmt.Sprintf("Cash movement already confirmed on %s", t.CashFlowDate.Format("2006-01-02")))
	}

	now := time.Now()
	t.ImpactsCash = true
	t.CashFlowDate = &cashFlowDate
	t.UpdatedAt = now

	t.AddDomainEvent(NewTransactionCashConfirmedEvent(t))

	return nil
}

// MarkReconciled flags the transaction as included in a generated analysis
func (t *FinancialTransaction) MarkReconciled() {
	t.IsReconciled = true
	t.UpdatedAt = time.Now()
}

// SetLot attributes the transaction to a livestock lot (cost center)
func (t *FinancialTransaction) SetLot(lotID uuid.UUID) {
	t.LotID = &lotID
	t.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes
func (t *FinancialTransaction) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
}

// SignedAmount returns the amount with its accounting sign: positive for
// income, negative for expense.
func (t *FinancialTransaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// GetAmountMoney returns the amount as Money
func (t *FinancialTransaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(t.Amount)
}

// IsIncome returns true for income transactions
func (t *FinancialTransaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense returns true for expense transactions
func (t *FinancialTransaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// AccruedIn returns true if the transaction's accrual date falls in the
// given month.
func (t *FinancialTransaction) AccruedIn(year int, month time.Month) bool {
	return t.ReferenceDate.Year() == year && t.ReferenceDate.Month() == month
}

// CashMovedIn returns true if the transaction has a confirmed cash flow
// date falling in the given month.
func (t *FinancialTransaction) CashMovedIn(year int, month time.Month) bool {
	if !t.ImpactsCash || t.CashFlowDate == nil {
		return false
	}
	return t.CashFlowDate.Year() == year && t.CashFlowDate.Month() == month
}
