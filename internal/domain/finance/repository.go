package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	Type        *TransactionType
	ImpactsCash *bool
	RawCategory string
	LotID       *uuid.UUID
	From        *time.Time // Reference date lower bound, inclusive
	To          *time.Time // Reference date upper bound, inclusive
	Limit       int
	Offset      int
}

// NaturalKey identifies a synced transaction independently of its UUID.
// Upstream modules do not carry our IDs, so idempotent sync dedupes on
// the tuple that makes a ledger row unique in practice.
type NaturalKey struct {
	ReferenceDate time.Time
	Description   string
	Amount        decimal.Decimal
	RawCategory   string
}

// TransactionRepository persists financial transactions
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialTransaction, error)
	// FindByPeriod returns every transaction whose accrual date or
	// confirmed cash flow date falls in the given month.
	FindByPeriod(ctx context.Context, year int, month time.Month) ([]FinancialTransaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]FinancialTransaction, int64, error)
	FindByNaturalKey(ctx context.Context, key NaturalKey) (*FinancialTransaction, error)
	Save(ctx context.Context, tx *FinancialTransaction) error
	SaveAll(ctx context.Context, txs []*FinancialTransaction) error
}

// AnalysisPeriodRepository persists integrated analysis periods
type AnalysisPeriodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*IntegratedAnalysisPeriod, error)
	FindByPeriod(ctx context.Context, year, month int) (*IntegratedAnalysisPeriod, error)
	FindByYear(ctx context.Context, year int) ([]IntegratedAnalysisPeriod, error)
	// FindByRange returns periods between the two (year, month) bounds,
	// inclusive, ordered chronologically.
	FindByRange(ctx context.Context, fromYear, fromMonth, toYear, toMonth int) ([]IntegratedAnalysisPeriod, error)
	// Upsert inserts the period or updates the existing row for the same
	// (reference_year, reference_month).
	Upsert(ctx context.Context, p *IntegratedAnalysisPeriod) error
	Save(ctx context.Context, p *IntegratedAnalysisPeriod) error
}
