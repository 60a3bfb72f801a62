package finance

import (
	"context"
	"time"

	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerRecord is one upstream accrual entry pulled during sync.
// Revenues, cattle purchases and expenses all map into this shape.
type LedgerRecord struct {
	ReferenceDate time.Time
	Description   string
	Amount        decimal.Decimal
	Type          finance.TransactionType
	RawCategory   string
	CashFlowDate  *time.Time // Nil when not yet paid or received
	LotID         *uuid.UUID
}

// MortalityRecord is one upstream death event pulled during sync
type MortalityRecord struct {
	DeathDate          time.Time
	Quantity           int
	LotID              uuid.UUID
	LotDescription     string
	LotTotalCost       decimal.Decimal
	LotInitialQuantity int
}

// LedgerSource reads accrual entries from the upstream operational modules
type LedgerSource interface {
	FetchRevenues(ctx context.Context, year int, month time.Month) ([]LedgerRecord, error)
	FetchCattlePurchases(ctx context.Context, year int, month time.Month) ([]LedgerRecord, error)
	FetchExpenses(ctx context.Context, year int, month time.Month) ([]LedgerRecord, error)
}

// MortalitySource reads death events from the herd module
type MortalitySource interface {
	FetchDeaths(ctx context.Context, year int, month time.Month) ([]MortalityRecord, error)
}

// SyncResult summarizes one sync run
type SyncResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"` // Already present under the same natural key
}

// TransactionSyncService pulls upstream operational records into the
// financial transaction ledger. Sync is idempotent: records are deduped
// on their natural key, so re-running a period creates nothing new.
type TransactionSyncService struct {
	txRepo          finance.TransactionRepository
	ledgerSource    LedgerSource
	mortalitySource MortalitySource
	logger          *zap.Logger
}

// NewTransactionSyncService creates a new TransactionSyncService
func NewTransactionSyncService(
	txRepo finance.TransactionRepository,
	ledgerSource LedgerSource,
	mortalitySource MortalitySource,
	logger *zap.Logger,
) *TransactionSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionSyncService{
		txRepo:          txRepo,
		ledgerSource:    ledgerSource,
		mortalitySource: mortalitySource,
		logger:          logger,
	}
}

// SyncPeriod pulls all upstream records for the given month into the
// transaction ledger
func (s *TransactionSyncService) SyncPeriod(ctx context.Context, year int, month time.Month) (*SyncResult, error) {
	result := &SyncResult{}

	fetchers := []func(context.Context, int, time.Month) ([]LedgerRecord, error){
		s.ledgerSource.FetchRevenues,
		s.ledgerSource.FetchCattlePurchases,
		s.ledgerSource.FetchExpenses,
	}
	for _, fetch := range fetchers {
		records, err := fetch(ctx, year, month)
		if err != nil {
			return nil, err
		}
		if err := s.importLedgerRecords(ctx, records, result); err != nil {
			return nil, err
		}
	}

	deaths, err := s.mortalitySource.FetchDeaths(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if err := s.importMortalityRecords(ctx, deaths, result); err != nil {
		return nil, err
	}

	s.logger.Info("period sync completed",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

func (s *TransactionSyncService) importLedgerRecords(ctx context.Context, records []LedgerRecord, result *SyncResult) error {
	for _, rec := range records {
		key := finance.NaturalKey{
			ReferenceDate: rec.ReferenceDate,
			Description:   rec.Description,
			Amount:        rec.Amount,
			RawCategory:   rec.RawCategory,
		}
		existing, err := s.txRepo.FindByNaturalKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		var tx *finance.FinancialTransaction
		amount := valueobject.NewMoneyBRL(rec.Amount)
		if rec.CashFlowDate != nil {
			tx, err = finance.NewCashTransaction(rec.ReferenceDate, rec.Description, amount, rec.Type, rec.RawCategory, *rec.CashFlowDate)
		} else {
			tx, err = finance.NewFinancialTransaction(rec.ReferenceDate, rec.Description, amount, rec.Type, rec.RawCategory)
		}
		if err != nil {
			s.logger.Warn("skipping invalid upstream record",
				zap.String("description", rec.Description),
				zap.Error(err))
			result.Skipped++
			continue
		}
		if rec.LotID != nil {
			tx.SetLot(*rec.LotID)
		}

		if err := s.txRepo.Save(ctx, tx); err != nil {
			return err
		}
		result.Created++
	}
	return nil
}

func (s *TransactionSyncService) importMortalityRecords(ctx context.Context, records []MortalityRecord, result *SyncResult) error {
	for _, rec := range records {
		value, err := finance.MortalityValuation(rec.Quantity, valueobject.NewMoneyBRL(rec.LotTotalCost), rec.LotInitialQuantity)
		if err != nil {
			s.logger.Warn("skipping invalid death record",
				zap.String("lot", rec.LotID.String()),
				zap.Error(err))
			result.Skipped++
			continue
		}
		if value.IsZero() {
			result.Skipped++
			continue
		}

		description := mortalityDescription(rec)
		key := finance.NaturalKey{
			ReferenceDate: rec.DeathDate,
			Description:   description,
			Amount:        value.Amount(),
			RawCategory:   "mortality",
		}
		existing, err := s.txRepo.FindByNaturalKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		tx, err := finance.NewFinancialTransaction(rec.DeathDate, description, value, finance.TransactionTypeExpense, "mortality")
		if err != nil {
			result.Skipped++
			continue
		}
		lotID := rec.LotID
		tx.SetLot(lotID)

		if err := s.txRepo.Save(ctx, tx); err != nil {
			return err
		}
		result.Created++
	}
	return nil
}

func mortalityDescription(rec MortalityRecord) string {
	label := rec.LotDescription
	if label == "" {
		label = rec.LotID.String()
	}
	return "Mortalidade: " + label
}
