package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID. Returns nil when not found.
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod returns every transaction that touches the given month on
// either the accrual or the cash side
func (r *GormTransactionRepository) FindByPeriod(ctx context.Context, year int, month time.Month) ([]finance.FinancialTransaction, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var txModels []models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).
		Where("(reference_date >= ? AND reference_date < ?) OR (cash_flow_date >= ? AND cash_flow_date < ?)",
			start, end, start, end).
		Order("reference_date ASC, created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindAll returns a filtered, paged transaction listing with the total row count
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.FinancialTransaction, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("reference_date DESC, created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var txModels []models.FinancialTransactionModel
	if err := query.Find(&txModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainTransactions(txModels), total, nil
}

// FindByNaturalKey finds a transaction by the tuple that identifies a
// synced ledger row. Returns nil when not found.
func (r *GormTransactionRepository) FindByNaturalKey(ctx context.Context, key finance.NaturalKey) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).
		Where("reference_date = ? AND description = ? AND amount = ? AND raw_category = ?",
			key.ReferenceDate, key.Description, key.Amount, key.RawCategory).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.FinancialTransaction) error {
	model := models.FinancialTransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll persists a batch of transactions in one database transaction
func (r *GormTransactionRepository) SaveAll(ctx context.Context, txs []*finance.FinancialTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		for _, tx := range txs {
			if err := dbTx.Save(models.FinancialTransactionModelFromDomain(tx)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ImpactsCash != nil {
		query = query.Where("impacts_cash = ?", *filter.ImpactsCash)
	}
	if filter.RawCategory != "" {
		query = query.Where("raw_category ILIKE ?", "%"+filter.RawCategory+"%")
	}
	if filter.LotID != nil {
		query = query.Where("lot_id = ?", *filter.LotID)
	}
	if filter.From != nil {
		query = query.Where("reference_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("reference_date <= ?", *filter.To)
	}
	return query
}

func toDomainTransactions(txModels []models.FinancialTransactionModel) []finance.FinancialTransaction {
	out := make([]finance.FinancialTransaction, len(txModels))
	for i := range txModels {
		out[i] = *txModels[i].ToDomain()
	}
	return out
}
