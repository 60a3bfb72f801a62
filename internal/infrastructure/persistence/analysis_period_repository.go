package persistence

import (
	"context"
	"errors"

	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAnalysisPeriodRepository implements finance.AnalysisPeriodRepository using GORM
type GormAnalysisPeriodRepository struct {
	db *gorm.DB
}

// NewGormAnalysisPeriodRepository creates a new GormAnalysisPeriodRepository
func NewGormAnalysisPeriodRepository(db *gorm.DB) *GormAnalysisPeriodRepository {
	return &GormAnalysisPeriodRepository{db: db}
}

// FindByID finds a period by its ID. Returns nil when not found.
func (r *GormAnalysisPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.IntegratedAnalysisPeriod, error) {
	var model models.IntegratedAnalysisPeriodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod finds the period for one reference month. Returns nil when
// the month was never generated.
func (r *GormAnalysisPeriodRepository) FindByPeriod(ctx context.Context, year, month int) (*finance.IntegratedAnalysisPeriod, error) {
	var model models.IntegratedAnalysisPeriodModel
	if err := r.db.WithContext(ctx).
		Where("reference_year = ? AND reference_month = ?", year, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByYear returns every generated period of a year in month order
func (r *GormAnalysisPeriodRepository) FindByYear(ctx context.Context, year int) ([]finance.IntegratedAnalysisPeriod, error) {
	var periodModels []models.IntegratedAnalysisPeriodModel
	if err := r.db.WithContext(ctx).
		Where("reference_year = ?", year).
		Order("reference_month ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}
	return toDomainPeriods(periodModels), nil
}

// FindByRange returns periods between the two month bounds, inclusive,
// ordered chronologically. The bounds are spelled out per column so the
// (reference_year, reference_month) index stays usable.
func (r *GormAnalysisPeriodRepository) FindByRange(ctx context.Context, fromYear, fromMonth, toYear, toMonth int) ([]finance.IntegratedAnalysisPeriod, error) {
	var periodModels []models.IntegratedAnalysisPeriodModel
	if err := r.db.WithContext(ctx).
		Where("reference_year > ? OR (reference_year = ? AND reference_month >= ?)", fromYear, fromYear, fromMonth).
		Where("reference_year < ? OR (reference_year = ? AND reference_month <= ?)", toYear, toYear, toMonth).
		Order("reference_year ASC, reference_month ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}
	return toDomainPeriods(periodModels), nil
}

// Upsert inserts the period or replaces the existing row for the same
// reference month. The (reference_year, reference_month) unique index
// backs the conflict target.
func (r *GormAnalysisPeriodRepository) Upsert(ctx context.Context, p *finance.IntegratedAnalysisPeriod) error {
	model := models.IntegratedAnalysisPeriodModelFromDomain(p)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reference_year"}, {Name: "reference_month"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"cycle_id",
				"total_revenue", "total_expenses",
				"net_income", "net_cash_flow", "non_cash_adjustments", "difference",
				"cash_flow", "non_cash", "income_statement", "quality",
				"include_non_cash_items", "status", "generated_at", "notes",
				"version", "updated_at",
			}),
		}).
		Create(model).Error
}

// Save creates or updates a period by primary key
func (r *GormAnalysisPeriodRepository) Save(ctx context.Context, p *finance.IntegratedAnalysisPeriod) error {
	model := models.IntegratedAnalysisPeriodModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

func toDomainPeriods(periodModels []models.IntegratedAnalysisPeriodModel) []finance.IntegratedAnalysisPeriod {
	out := make([]finance.IntegratedAnalysisPeriod, len(periodModels))
	for i := range periodModels {
		out[i] = *periodModels[i].ToDomain()
	}
	return out
}
