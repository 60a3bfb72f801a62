package persistence

import (
	"context"
	"fmt"
	"time"

	appfinance "github.com/feedlot/backend/internal/application/finance"
	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerSource reads upstream operational tables for the sync. All
// queries are read-only; those tables belong to the herd and commercial
// modules.
type GormLedgerSource struct {
	db *gorm.DB
}

// NewGormLedgerSource creates a new GormLedgerSource
func NewGormLedgerSource(db *gorm.DB) *GormLedgerSource {
	return &GormLedgerSource{db: db}
}

// FetchRevenues returns the month's sales and other income as ledger records
func (s *GormLedgerSource) FetchRevenues(ctx context.Context, year int, month time.Month) ([]appfinance.LedgerRecord, error) {
	start, end := monthBounds(year, month)

	var revenues []models.RevenueEntryModel
	if err := s.db.WithContext(ctx).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Order("sale_date ASC").
		Find(&revenues).Error; err != nil {
		return nil, err
	}

	out := make([]appfinance.LedgerRecord, 0, len(revenues))
	for _, rev := range revenues {
		category := rev.Category
		if category == "" {
			category = "cattle_sales"
		}
		out = append(out, appfinance.LedgerRecord{
			ReferenceDate: rev.SaleDate,
			Description:   rev.Description,
			Amount:        rev.TotalValue,
			Type:          finance.TransactionTypeIncome,
			RawCategory:   category,
			CashFlowDate:  rev.ReceivedAt,
			LotID:         rev.LotID,
		})
	}
	return out, nil
}

// FetchCattlePurchases returns the month's lot acquisitions as ledger
// records. Freight and commission ride on separate records so they land
// in their own accounting groups.
func (s *GormLedgerSource) FetchCattlePurchases(ctx context.Context, year int, month time.Month) ([]appfinance.LedgerRecord, error) {
	start, end := monthBounds(year, month)

	var purchases []models.CattlePurchaseModel
	if err := s.db.WithContext(ctx).
		Where("purchase_date >= ? AND purchase_date < ?", start, end).
		Order("purchase_date ASC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}

	var out []appfinance.LedgerRecord
	for _, p := range purchases {
		lotID := p.LotID
		out = append(out, appfinance.LedgerRecord{
			ReferenceDate: p.PurchaseDate,
			Description:   purchaseDescription(&p, "Compra de Gado"),
			Amount:        p.TotalCost,
			Type:          finance.TransactionTypeExpense,
			RawCategory:   "cattle_purchase",
			CashFlowDate:  p.PaidAt,
			LotID:         &lotID,
		})
		if p.Freight.IsPositive() {
			out = append(out, appfinance.LedgerRecord{
				ReferenceDate: p.PurchaseDate,
				Description:   purchaseDescription(&p, "Frete de Gado"),
				Amount:        p.Freight,
				Type:          finance.TransactionTypeExpense,
				RawCategory:   "freight",
				CashFlowDate:  p.PaidAt,
				LotID:         &lotID,
			})
		}
		if p.Commission.IsPositive() {
			out = append(out, appfinance.LedgerRecord{
				ReferenceDate: p.PurchaseDate,
				Description:   purchaseDescription(&p, "Comissão de Compra"),
				Amount:        p.Commission,
				Type:          finance.TransactionTypeExpense,
				RawCategory:   "commission",
				CashFlowDate:  p.PaidAt,
				LotID:         &lotID,
			})
		}
	}
	return out, nil
}

// FetchExpenses returns the month's operating expenses as ledger records
func (s *GormLedgerSource) FetchExpenses(ctx context.Context, year int, month time.Month) ([]appfinance.LedgerRecord, error) {
	start, end := monthBounds(year, month)

	var expenses []models.ExpenseEntryModel
	if err := s.db.WithContext(ctx).
		Where("expense_date >= ? AND expense_date < ?", start, end).
		Order("expense_date ASC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	out := make([]appfinance.LedgerRecord, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, appfinance.LedgerRecord{
			ReferenceDate: e.ExpenseDate,
			Description:   e.Description,
			Amount:        e.Amount,
			Type:          finance.TransactionTypeExpense,
			RawCategory:   e.Category,
			CashFlowDate:  e.PaidAt,
			LotID:         e.LotID,
		})
	}
	return out, nil
}

// FetchDeaths returns the month's mortality events joined with their
// lot's cost basis
func (s *GormLedgerSource) FetchDeaths(ctx context.Context, year int, month time.Month) ([]appfinance.MortalityRecord, error) {
	start, end := monthBounds(year, month)

	var rows []struct {
		models.DeathRecordModel
		LotNumber       string
		TotalCost       decimal.Decimal
		InitialQuantity int
	}
	if err := s.db.WithContext(ctx).
		Table("death_records").
		Select("death_records.*, cattle_lots.lot_number, cattle_lots.total_cost, cattle_lots.initial_quantity").
		Joins("JOIN cattle_lots ON cattle_lots.id = death_records.lot_id").
		Where("death_records.death_date >= ? AND death_records.death_date < ?", start, end).
		Order("death_records.death_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]appfinance.MortalityRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, appfinance.MortalityRecord{
			DeathDate:          row.DeathDate,
			Quantity:           row.Quantity,
			LotID:              row.LotID,
			LotDescription:     "Lote " + row.LotNumber,
			LotTotalCost:       row.TotalCost,
			LotInitialQuantity: row.InitialQuantity,
		})
	}
	return out, nil
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func purchaseDescription(p *models.CattlePurchaseModel, prefix string) string {
	if p.SupplierName != "" {
		return fmt.Sprintf("%s - %s", prefix, p.SupplierName)
	}
	return fmt.Sprintf("%s - %s", prefix, p.LotID)
}

var _ appfinance.LedgerSource = (*GormLedgerSource)(nil)
var _ appfinance.MortalitySource = (*GormLedgerSource)(nil)
