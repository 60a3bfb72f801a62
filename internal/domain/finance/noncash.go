package finance

import (
	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// NonCashBreakdown aggregates the period's valuation adjustments that
// affect accrual income but never move cash
type NonCashBreakdown struct {
	Depreciation          decimal.Decimal `json:"depreciation"`
	Mortality             decimal.Decimal `json:"mortality"`
	BiologicalAdjustments decimal.Decimal `json:"biological_adjustments"`
	Other                 decimal.Decimal `json:"other"`
}

// Total returns the sum of all non-cash buckets
func (b NonCashBreakdown) Total() decimal.Decimal {
	return b.Depreciation.
		Add(b.Mortality).
		Add(b.BiologicalAdjustments).
		Add(b.Other)
}

// NonCashCollector sums non-cash transactions into their buckets
type NonCashCollector struct {
	splitter *Splitter
}

// NewNonCashCollector creates a collector over the given splitter
func NewNonCashCollector(splitter *Splitter) *NonCashCollector {
	return &NonCashCollector{splitter: splitter}
}

// Collect buckets the absolute amounts of all non-cash transactions in
// the given set. Callers are expected to pass transactions already
// filtered to the period of interest.
func (c *NonCashCollector) Collect(transactions []FinancialTransaction) NonCashBreakdown {
	var breakdown NonCashBreakdown
	for i := range transactions {
		classification := c.splitter.Split(&transactions[i])
		if !classification.NonCash {
			continue
		}
		amount := transactions[i].Amount.Abs()
		switch classification.NonCashKind {
		case NonCashDepreciation:
			breakdown.Depreciation = breakdown.Depreciation.Add(amount)
		case NonCashMortality:
			breakdown.Mortality = breakdown.Mortality.Add(amount)
		case NonCashBiological:
			breakdown.BiologicalAdjustments = breakdown.BiologicalAdjustments.Add(amount)
		default:
			breakdown.Other = breakdown.Other.Add(amount)
		}
	}
	return breakdown
}

// MortalityValuation values a death event at the lot's simple average
// cost per head: lot total cost divided by the lot's initial head count,
// times the number of animals lost. The simple-average method matches
// historical statements; switching to FIFO or time-weighted cost would
// silently restate prior periods.
func MortalityValuation(quantityLost int, lotTotalCost valueobject.Money, lotInitialQuantity int) (valueobject.Money, error) {
	if quantityLost < 0 {
		return valueobject.ZeroBRL(), shared.NewDomainError("INVALID_QUANTITY", "Quantity lost cannot be negative")
	}
	if lotInitialQuantity <= 0 {
		return valueobject.ZeroBRL(), shared.NewDomainError("INVALID_QUANTITY", "Lot initial quantity must be positive")
	}
	costPerHead := valueobject.SafeDiv(lotTotalCost.Amount(), decimal.NewFromInt(int64(lotInitialQuantity)))
	return valueobject.NewMoneyBRL(costPerHead.Mul(decimal.NewFromInt(int64(quantityLost)))), nil
}
