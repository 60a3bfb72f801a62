package finance

import (
	"time"

	"github.com/feedlot/backend/internal/domain/shared"
	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ActivityFlow holds the cash movement of one activity bucket
type ActivityFlow struct {
	Receipts decimal.Decimal `json:"receipts"`
	Payments decimal.Decimal `json:"payments"`
	Net      decimal.Decimal `json:"net"` // Receipts - Payments
}

// CashFlowBreakdown splits the period's cash movement across the three
// standard activities
type CashFlowBreakdown struct {
	Operating ActivityFlow `json:"operating"`
	Investing ActivityFlow `json:"investing"`
	Financing ActivityFlow `json:"financing"`
}

// NetCashFlow returns the sum of the three activity nets
func (b CashFlowBreakdown) NetCashFlow() decimal.Decimal {
	return b.Operating.Net.Add(b.Investing.Net).Add(b.Financing.Net)
}

// TotalReceipts returns cash receipts across all activities
func (b CashFlowBreakdown) TotalReceipts() decimal.Decimal {
	return b.Operating.Receipts.Add(b.Investing.Receipts).Add(b.Financing.Receipts)
}

// TotalPayments returns cash payments across all activities
func (b CashFlowBreakdown) TotalPayments() decimal.Decimal {
	return b.Operating.Payments.Add(b.Investing.Payments).Add(b.Financing.Payments)
}

// ReconciliationResult ties accrual net income to cash flow for a period.
// Difference is an identity computed from the other three fields, never
// measured independently: a large difference signals pending accruals or
// data quality issues, not a computation error.
type ReconciliationResult struct {
	NetIncome          decimal.Decimal `json:"net_income"`
	NonCashAdjustments decimal.Decimal `json:"non_cash_adjustments"`
	NetCashFlow        decimal.Decimal `json:"net_cash_flow"`
	Difference         decimal.Decimal `json:"difference"` // NetIncome - NonCashAdjustments - NetCashFlow
}

// QualityMetrics grades how cleanly the period reconciles
type QualityMetrics struct {
	CashConversionRate     decimal.Decimal `json:"cash_conversion_rate"`    // NetCashFlow / NetIncome
	NonCashPortion         decimal.Decimal `json:"non_cash_portion"`        // NonCashAdjustments / TotalRevenue
	ReconciliationAccuracy decimal.Decimal `json:"reconciliation_accuracy"` // 1 - |Difference| / |NetIncome|, floored at 0
	WithinTolerance        bool            `json:"within_tolerance"`
}

// PeriodReconciliation is the full output of reconciling one period
type PeriodReconciliation struct {
	ReferenceYear  int                  `json:"reference_year"`
	ReferenceMonth int                  `json:"reference_month"`
	TotalRevenue   decimal.Decimal      `json:"total_revenue"`
	TotalExpenses  decimal.Decimal      `json:"total_expenses"`
	CashFlow       CashFlowBreakdown    `json:"cash_flow_breakdown"`
	NonCash        NonCashBreakdown     `json:"non_cash_breakdown"`
	Result         ReconciliationResult `json:"reconciliation"`
	Quality        QualityMetrics       `json:"quality_metrics"`
}

// ReconciliationEngineOption is a functional option for the engine
type ReconciliationEngineOption func(*ReconciliationEngine)

// WithDifferenceTolerance sets the absolute difference above which the
// period is flagged for manual review
func WithDifferenceTolerance(tolerance decimal.Decimal) ReconciliationEngineOption {
	return func(e *ReconciliationEngine) {
		if tolerance.IsPositive() {
			e.tolerance = tolerance
		}
	}
}

// ReconciliationEngine combines classification, cash splitting and
// non-cash collection into period reconciliations. It is a pure domain
// service: the result is a deterministic function of the transaction set.
type ReconciliationEngine struct {
	splitter  *Splitter
	collector *NonCashCollector
	tolerance decimal.Decimal
}

// NewReconciliationEngine creates an engine over the given classifier
func NewReconciliationEngine(classifier *Classifier, opts ...ReconciliationEngineOption) *ReconciliationEngine {
	splitter := NewSplitter(classifier)
	e := &ReconciliationEngine{
		splitter:  splitter,
		collector: NewNonCashCollector(splitter),
		tolerance: decimal.NewFromInt(1000), // Review threshold, not an error bound
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile computes the period reconciliation for the given month over
// the supplied transactions. Accrual membership follows the reference
// date; cash membership follows the confirmed cash flow date. The same
// transaction may appear in both sides, in neither, or in only one.
func (e *ReconciliationEngine) Reconcile(year int, month time.Month, transactions []FinancialTransaction) (*PeriodReconciliation, error) {
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if year < 1900 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Year is out of range")
	}

	rec := &PeriodReconciliation{
		ReferenceYear:  year,
		ReferenceMonth: int(month),
	}

	var accrual []FinancialTransaction
	for i := range transactions {
		tx := &transactions[i]

		if tx.AccruedIn(year, month) {
			accrual = append(accrual, *tx)
			if tx.IsIncome() {
				rec.TotalRevenue = rec.TotalRevenue.Add(tx.Amount)
			} else {
				rec.TotalExpenses = rec.TotalExpenses.Add(tx.Amount)
			}
		}

		if !tx.CashMovedIn(year, month) {
			continue
		}
		classification := e.splitter.Split(tx)
		if !classification.ImpactsCash {
			continue // Valuation write-off despite a recorded date
		}
		flow := e.flowFor(rec, classification.Activity)
		if tx.IsIncome() {
			flow.Receipts = flow.Receipts.Add(tx.Amount)
		} else {
			flow.Payments = flow.Payments.Add(tx.Amount)
		}
		flow.Net = flow.Receipts.Sub(flow.Payments)
	}

	rec.NonCash = e.collector.Collect(accrual)

	netIncome := rec.TotalRevenue.Sub(rec.TotalExpenses)
	netCashFlow := rec.CashFlow.NetCashFlow()
	nonCashAdjustments := rec.NonCash.Total()

	rec.Result = ReconciliationResult{
		NetIncome:          netIncome,
		NonCashAdjustments: nonCashAdjustments,
		NetCashFlow:        netCashFlow,
		Difference:         netIncome.Sub(nonCashAdjustments).Sub(netCashFlow),
	}
	rec.Quality = e.qualityMetrics(rec)

	return rec, nil
}

func (e *ReconciliationEngine) flowFor(rec *PeriodReconciliation, activity CashFlowActivity) *ActivityFlow {
	switch activity {
	case ActivityInvesting:
		return &rec.CashFlow.Investing
	case ActivityFinancing:
		return &rec.CashFlow.Financing
	default:
		return &rec.CashFlow.Operating
	}
}

func (e *ReconciliationEngine) qualityMetrics(rec *PeriodReconciliation) QualityMetrics {
	result := rec.Result

	accuracy := decimal.NewFromInt(1).Sub(
		valueobject.SafeDivWithFallback(
			result.Difference.Abs(),
			result.NetIncome.Abs(),
			decimal.NewFromInt(1), // Zero income with any difference scores zero accuracy
		),
	)
	if accuracy.IsNegative() {
		accuracy = decimal.Zero
	}
	if result.NetIncome.IsZero() && result.Difference.IsZero() {
		accuracy = decimal.NewFromInt(1)
	}

	return QualityMetrics{
		CashConversionRate:     valueobject.SafeDiv(result.NetCashFlow, result.NetIncome),
		NonCashPortion:         valueobject.SafeDiv(result.NonCashAdjustments, rec.TotalRevenue),
		ReconciliationAccuracy: accuracy,
		WithinTolerance:        result.Difference.Abs().LessThanOrEqual(e.tolerance),
	}
}
