package finance

import (
	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// IncomeStatement is the managerial income statement (DRE) for one
// period, laid out as the standard feedlot waterfall from gross revenue
// down to net result.
type IncomeStatement struct {
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	OtherRevenue decimal.Decimal `json:"other_revenue"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`

	AcquisitionCosts     decimal.Decimal `json:"acquisition_costs"`
	LogisticsCosts       decimal.Decimal `json:"logistics_costs"`
	CommissionCosts      decimal.Decimal `json:"commission_costs"`
	TotalAcquisitionCost decimal.Decimal `json:"total_acquisition_cost"`

	GrossResult    decimal.Decimal `json:"gross_result"`
	GrossMarginPct decimal.Decimal `json:"gross_margin_pct"`

	ProductionExpenses     decimal.Decimal `json:"production_expenses"`
	OperationalLosses      decimal.Decimal `json:"operational_losses"`
	AdministrativeExpenses decimal.Decimal `json:"administrative_expenses"`
	TotalOperatingExpenses decimal.Decimal `json:"total_operating_expenses"`

	OperatingResult    decimal.Decimal `json:"operating_result"`
	OperatingMarginPct decimal.Decimal `json:"operating_margin_pct"`

	FinancialExpenses decimal.Decimal `json:"financial_expenses"`

	NetResult    decimal.Decimal `json:"net_result"`
	NetMarginPct decimal.Decimal `json:"net_margin_pct"`
}

// IncomeStatementBuilder assembles income statements from classified
// transaction totals
type IncomeStatementBuilder struct {
	classifier *Classifier
}

// NewIncomeStatementBuilder creates a builder over the given classifier
func NewIncomeStatementBuilder(classifier *Classifier) *IncomeStatementBuilder {
	return &IncomeStatementBuilder{classifier: classifier}
}

// Build computes the income statement waterfall over the given accrual
// transactions. Gross and operating results are measured against gross
// revenue only; other revenue enters at the net-result line and widens
// the net margin denominator to total revenue. All margins guard the
// zero-revenue period. Infrastructure spending is capital expenditure
// and stays out of the waterfall; it surfaces on the cash-flow side.
func (b *IncomeStatementBuilder) Build(transactions []FinancialTransaction) IncomeStatement {
	totals := b.classifier.GroupTotals(transactions)

	var dre IncomeStatement
	dre.GrossRevenue = totals[GroupOperationalRevenue]
	dre.OtherRevenue = totals[GroupOtherRevenue]
	dre.TotalRevenue = dre.GrossRevenue.Add(dre.OtherRevenue)

	dre.AcquisitionCosts = totals[GroupAcquisitionCosts]
	dre.LogisticsCosts = totals[GroupLogisticsCosts]
	dre.CommissionCosts = totals[GroupCommissionCosts]
	dre.TotalAcquisitionCost = dre.AcquisitionCosts.
		Add(dre.LogisticsCosts).
		Add(dre.CommissionCosts)

	dre.GrossResult = dre.GrossRevenue.Sub(dre.TotalAcquisitionCost)
	dre.GrossMarginPct = valueobject.SafePercent(dre.GrossResult, dre.GrossRevenue)

	dre.ProductionExpenses = totals[GroupProductionExpenses]
	dre.OperationalLosses = totals[GroupOperationalLosses]
	dre.AdministrativeExpenses = totals[GroupAdminExpenses]
	dre.TotalOperatingExpenses = dre.ProductionExpenses.
		Add(dre.OperationalLosses).
		Add(dre.AdministrativeExpenses)

	dre.OperatingResult = dre.GrossResult.Sub(dre.TotalOperatingExpenses)
	dre.OperatingMarginPct = valueobject.SafePercent(dre.OperatingResult, dre.GrossRevenue)

	dre.FinancialExpenses = totals[GroupFinancialExpenses]

	dre.NetResult = dre.OperatingResult.Sub(dre.FinancialExpenses).Add(dre.OtherRevenue)
	dre.NetMarginPct = valueobject.SafePercent(dre.NetResult, dre.TotalRevenue)

	return dre
}
