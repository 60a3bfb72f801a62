package finance

import (
	"testing"
	"time"

	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPeriodTransaction(t *testing.T, txType TransactionType, rawCategory string, amount float64, refDate time.Time, cashDate *time.Time) FinancialTransaction {
	var tx *FinancialTransaction
	var err error
	if cashDate != nil {
		tx, err = NewCashTransaction(refDate, "Period transaction", valueobject.NewMoneyBRLFromFloat(amount), txType, rawCategory, *cashDate)
	} else {
		tx, err = NewFinancialTransaction(refDate, "Period transaction", valueobject.NewMoneyBRLFromFloat(amount), txType, rawCategory)
	}
	require.NoError(t, err)
	return *tx
}

func TestReconciliationEngineValidation(t *testing.T) {
	engine := NewReconciliationEngine(NewDefaultClassifier())

	_, err := engine.Reconcile(2025, 13, nil)
	assert.Error(t, err)

	_, err = engine.Reconcile(1500, time.March, nil)
	assert.Error(t, err)
}

func TestReconciliationEngineEmptyPeriod(t *testing.T) {
	engine := NewReconciliationEngine(NewDefaultClassifier())

	rec, err := engine.Reconcile(2025, time.March, nil)
	require.NoError(t, err)

	assert.True(t, rec.Result.NetIncome.IsZero())
	assert.True(t, rec.Result.NetCashFlow.IsZero())
	assert.True(t, rec.Result.Difference.IsZero())
	assert.True(t, rec.Quality.CashConversionRate.IsZero())
	assert.True(t, rec.Quality.NonCashPortion.IsZero())
	assert.True(t, rec.Quality.ReconciliationAccuracy.Equal(decimal.NewFromInt(1)))
	assert.True(t, rec.Quality.WithinTolerance)
}

func TestReconciliationEngineAccrualVsCashMembership(t *testing.T) {
	engine := NewReconciliationEngine(NewDefaultClassifier())

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	transactions := []FinancialTransaction{
		// Sold in March, received in March: both sides
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 50000, march, &march),
		// Sold in March, received in April: accrual only for March
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 30000, march, &april),
		// Sold in February, received in March: cash only for March
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 20000,
			time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), &march),
		// Unpaid March expense: accrual only
		createPeriodTransaction(t, TransactionTypeExpense, "Frete", 4000, march, nil),
	}

	rec, err := engine.Reconcile(2025, time.March, transactions)
	require.NoError(t, err)

	assert.True(t, rec.TotalRevenue.Equal(decimal.NewFromInt(80000)), "accrual revenue: 50000 + 30000")
	assert.True(t, rec.TotalExpenses.Equal(decimal.NewFromInt(4000)))
	assert.True(t, rec.CashFlow.Operating.Receipts.Equal(decimal.NewFromInt(70000)), "cash receipts: 50000 + 20000")
	assert.True(t, rec.CashFlow.Operating.Payments.IsZero())
	assert.True(t, rec.Result.NetIncome.Equal(decimal.NewFromInt(76000)))
	assert.True(t, rec.Result.NetCashFlow.Equal(decimal.NewFromInt(70000)))
}

func TestReconciliationEngineActivityBuckets(t *testing.T) {
	engine := NewReconciliationEngine(NewDefaultClassifier())

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	transactions := []FinancialTransaction{
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 100000, march, &march),
		createPeriodTransaction(t, TransactionTypeExpense, "Ração", 20000, march, &march),
		createPeriodTransaction(t, TransactionTypeExpense, "Equipamentos", 15000, march, &march),
		createPeriodTransaction(t, TransactionTypeExpense, "Juros e Multas", 3000, march, &march),
	}

	rec, err := engine.Reconcile(2025, time.March, transactions)
	require.NoError(t, err)

	assert.True(t, rec.CashFlow.Operating.Net.Equal(decimal.NewFromInt(80000)))
	assert.True(t, rec.CashFlow.Investing.Net.Equal(decimal.NewFromInt(-15000)))
	assert.True(t, rec.CashFlow.Financing.Net.Equal(decimal.NewFromInt(-3000)))
	assert.True(t, rec.CashFlow.NetCashFlow().Equal(decimal.NewFromInt(62000)))
}

func TestReconciliationEngineBridgeIdentity(t *testing.T) {
	engine := NewReconciliationEngine(NewDefaultClassifier())

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// Accrual: 50,000 revenue, 45,000 expenses (5,000 of it mortality).
	// Cash: a 15,000 receipt from a prior-month sale also lands in March.
	transactions := []FinancialTransaction{
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 50000, march, nil),
		createPeriodTransaction(t, TransactionTypeExpense, "Ração", 40000, march, nil),
		createPeriodTransaction(t, TransactionTypeExpense, "Mortalidade", 5000, march, nil),
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 15000,
			time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), &march),
	}

	rec, err := engine.Reconcile(2025, time.March, transactions)
	require.NoError(t, err)

	assert.True(t, rec.Result.NetIncome.Equal(decimal.NewFromInt(5000)))
	assert.True(t, rec.Result.NonCashAdjustments.Equal(decimal.NewFromInt(5000)))
	assert.True(t, rec.Result.NetCashFlow.Equal(decimal.NewFromInt(15000)))
	assert.True(t, rec.Result.Difference.Equal(decimal.NewFromInt(-15000)),
		"difference = 5000 - 5000 - 15000")

	t.Run("quality metrics", func(t *testing.T) {
		assert.True(t, rec.Quality.CashConversionRate.Equal(decimal.NewFromInt(3)))
		assert.True(t, rec.Quality.ReconciliationAccuracy.IsZero(), "difference is 3x net income, floored at 0")
		assert.False(t, rec.Quality.WithinTolerance)
	})
}

func TestReconciliationEngineMortalityStaysOutOfCash(t *testing.T) {
	engine := NewReconciliationEngine(NewDefaultClassifier())

	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// A mortality entry with a confirmed cash date must still be excluded
	// from the cash side.
	transactions := []FinancialTransaction{
		createPeriodTransaction(t, TransactionTypeExpense, "Mortalidade", 5812, march, &march),
	}

	rec, err := engine.Reconcile(2025, time.March, transactions)
	require.NoError(t, err)

	assert.True(t, rec.CashFlow.NetCashFlow().IsZero())
	assert.True(t, rec.NonCash.Mortality.Equal(decimal.NewFromInt(5812)))
	assert.True(t, rec.Result.NetIncome.Equal(decimal.NewFromInt(-5812)))
}

func TestReconciliationEngineTolerance(t *testing.T) {
	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	transactions := []FinancialTransaction{
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 500, march, nil),
	}

	t.Run("small difference within default tolerance", func(t *testing.T) {
		engine := NewReconciliationEngine(NewDefaultClassifier())
		rec, err := engine.Reconcile(2025, time.March, transactions)
		require.NoError(t, err)
		assert.True(t, rec.Quality.WithinTolerance)
	})

	t.Run("custom tolerance flags the same difference", func(t *testing.T) {
		engine := NewReconciliationEngine(NewDefaultClassifier(),
			WithDifferenceTolerance(decimal.NewFromInt(100)))
		rec, err := engine.Reconcile(2025, time.March, transactions)
		require.NoError(t, err)
		assert.False(t, rec.Quality.WithinTolerance)
	})
}
