package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDraftPeriod(t *testing.T) *IntegratedAnalysisPeriod {
	p, err := NewIntegratedAnalysisPeriod(2025, 3)
	require.NoError(t, err)
	return p
}

func createReconciliationFor(t *testing.T, year, month int) *PeriodReconciliation {
	engine := NewReconciliationEngine(NewDefaultClassifier())
	refDate := time.Date(year, time.Month(month), 10, 0, 0, 0, 0, time.UTC)
	transactions := []FinancialTransaction{
		createPeriodTransaction(t, TransactionTypeIncome, "Venda de Gado Gordo", 50000, refDate, &refDate),
		createPeriodTransaction(t, TransactionTypeExpense, "Ração", 20000, refDate, &refDate),
	}
	rec, err := engine.Reconcile(year, time.Month(month), transactions)
	require.NoError(t, err)
	return rec
}

func TestNewIntegratedAnalysisPeriod(t *testing.T) {
	t.Run("creates a draft period", func(t *testing.T) {
		p := createDraftPeriod(t)
		assert.Equal(t, AnalysisStatusDraft, p.Status)
		assert.Equal(t, 2025, p.ReferenceYear)
		assert.Equal(t, 3, p.ReferenceMonth)
		assert.True(t, p.IncludeNonCashItems)
		assert.Equal(t, "2025-03", p.PeriodLabel())
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid month", func(t *testing.T) {
		_, err := NewIntegratedAnalysisPeriod(2025, 0)
		assert.Error(t, err)
		_, err = NewIntegratedAnalysisPeriod(2025, 13)
		assert.Error(t, err)
	})
}

func TestApplyReconciliation(t *testing.T) {
	t.Run("fills the period figures", func(t *testing.T) {
		p := createDraftPeriod(t)
		rec := createReconciliationFor(t, 2025, 3)
		dre := NewIncomeStatementBuilder(NewDefaultClassifier()).Build(nil)

		err := p.ApplyReconciliation(rec, dre)
		require.NoError(t, err)

		assert.True(t, p.NetIncome.Equal(decimal.NewFromInt(30000)))
		assert.True(t, p.NetCashFlow.Equal(decimal.NewFromInt(30000)))
		assert.True(t, p.Difference.IsZero())
		assert.False(t, p.GeneratedAt.IsZero())
	})

	t.Run("rejects a reconciliation for another month", func(t *testing.T) {
		p := createDraftPeriod(t)
		rec := createReconciliationFor(t, 2025, 4)
		err := p.ApplyReconciliation(rec, IncomeStatement{})
		assert.Error(t, err)
	})

	t.Run("allows regeneration while reviewing", func(t *testing.T) {
		p := createDraftPeriod(t)
		require.NoError(t, p.SubmitForReview())
		err := p.ApplyReconciliation(createReconciliationFor(t, 2025, 3), IncomeStatement{})
		assert.NoError(t, err)
	})

	t.Run("locked once approved", func(t *testing.T) {
		p := createDraftPeriod(t)
		require.NoError(t, p.SubmitForReview())
		require.NoError(t, p.Approve())

		err := p.ApplyReconciliation(createReconciliationFor(t, 2025, 3), IncomeStatement{})
		assert.Error(t, err)
	})
}

func TestAnalysisStatusLifecycle(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		p := createDraftPeriod(t)
		require.NoError(t, p.SubmitForReview())
		require.NoError(t, p.Approve())
		require.NoError(t, p.Close())
		assert.Equal(t, AnalysisStatusClosed, p.Status)
	})

	t.Run("draft cannot be approved directly", func(t *testing.T) {
		p := createDraftPeriod(t)
		assert.Error(t, p.Approve())
		assert.Error(t, p.Close())
	})

	t.Run("reopen from reviewing", func(t *testing.T) {
		p := createDraftPeriod(t)
		require.NoError(t, p.SubmitForReview())
		require.NoError(t, p.Reopen())
		assert.Equal(t, AnalysisStatusDraft, p.Status)
	})

	t.Run("reopen from approved", func(t *testing.T) {
		p := createDraftPeriod(t)
		require.NoError(t, p.SubmitForReview())
		require.NoError(t, p.Approve())
		require.NoError(t, p.Reopen())
		assert.True(t, p.Status.CanRegenerate())
	})

	t.Run("closed is terminal", func(t *testing.T) {
		p := createDraftPeriod(t)
		require.NoError(t, p.SubmitForReview())
		require.NoError(t, p.Approve())
		require.NoError(t, p.Close())

		assert.Error(t, p.Reopen())
		assert.Error(t, p.SubmitForReview())
		assert.Error(t, p.ApplyReconciliation(createReconciliationFor(t, 2025, 3), IncomeStatement{}))
	})

	t.Run("transitions raise events", func(t *testing.T) {
		p := createDraftPeriod(t)
		p.ClearDomainEvents()
		require.NoError(t, p.SubmitForReview())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "IntegratedAnalysisPeriodStatusChanged", events[0].EventType())
	})
}
