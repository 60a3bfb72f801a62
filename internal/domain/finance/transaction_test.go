package finance

import (
	"testing"
	"time"

	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinancialTransaction(t *testing.T) {
	refDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates a valid accrual transaction", func(t *testing.T) {
		tx, err := NewFinancialTransaction(refDate, "Venda lote 42",
			valueobject.NewMoneyBRLFromFloat(50000), TransactionTypeIncome, "Venda de Gado Gordo")
		require.NoError(t, err)

		assert.False(t, tx.ImpactsCash)
		assert.Nil(t, tx.CashFlowDate)
		assert.False(t, tx.IsReconciled)
		assert.True(t, tx.IsIncome())
		assert.Len(t, tx.GetDomainEvents(), 1)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewFinancialTransaction(refDate, "x",
			valueobject.ZeroBRL(), TransactionTypeIncome, "c")
		assert.Error(t, err)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewFinancialTransaction(time.Time{}, "x",
			valueobject.NewMoneyBRLFromFloat(10), TransactionTypeIncome, "c")
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewFinancialTransaction(refDate, "x",
			valueobject.NewMoneyBRLFromFloat(10), "TRANSFER", "c")
		assert.Error(t, err)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewFinancialTransaction(refDate, "",
			valueobject.NewMoneyBRLFromFloat(10), TransactionTypeIncome, "c")
		assert.Error(t, err)
	})
}

func TestConfirmCashMovement(t *testing.T) {
	refDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	cashDate := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	t.Run("confirms once", func(t *testing.T) {
		tx, err := NewFinancialTransaction(refDate, "Compra lote 7",
			valueobject.NewMoneyBRLFromFloat(60000), TransactionTypeExpense, "Compra de Gado")
		require.NoError(t, err)

		require.NoError(t, tx.ConfirmCashMovement(cashDate))
		assert.True(t, tx.ImpactsCash)
		require.NotNil(t, tx.CashFlowDate)
		assert.True(t, tx.CashFlowDate.Equal(cashDate))
	})

	t.Run("rejects double confirmation", func(t *testing.T) {
		tx, err := NewCashTransaction(refDate, "Compra lote 7",
			valueobject.NewMoneyBRLFromFloat(60000), TransactionTypeExpense, "Compra de Gado", cashDate)
		require.NoError(t, err)

		err = tx.ConfirmCashMovement(cashDate.AddDate(0, 0, 1))
		assert.Error(t, err)
	})
}

func TestSignedAmount(t *testing.T) {
	refDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	income, err := NewFinancialTransaction(refDate, "sale",
		valueobject.NewMoneyBRLFromFloat(100), TransactionTypeIncome, "c")
	require.NoError(t, err)
	expense, err := NewFinancialTransaction(refDate, "cost",
		valueobject.NewMoneyBRLFromFloat(100), TransactionTypeExpense, "c")
	require.NoError(t, err)

	assert.True(t, income.SignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, expense.SignedAmount().Equal(decimal.NewFromInt(-100)))
}

func TestPeriodMembership(t *testing.T) {
	refDate := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	cashDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	tx, err := NewCashTransaction(refDate, "boundary",
		valueobject.NewMoneyBRLFromFloat(100), TransactionTypeIncome, "c", cashDate)
	require.NoError(t, err)

	assert.True(t, tx.AccruedIn(2025, time.March))
	assert.False(t, tx.AccruedIn(2025, time.April))
	assert.True(t, tx.CashMovedIn(2025, time.April))
	assert.False(t, tx.CashMovedIn(2025, time.March))

	t.Run("unconfirmed transaction never moves cash", func(t *testing.T) {
		pending, err := NewFinancialTransaction(refDate, "pending",
			valueobject.NewMoneyBRLFromFloat(100), TransactionTypeIncome, "c")
		require.NoError(t, err)
		assert.False(t, pending.CashMovedIn(2025, time.March))
	})
}
