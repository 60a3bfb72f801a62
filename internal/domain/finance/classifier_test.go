package finance

import (
	"testing"
	"time"

	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTransactionForClassification(t *testing.T, txType TransactionType, rawCategory string, amount float64) *FinancialTransaction {
	tx, err := NewFinancialTransaction(
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		"Test transaction",
		valueobject.NewMoneyBRLFromFloat(amount),
		txType,
		rawCategory,
	)
	require.NoError(t, err)
	return tx
}

func TestNewClassifier(t *testing.T) {
	t.Run("accepts the default group table", func(t *testing.T) {
		c, err := NewClassifier(DefaultAccountingGroups())
		require.NoError(t, err)
		assert.Len(t, c.Groups(), 10)
	})

	t.Run("rejects empty table", func(t *testing.T) {
		_, err := NewClassifier(nil)
		assert.Error(t, err)
	})

	t.Run("rejects table missing a default bucket", func(t *testing.T) {
		var groups []AccountingGroup
		for _, g := range DefaultAccountingGroups() {
			if g.ID == GroupAdminExpenses {
				continue
			}
			groups = append(groups, g)
		}
		_, err := NewClassifier(groups)
		assert.Error(t, err)
	})

	t.Run("rejects invalid group type", func(t *testing.T) {
		groups := DefaultAccountingGroups()
		groups[0].Type = "WEIRD"
		_, err := NewClassifier(groups)
		assert.Error(t, err)
	})
}

func TestClassifierMatchingOrder(t *testing.T) {
	c := NewDefaultClassifier()

	t.Run("exact category name wins", func(t *testing.T) {
		group := c.Classify("Venda de Gado Gordo", TransactionTypeIncome)
		assert.Equal(t, GroupOperationalRevenue, group.ID)
	})

	t.Run("exact code matches", func(t *testing.T) {
		group := c.Classify("cattle_purchase", TransactionTypeExpense)
		assert.Equal(t, GroupAcquisitionCosts, group.ID)
	})

	t.Run("name matching ignores case and whitespace", func(t *testing.T) {
		group := c.Classify("  venda de gado gordo ", TransactionTypeIncome)
		assert.Equal(t, GroupOperationalRevenue, group.ID)
	})

	t.Run("accented and unaccented spellings match the same group", func(t *testing.T) {
		withAccents := c.Classify("Ração", TransactionTypeExpense)
		without := c.Classify("racao", TransactionTypeExpense)
		assert.Equal(t, GroupProductionExpenses, withAccents.ID)
		assert.Equal(t, GroupProductionExpenses, without.ID)
	})

	t.Run("substring match catches free text containing a category", func(t *testing.T) {
		group := c.Classify("Frete de Gado - Lote 42", TransactionTypeExpense)
		assert.Equal(t, GroupLogisticsCosts, group.ID)
	})

	t.Run("substring match catches abbreviated free text", func(t *testing.T) {
		// Input is a substring of the configured name "Comissão"
		group := c.Classify("comissa", TransactionTypeExpense)
		assert.Equal(t, GroupCommissionCosts, group.ID)
	})

	t.Run("unmapped income falls into other revenue", func(t *testing.T) {
		group := c.Classify("something nobody configured", TransactionTypeIncome)
		assert.Equal(t, GroupOtherRevenue, group.ID)
	})

	t.Run("unmapped expense falls into admin expenses", func(t *testing.T) {
		group := c.Classify("something nobody configured", TransactionTypeExpense)
		assert.Equal(t, GroupAdminExpenses, group.ID)
	})

	t.Run("empty category falls into the default bucket", func(t *testing.T) {
		group := c.Classify("", TransactionTypeExpense)
		assert.Equal(t, GroupAdminExpenses, group.ID)
	})
}

func TestClassifierGroupTotals(t *testing.T) {
	c := NewDefaultClassifier()

	transactions := []FinancialTransaction{
		*createTransactionForClassification(t, TransactionTypeIncome, "Venda de Gado Gordo", 100000),
		*createTransactionForClassification(t, TransactionTypeIncome, "unknown income", 500),
		*createTransactionForClassification(t, TransactionTypeExpense, "Compra de Gado", 60000),
		*createTransactionForClassification(t, TransactionTypeExpense, "Frete", 2000),
		*createTransactionForClassification(t, TransactionTypeExpense, "mystery expense", 300),
	}

	totals := c.GroupTotals(transactions)

	assert.True(t, totals[GroupOperationalRevenue].Equal(decimal.NewFromInt(100000)))
	assert.True(t, totals[GroupOtherRevenue].Equal(decimal.NewFromInt(500)))
	assert.True(t, totals[GroupAcquisitionCosts].Equal(decimal.NewFromInt(60000)))
	assert.True(t, totals[GroupLogisticsCosts].Equal(decimal.NewFromInt(2000)))
	assert.True(t, totals[GroupAdminExpenses].Equal(decimal.NewFromInt(300)))

	t.Run("totals partition the transaction set", func(t *testing.T) {
		sum := decimal.Zero
		for _, v := range totals {
			sum = sum.Add(v)
		}
		assert.True(t, sum.Equal(decimal.NewFromInt(162800)))
	})
}
