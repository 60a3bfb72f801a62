package finance

import (
	"testing"
	"time"

	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCashTransactionForSplit(t *testing.T, txType TransactionType, rawCategory string, amount float64) *FinancialTransaction {
	refDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tx, err := NewCashTransaction(
		refDate,
		"Test cash transaction",
		valueobject.NewMoneyBRLFromFloat(amount),
		txType,
		rawCategory,
		refDate,
	)
	require.NoError(t, err)
	return tx
}

func TestSplitterCashImpact(t *testing.T) {
	s := NewSplitter(NewDefaultClassifier())

	t.Run("confirmed transaction impacts cash", func(t *testing.T) {
		tx := createCashTransactionForSplit(t, TransactionTypeExpense, "Frete", 1500)
		c := s.Split(tx)
		assert.True(t, c.ImpactsCash)
		assert.False(t, c.NonCash)
		require.NotNil(t, c.CashFlowDate)
	})

	t.Run("unconfirmed transaction is a pending accrual, not non-cash", func(t *testing.T) {
		tx := createTransactionForClassification(t, TransactionTypeExpense, "Frete", 1500)
		c := s.Split(tx)
		assert.False(t, c.ImpactsCash)
		assert.False(t, c.NonCash)
	})

	t.Run("mortality never impacts cash even when confirmed", func(t *testing.T) {
		tx := createCashTransactionForSplit(t, TransactionTypeExpense, "Mortalidade", 5812)
		c := s.Split(tx)
		assert.False(t, c.ImpactsCash)
		assert.True(t, c.NonCash)
		assert.Equal(t, NonCashMortality, c.NonCashKind)
	})

	t.Run("weight loss is mortality-bucket non-cash", func(t *testing.T) {
		tx := createTransactionForClassification(t, TransactionTypeExpense, "Quebra de Peso", 900)
		c := s.Split(tx)
		assert.True(t, c.NonCash)
		assert.Equal(t, NonCashMortality, c.NonCashKind)
	})

	t.Run("depreciation is non-cash", func(t *testing.T) {
		tx := createTransactionForClassification(t, TransactionTypeExpense, "Depreciação", 1200)
		c := s.Split(tx)
		assert.True(t, c.NonCash)
		assert.Equal(t, NonCashDepreciation, c.NonCashKind)
	})

	t.Run("biological adjustment is non-cash", func(t *testing.T) {
		tx := createTransactionForClassification(t, TransactionTypeIncome, "Ajuste Biológico", 3000)
		c := s.Split(tx)
		assert.True(t, c.NonCash)
		assert.Equal(t, NonCashBiological, c.NonCashKind)
	})
}

func TestSplitterActivityMapping(t *testing.T) {
	s := NewSplitter(NewDefaultClassifier())

	cases := []struct {
		name     string
		txType   TransactionType
		category string
		want     CashFlowActivity
	}{
		{"cattle sale is operating", TransactionTypeIncome, "Venda de Gado Gordo", ActivityOperating},
		{"cattle purchase is operating", TransactionTypeExpense, "Compra de Gado", ActivityOperating},
		{"feed is operating", TransactionTypeExpense, "Ração", ActivityOperating},
		{"equipment is investing", TransactionTypeExpense, "Equipamentos", ActivityInvesting},
		{"construction is investing", TransactionTypeExpense, "Construções", ActivityInvesting},
		{"interest is financing", TransactionTypeExpense, "Juros e Multas", ActivityFinancing},
		{"bank fees are financing", TransactionTypeExpense, "Despesas Bancárias", ActivityFinancing},
		{"unmapped expense is operating", TransactionTypeExpense, "whatever", ActivityOperating},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := createCashTransactionForSplit(t, tc.txType, tc.category, 100)
			assert.Equal(t, tc.want, s.Split(tx).Activity)
		})
	}
}
