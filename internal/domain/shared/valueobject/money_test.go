package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("parses string amounts", func(t *testing.T) {
		m, err := NewMoneyBRLFromString("2906.00")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(2906)))

		_, err = NewMoneyBRLFromString("not a number")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyBRLFromFloat(100.50)
	b := NewMoneyBRLFromFloat(49.50)

	t.Run("add and subtract same currency", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(51)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		usd, err := NewMoneyFromFloat(10, USD)
		require.NoError(t, err)

		_, err = a.Add(usd)
		assert.Error(t, err)
		_, err = a.Subtract(usd)
		assert.Error(t, err)
	})

	t.Run("multiply and negate", func(t *testing.T) {
		doubled := b.MultiplyByInt(2)
		assert.True(t, doubled.Amount().Equal(decimal.NewFromInt(99)))

		neg := a.Negate()
		assert.True(t, neg.IsNegative())
		assert.True(t, neg.Abs().Equals(a))
	})

	t.Run("operations do not mutate the receiver", func(t *testing.T) {
		_ = a.MustAdd(b)
		assert.True(t, a.Amount().Equal(decimal.NewFromFloat(100.50)))
	})
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyBRLFromFloat(1234.5)
	assert.Equal(t, "1234.50 BRL", m.String())
}

func TestSafeDiv(t *testing.T) {
	t.Run("divides normally", func(t *testing.T) {
		got := SafeDiv(decimal.NewFromInt(10), decimal.NewFromInt(4))
		assert.True(t, got.Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("zero denominator yields zero", func(t *testing.T) {
		got := SafeDiv(decimal.NewFromInt(10), decimal.Zero)
		assert.True(t, got.IsZero())
	})

	t.Run("fallback is used only on zero denominator", func(t *testing.T) {
		fallback := decimal.NewFromInt(1)
		assert.True(t, SafeDivWithFallback(decimal.NewFromInt(10), decimal.Zero, fallback).Equal(fallback))
		assert.True(t, SafeDivWithFallback(decimal.NewFromInt(10), decimal.NewFromInt(2), fallback).Equal(decimal.NewFromInt(5)))
	})

	t.Run("percent", func(t *testing.T) {
		got := SafePercent(decimal.NewFromInt(1), decimal.NewFromInt(4))
		assert.True(t, got.Equal(decimal.NewFromInt(25)))
		assert.True(t, SafePercent(decimal.NewFromInt(1), decimal.Zero).IsZero())
	})
}
