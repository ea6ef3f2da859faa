package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelReplies(t *testing.T) {
	replies := []string{
		`Here are the trades I found:
TRADE_START
Symbol: ES
Description: E-mini S&P 500
Quantity: 2
SalePriceSEK: 100000
PurchasePriceSEK: 90000
GainLossSEK: 10000
TRADE_END`,
		`TRADE_START
Symbol: NQ
Description: E-mini Nasdaq 100
Quantity: 1
SalePriceSEK: 50000
PurchasePriceSEK: 55000
GainLossSEK: -5000
TRADE_END`,
	}

	result := ParseModelReplies(replies)

	require.Len(t, result.Instruments, 2)

	first := result.Instruments[0]
	assert.Equal(t, "ES", first.Symbol)
	assert.Equal(t, "E-mini S&P 500", first.Description)
	assert.Equal(t, "2", first.Quantity)
	require.NotNil(t, first.SalePrice)
	assert.True(t, first.SalePrice.Equal(decimal.NewFromInt(100000)))
	require.NotNil(t, first.PurchasePrice)
	assert.True(t, first.PurchasePrice.Equal(decimal.NewFromInt(90000)))
	require.NotNil(t, first.GainLoss)
	assert.True(t, first.GainLoss.Equal(decimal.NewFromInt(10000)))

	// Order of appearance across replies is preserved.
	assert.Equal(t, "NQ", result.Instruments[1].Symbol)

	assert.True(t, result.TotalGain.Equal(decimal.NewFromInt(10000)))
	assert.True(t, result.TotalLoss.Equal(decimal.NewFromInt(-5000)))
}

func TestParseModelRepliesThousandsSeparators(t *testing.T) {
	replies := []string{
		`TRADE_START
Symbol: CL
GainLossSEK: 1,234,567.89
TRADE_END`,
	}

	result := ParseModelReplies(replies)

	require.Len(t, result.Instruments, 1)
	require.NotNil(t, result.Instruments[0].GainLoss)
	assert.True(t, result.Instruments[0].GainLoss.Equal(decimal.RequireFromString("1234567.89")))
}

func TestParseModelRepliesUnparsableNumberKeepsSiblings(t *testing.T) {
	replies := []string{
		`TRADE_START
Symbol: GC
Description: Gold futures
SalePriceSEK: not a number
GainLossSEK: -250
TRADE_END`,
	}

	result := ParseModelReplies(replies)

	require.Len(t, result.Instruments, 1)
	record := result.Instruments[0]
	assert.Equal(t, "GC", record.Symbol)
	assert.Equal(t, "Gold futures", record.Description)
	assert.Nil(t, record.SalePrice)
	require.NotNil(t, record.GainLoss)
	assert.True(t, record.GainLoss.Equal(decimal.NewFromInt(-250)))
}

func TestParseModelRepliesEmptyBlockDropped(t *testing.T) {
	replies := []string{
		"TRADE_START\nnothing recognizable in here\nTRADE_END",
		"no blocks at all in this reply",
	}

	result := ParseModelReplies(replies)

	assert.Empty(t, result.Instruments)
	assert.True(t, result.TotalGain.IsZero())
	assert.True(t, result.TotalLoss.IsZero())
}

// Zero and absent gain/loss values land in the loss bucket; only strictly
// positive values count as gains.
func TestParseModelRepliesSignPartition(t *testing.T) {
	replies := []string{
		`TRADE_START
Symbol: A
GainLossSEK: 100
TRADE_END
TRADE_START
Symbol: B
GainLossSEK: 0
TRADE_END
TRADE_START
Symbol: C
GainLossSEK: -40
TRADE_END
TRADE_START
Symbol: D
TRADE_END`,
	}

	result := ParseModelReplies(replies)

	require.Len(t, result.Instruments, 4)
	assert.True(t, result.TotalGain.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.TotalLoss.Equal(decimal.NewFromInt(-40)))
}
