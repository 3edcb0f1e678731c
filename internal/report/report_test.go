package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankdigest-dev/bankdigest/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestBuild(t *testing.T) {
	dataset := []model.StatementRecord{
		{Bank: "chase", Date: "2025-04", ClosingBalance: decPtr("1000.00"), TotalCredits: dec("100"), TotalDebits: dec("20")},
		{Bank: "citi", Date: "2025-04", ClosingBalance: decPtr("500.00"), TotalCredits: dec("50"), TotalDebits: dec("10")},
		{Bank: "chase", Date: "2025-03", TotalCredits: dec("999"), TotalDebits: dec("999")},
	}

	rep, err := Build(dataset, "2025-04")
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "2025-04", rep.Period)

	assert.Equal(t, "chase", rep.Rows[0].Bank)
	assert.Equal(t, "80", rep.Rows[0].NetCashFlow.String())
	assert.Equal(t, "citi", rep.Rows[1].Bank)
	assert.Equal(t, "40", rep.Rows[1].NetCashFlow.String())

	assert.Equal(t, model.TotalLabel, rep.Total.Bank)
	assert.Equal(t, "150", rep.Total.TotalCredits.String())
	assert.Equal(t, "30", rep.Total.TotalDebits.String())
	assert.Equal(t, "120", rep.Total.NetCashFlow.String())
	require.NotNil(t, rep.Total.ClosingBalance)
	assert.Equal(t, "1500", rep.Total.ClosingBalance.String())
}

func TestBuildNilBalances(t *testing.T) {
	dataset := []model.StatementRecord{
		{Bank: "unknown bank", Date: "2025-04", TotalCredits: dec("10"), TotalDebits: dec("4")},
	}
	rep, err := Build(dataset, "2025-04")
	require.NoError(t, err)
	assert.Nil(t, rep.Rows[0].ClosingBalance)
	require.NotNil(t, rep.Total.ClosingBalance)
	assert.True(t, rep.Total.ClosingBalance.IsZero())
}

func TestBuildNoData(t *testing.T) {
	dataset := []model.StatementRecord{
		{Bank: "chase", Date: "2025-03"},
	}
	_, err := Build(dataset, "2025-04")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Build(nil, "2025-04")
	assert.ErrorIs(t, err, ErrNoData)
}
