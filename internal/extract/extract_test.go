package extract

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankdigest-dev/bankdigest/internal/bankid"
)

func testExtractor() *Extractor {
	e := New(log.New(io.Discard))
	e.now = func() time.Time {
		return time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC)
	}
	return e
}

const chaseStatement = `
JPMorgan Chase Bank, N.A.
Statement Period: 04/01/2025 to 04/30/2025

CHECKING SUMMARY
Beginning Balance                          $950.00
Total Deposits and Credits               $1,500.00
Total Withdrawals and Debits             $1,250.00
Ending Balance
                                         $1,200.00
`

func TestExtractChase(t *testing.T) {
	e := testExtractor()
	rec := e.Extract(chaseStatement, "chase", "chase_statement.pdf")

	assert.Equal(t, "chase", rec.Bank)
	require.NotNil(t, rec.ClosingBalance)
	assert.Equal(t, "1200", rec.ClosingBalance.String())
	assert.Equal(t, "04/01/2025 - 04/30/2025", rec.StatementPeriod)
	assert.Equal(t, "2025-04", rec.Date)
	assert.Equal(t, "1500", rec.TotalCredits.String())
	assert.Equal(t, "1250", rec.TotalDebits.String())
}

func TestExtractPeriodRangeWords(t *testing.T) {
	e := testExtractor()
	// The range separator must match the literal words, not single characters.
	for _, sep := range []string{"to", "through", "-"} {
		text := "Statement Period: 01/01/2025 " + sep + " 01/31/2025"
		rec := e.Extract(text, "citi", "x.pdf")
		assert.Equal(t, "01/01/2025 - 01/31/2025", rec.StatementPeriod, "separator %q", sep)
		assert.Equal(t, "2025-01", rec.Date, "separator %q", sep)
	}
}

func TestExtractCiti(t *testing.T) {
	e := testExtractor()
	text := `Citibank Account Summary
Statement Period: 03/01/2025 through 03/31/2025
Balance on 03/31/2025                     $5,432.10
Total Credits                               $800.00
Total Debits                                $650.25
`
	rec := e.Extract(text, "citi", "citi.pdf")
	require.NotNil(t, rec.ClosingBalance)
	assert.Equal(t, "5432.1", rec.ClosingBalance.String())
	assert.Equal(t, "2025-03", rec.Date)
	assert.Equal(t, "800", rec.TotalCredits.String())
	assert.Equal(t, "650.25", rec.TotalDebits.String())
}

func TestExtractGenericFallbackChain(t *testing.T) {
	e := testExtractor()
	text := `First Credit Union of Example
Statement Date: 02/28/2025
Closing Balance                             $321.00
Deposits Sum: $120.00
Withdrawals Sum: $45.50
`
	rec := e.Extract(text, bankid.Unknown, "statement.pdf")
	require.NotNil(t, rec.ClosingBalance)
	assert.Equal(t, "321", rec.ClosingBalance.String())
	assert.Equal(t, "02/28/2025", rec.StatementPeriod)
	assert.Equal(t, "2025-02", rec.Date)
	assert.Equal(t, "120", rec.TotalCredits.String())
	assert.Equal(t, "45.5", rec.TotalDebits.String())
}

func TestExtractPeriodSkipsUnusableDate(t *testing.T) {
	e := testExtractor()
	// The first matching pattern captures a range whose end date is not a real
	// date; the chain moves on to the single-date pattern instead of giving up.
	text := `Statement Period: 04/01/2025 to 99/99/2025
Statement Date: 04/30/2025
`
	rec := e.Extract(text, bankid.Unknown, "statement.pdf")
	assert.Equal(t, "04/30/2025", rec.StatementPeriod)
	assert.Equal(t, "2025-04", rec.Date)
}

func TestExtractPeriodUnusableDateFallsThrough(t *testing.T) {
	e := testExtractor()
	// No pattern yields a usable date: the period stays empty rather than
	// keeping a range that could not be keyed, and the filename supplies the
	// date.
	rec := e.Extract("Statement Period: 04/01/2025 to 99/99/2025", bankid.Unknown, "estatement_2025-03.pdf")
	assert.Empty(t, rec.StatementPeriod)
	assert.Equal(t, "2025-03", rec.Date)
}

func TestExtractDateFallbacks(t *testing.T) {
	e := testExtractor()

	// No date in text: filename digits win.
	rec := e.Extract("nothing useful here", "chase", "estatement_2025-03.pdf")
	assert.Equal(t, "2025-03", rec.Date)

	// No date anywhere: current month.
	rec = e.Extract("nothing useful here", "chase", "statement.pdf")
	assert.Equal(t, "2025-06", rec.Date)
}

func TestExtractEmptyText(t *testing.T) {
	e := testExtractor()
	rec := e.Extract("", "wells fargo", "wf.pdf")

	assert.Equal(t, "wells fargo", rec.Bank)
	assert.Nil(t, rec.ClosingBalance)
	assert.True(t, rec.TotalCredits.IsZero())
	assert.True(t, rec.TotalDebits.IsZero())
	assert.Empty(t, rec.StatementPeriod)
	assert.Equal(t, "2025-06", rec.Date)
}

func TestExtractDefaultsBankName(t *testing.T) {
	e := testExtractor()
	rec := e.Extract("Balance: $1.00", "", "x.pdf")
	assert.Equal(t, bankid.Unknown, rec.Bank)
}

func TestExtractBankDispatchIsSubstringMatch(t *testing.T) {
	e := testExtractor()
	// "chase bank" should hit the chase table via substring match.
	text := "Total Deposits and Credits $10.00"
	rec := e.Extract(text, "Chase Bank", "x.pdf")
	assert.Equal(t, "10", rec.TotalCredits.String())
}

func TestNetCashFlow(t *testing.T) {
	e := testExtractor()
	rec := e.Extract(chaseStatement, "chase", "chase.pdf")
	assert.Equal(t, "250", rec.NetCashFlow().String())
}
