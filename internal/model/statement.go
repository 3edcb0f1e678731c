package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementSource is one downloaded statement document awaiting extraction.
type StatementSource struct {
	Bank     string // canonical bank name, or the "unknown bank" sentinel
	Subject  string
	Filename string
	Path     string
	Received time.Time
}

// StatementRecord is the extracted summary of one bank statement for one
// month. (Bank, Date) is the dedup key in the persisted dataset.
type StatementRecord struct {
	Bank            string
	Date            string           // month key, "2006-01"
	ClosingBalance  *decimal.Decimal // nil when no balance pattern matched
	TotalCredits    decimal.Decimal
	TotalDebits     decimal.Decimal
	StatementPeriod string // informational, e.g. "01/01/2025 - 01/31/2025"
}

// NetCashFlow returns TotalCredits - TotalDebits.
func (r StatementRecord) NetCashFlow() decimal.Decimal {
	return r.TotalCredits.Sub(r.TotalDebits)
}

// Key returns the dedup key for the persisted dataset.
func (r StatementRecord) Key() string {
	return r.Bank + "\x00" + r.Date
}

// ReportRow is one line of a monthly report.
type ReportRow struct {
	Bank           string
	ClosingBalance *decimal.Decimal
	TotalCredits   decimal.Decimal
	TotalDebits    decimal.Decimal
	NetCashFlow    decimal.Decimal
}

// TotalLabel is the bank label of a report's synthesized totals row.
const TotalLabel = "TOTAL"

// MonthlyReport is the per-bank summary for a single month plus a totals row.
type MonthlyReport struct {
	Period string // month key, "2006-01"
	Rows   []ReportRow
	Total  ReportRow
}
