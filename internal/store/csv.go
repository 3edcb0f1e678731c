package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankdigest-dev/bankdigest/internal/model"
	"github.com/bankdigest-dev/bankdigest/internal/monthkey"
)

// Header is the CSV header of the persisted dataset. net_cash_flow and month
// are derived from the other columns on every write; they are carried for
// consumers of the file and ignored on read.
const Header = "bank,date,closing_balance,total_credits,total_debits,statement_period,net_cash_flow,month"

const (
	numFields  = 8
	colBank    = 0
	colDate    = 1
	colBalance = 2
	colCredits = 3
	colDebits  = 4
	colPeriod  = 5
	colNetFlow = 6
	colMonth   = 7
)

// MarshalRecord converts a StatementRecord to a CSV row, computing the
// derived net_cash_flow and month columns.
func MarshalRecord(r model.StatementRecord) []string {
	row := make([]string, numFields)
	row[colBank] = r.Bank
	row[colDate] = r.Date
	if r.ClosingBalance != nil {
		row[colBalance] = r.ClosingBalance.String()
	}
	row[colCredits] = r.TotalCredits.String()
	row[colDebits] = r.TotalDebits.String()
	row[colPeriod] = r.StatementPeriod
	row[colNetFlow] = r.NetCashFlow().String()
	row[colMonth] = monthkey.Display(r.Date)
	return row
}

// UnmarshalRecord converts a CSV row to a StatementRecord.
func UnmarshalRecord(record []string) (model.StatementRecord, error) {
	if len(record) != numFields {
		return model.StatementRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	r := model.StatementRecord{
		Bank:            record[colBank],
		Date:            record[colDate],
		StatementPeriod: record[colPeriod],
	}

	if record[colBalance] != "" {
		bal, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.StatementRecord{}, fmt.Errorf("parsing closing_balance %q: %w", record[colBalance], err)
		}
		r.ClosingBalance = &bal
	}

	credits, err := decimal.NewFromString(record[colCredits])
	if err != nil {
		return model.StatementRecord{}, fmt.Errorf("parsing total_credits %q: %w", record[colCredits], err)
	}
	r.TotalCredits = credits

	debits, err := decimal.NewFromString(record[colDebits])
	if err != nil {
		return model.StatementRecord{}, fmt.Errorf("parsing total_debits %q: %w", record[colDebits], err)
	}
	r.TotalDebits = debits

	return r, nil
}

// ReadRecords reads all statement records from a dataset CSV reader.
func ReadRecords(r io.Reader) ([]model.StatementRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var out []model.StatementRecord
	for i, rec := range records[1:] {
		sr, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, sr)
	}
	return out, nil
}

// WriteRecords writes the dataset (including header) to a writer.
func WriteRecords(w io.Writer, records []model.StatementRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	// Flush before checking the error so a write failure surfacing at flush
	// time is reported; the caller renames the file over the dataset only on a
	// verified write.
	cw.Flush()
	return cw.Error()
}
