package extract

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bankdigest-dev/bankdigest/internal/bankid"
	"github.com/bankdigest-dev/bankdigest/internal/model"
	"github.com/bankdigest-dev/bankdigest/internal/monthkey"
)

// Extractor turns raw statement text into a StatementRecord using the
// bank-specific rule tables, with the generic table as fallback.
type Extractor struct {
	logger *log.Logger
	now    func() time.Time
}

// New creates an Extractor.
func New(logger *log.Logger) *Extractor {
	return &Extractor{logger: logger, now: time.Now}
}

// Extract produces a statement record from raw document text. It never fails:
// a field whose patterns do not match keeps its default (nil balance, zero
// credits/debits), and a panic inside one field's extraction is absorbed so
// the remaining fields still populate. The filename feeds the date fallback
// chain: statement text, then a date-shaped filename substring, then the
// current month.
//
// The date key is always derived from the end of the statement period, so a
// statement spanning a month boundary files under the later month. That is an
// accepted approximation, not a correctness guarantee.
func (e *Extractor) Extract(text, bank, filename string) model.StatementRecord {
	if bank == "" {
		bank = bankid.Unknown
	}
	rules := rulesFor(bank)
	record := model.StatementRecord{Bank: bank}

	e.tryField("closing_balance", func() {
		for _, re := range rules.balance {
			if m := re.FindStringSubmatch(text); m != nil {
				amount := ParseAmount(m[1])
				record.ClosingBalance = &amount
				return
			}
		}
	})

	e.tryField("statement_period", func() {
		for _, re := range rules.period {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			period, end := m[1], m[1]
			if len(m) == 3 {
				period = m[1] + " - " + m[2]
				end = m[2]
			}
			key, err := monthkey.FromEndDate(end)
			if err != nil {
				// Try the next pattern in the chain before giving up.
				e.logger.Warn("unusable statement date", "bank", bank, "date", end, "err", err)
				continue
			}
			record.StatementPeriod = period
			record.Date = key
			return
		}
	})

	e.tryField("total_credits", func() {
		for _, re := range rules.credits {
			if m := re.FindStringSubmatch(text); m != nil {
				record.TotalCredits = ParseAmount(m[1])
				return
			}
		}
	})

	e.tryField("total_debits", func() {
		for _, re := range rules.debits {
			if m := re.FindStringSubmatch(text); m != nil {
				record.TotalDebits = ParseAmount(m[1])
				return
			}
		}
	})

	if record.Date == "" {
		if key, ok := monthkey.FromFilename(filepath.Base(filename)); ok {
			record.Date = key
		} else {
			record.Date = monthkey.Format(e.now())
		}
		e.logger.Info("no statement date in text, using fallback",
			"bank", bank, "file", filepath.Base(filename), "date", record.Date)
	}

	return record
}

// tryField runs one field's extraction, absorbing panics so a single bad
// pattern or input cannot abort the whole document.
func (e *Extractor) tryField(field string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("field extraction failed", "field", field, "panic", r)
		}
	}()
	fn()
}
