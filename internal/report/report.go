package report

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankdigest-dev/bankdigest/internal/model"
)

// ErrNoData signals that the dataset holds no rows for the requested period.
var ErrNoData = errors.New("no data for period")

// Build derives the monthly summary for one period from the dataset: the
// per-bank rows whose date equals the period, in dataset order, plus a
// synthesized totals row labeled "TOTAL". Returns ErrNoData when the period
// has no rows.
func Build(dataset []model.StatementRecord, period string) (*model.MonthlyReport, error) {
	rep := &model.MonthlyReport{Period: period}
	totalBalance := decimal.Zero

	for _, r := range dataset {
		if r.Date != period {
			continue
		}
		row := model.ReportRow{
			Bank:           r.Bank,
			ClosingBalance: r.ClosingBalance,
			TotalCredits:   r.TotalCredits,
			TotalDebits:    r.TotalDebits,
			NetCashFlow:    r.NetCashFlow(),
		}
		rep.Rows = append(rep.Rows, row)

		if r.ClosingBalance != nil {
			totalBalance = totalBalance.Add(*r.ClosingBalance)
		}
		rep.Total.TotalCredits = rep.Total.TotalCredits.Add(r.TotalCredits)
		rep.Total.TotalDebits = rep.Total.TotalDebits.Add(r.TotalDebits)
		rep.Total.NetCashFlow = rep.Total.NetCashFlow.Add(r.NetCashFlow())
	}

	if len(rep.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, period)
	}

	rep.Total.Bank = model.TotalLabel
	rep.Total.ClosingBalance = &totalBalance
	return rep, nil
}
