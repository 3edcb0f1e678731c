package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bankdigest-dev/bankdigest/internal/model"
	"github.com/bankdigest-dev/bankdigest/internal/monthkey"
	"github.com/bankdigest-dev/bankdigest/internal/store"
)

// WorkbookWriter renders the dataset and the monthly report into an xlsx
// workbook: a "Bank Statements" sheet mirroring the persisted dataset, and a
// per-month report sheet with totals and a net-cash-flow chart.
type WorkbookWriter struct {
	Path string
}

const datasetSheet = "Bank Statements"

const currencyFormat = "$#,##0.00"

// Write renders the workbook and saves it to the writer's path, replacing any
// previous file. A nil report writes the dataset sheet only.
func (w *WorkbookWriter) Write(dataset []model.StatementRecord, rep *model.MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeDataset(f, dataset); err != nil {
		return err
	}
	if rep != nil {
		if err := w.writeReport(f, rep); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.Path, err)
	}
	return nil
}

func (w *WorkbookWriter) writeDataset(f *excelize.File, dataset []model.StatementRecord) error {
	if err := f.SetSheetName("Sheet1", datasetSheet); err != nil {
		return fmt.Errorf("naming dataset sheet: %w", err)
	}

	header := make([]interface{}, 0, 8)
	for _, h := range strings.Split(store.Header, ",") {
		header = append(header, h)
	}
	if err := f.SetSheetRow(datasetSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing dataset header: %w", err)
	}

	for i, r := range dataset {
		var balance interface{}
		if r.ClosingBalance != nil {
			balance = r.ClosingBalance.InexactFloat64()
		}
		row := []interface{}{
			r.Bank,
			r.Date,
			balance,
			r.TotalCredits.InexactFloat64(),
			r.TotalDebits.InexactFloat64(),
			r.StatementPeriod,
			r.NetCashFlow().InexactFloat64(),
			monthkey.Display(r.Date),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("dataset row %d: %w", i, err)
		}
		if err := f.SetSheetRow(datasetSheet, cell, &row); err != nil {
			return fmt.Errorf("writing dataset row %d: %w", i, err)
		}
	}
	return nil
}

func (w *WorkbookWriter) writeReport(f *excelize.File, rep *model.MonthlyReport) error {
	sheet := reportSheetName(rep.Period)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating report sheet: %w", err)
	}

	// Title.
	title := "Monthly Financial Report - " + monthkey.Display(rep.Period)
	if err := f.SetCellStr(sheet, "A1", title); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}
	if err := f.MergeCell(sheet, "A1", "E1"); err != nil {
		return fmt.Errorf("merging title cells: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", titleStyle); err != nil {
		return fmt.Errorf("styling title: %w", err)
	}

	// Column headers.
	headers := []interface{}{"Bank", "Closing Balance", "Total Credits", "Total Debits", "Net Cash Flow"}
	if err := f.SetSheetRow(sheet, "A3", &headers); err != nil {
		return fmt.Errorf("writing report headers: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A3", "E3", headerStyle); err != nil {
		return fmt.Errorf("styling headers: %w", err)
	}

	// Per-bank rows, then the totals row.
	rows := append(append([]model.ReportRow{}, rep.Rows...), rep.Total)
	for i, row := range rows {
		var balance interface{}
		if row.ClosingBalance != nil {
			balance = row.ClosingBalance.InexactFloat64()
		}
		values := []interface{}{
			row.Bank,
			balance,
			row.TotalCredits.InexactFloat64(),
			row.TotalDebits.InexactFloat64(),
			row.NetCashFlow.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return fmt.Errorf("report row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing report row %d: %w", i, err)
		}
	}

	lastRow := 3 + len(rows)
	fmtStr := currencyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return fmt.Errorf("currency style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "B4", fmt.Sprintf("E%d", lastRow), moneyStyle); err != nil {
		return fmt.Errorf("styling amounts: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("total style: %w", err)
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", lastRow), fmt.Sprintf("A%d", lastRow), totalStyle); err != nil {
		return fmt.Errorf("styling total row: %w", err)
	}

	if err := w.addChart(f, sheet, rep, lastRow); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "E", 20); err != nil {
		return fmt.Errorf("setting column widths: %w", err)
	}
	return nil
}

// addChart draws the net-cash-flow-by-bank bar chart below the table. The
// TOTAL row is excluded from the series.
func (w *WorkbookWriter) addChart(f *excelize.File, sheet string, rep *model.MonthlyReport, lastRow int) error {
	bankRowEnd := lastRow - 1 // last per-bank row, before TOTAL
	chart := &excelize.Chart{
		Type:  excelize.Col,
		Title: []excelize.RichTextRun{{Text: "Net Cash Flow by Bank"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$E$3", sheet),
			Categories: fmt.Sprintf("'%s'!$A$4:$A$%d", sheet, bankRowEnd),
			Values:     fmt.Sprintf("'%s'!$E$4:$E$%d", sheet, bankRowEnd),
		}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Bank"}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Amount ($)"}}},
	}
	anchor := fmt.Sprintf("A%d", lastRow+2)
	if err := f.AddChart(sheet, anchor, chart); err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}
	return nil
}

// reportSheetName returns a sheet name like "Report_Apr_2025".
func reportSheetName(period string) string {
	t, err := monthkey.Parse(period)
	if err != nil {
		return "Report_" + period
	}
	return "Report_" + t.Format("Jan_2006")
}
