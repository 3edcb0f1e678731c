// Package pipeline sequences one statement-processing run: fetch documents,
// extract fields, merge into the persisted dataset, build and render the
// monthly report.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bankdigest-dev/bankdigest/internal/extract"
	"github.com/bankdigest-dev/bankdigest/internal/model"
	"github.com/bankdigest-dev/bankdigest/internal/report"
	"github.com/bankdigest-dev/bankdigest/internal/store"
)

// Fetcher retrieves candidate statement documents for the run window.
type Fetcher interface {
	FetchCandidates(windowDays int) ([]model.StatementSource, error)
}

// TextExtractor turns a downloaded document into raw text.
type TextExtractor func(path string) (string, error)

// Renderer writes the dataset and monthly report for human consumption. A
// nil report means the period had no rows.
type Renderer interface {
	Write(dataset []model.StatementRecord, rep *model.MonthlyReport) error
}

// Orchestrator wires the collaborators of one pipeline run. Runs are strictly
// sequential; the caller must not start a run while another is active against
// the same store.
type Orchestrator struct {
	Fetcher    Fetcher
	Text       TextExtractor
	Extractor  *extract.Extractor
	Store      *store.Store
	Renderer   Renderer
	WindowDays int
	Logger     *log.Logger
}

// Result summarizes a completed run.
type Result struct {
	Fetched     int
	Extracted   int
	DatasetSize int
	Period      string
	ReportRows  int
}

// Run executes one pass for the given report period. Zero fetched documents
// is a normal early exit that leaves the store untouched. Individual
// documents that cannot be read are skipped; extraction itself never fails a
// document. A failure to persist the merged dataset is fatal and leaves the
// previously persisted dataset in place.
func (o *Orchestrator) Run(period string) (*Result, error) {
	res := &Result{Period: period}

	sources, err := o.Fetcher.FetchCandidates(o.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("fetching statements: %w", err)
	}
	res.Fetched = len(sources)
	if len(sources) == 0 {
		o.Logger.Info("no new bank statements found")
		return res, nil
	}

	var incoming []model.StatementRecord
	for _, src := range sources {
		text, err := o.Text(src.Path)
		if err != nil {
			o.Logger.Warn("cannot read document, skipping", "file", src.Filename, "err", err)
			continue
		}
		rec := o.Extractor.Extract(text, src.Bank, src.Filename)
		o.Logger.Info("extracted statement", "bank", rec.Bank, "date", rec.Date)
		incoming = append(incoming, rec)
	}
	res.Extracted = len(incoming)

	existing, err := o.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	merged := store.Merge(existing, incoming)
	if err := o.Store.Save(merged); err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}
	res.DatasetSize = len(merged)

	rep, err := report.Build(merged, period)
	if err != nil {
		if !errors.Is(err, report.ErrNoData) {
			return nil, fmt.Errorf("building report: %w", err)
		}
		o.Logger.Info("no data for report period", "period", period)
		rep = nil
	} else {
		res.ReportRows = len(rep.Rows)
	}

	if err := o.Renderer.Write(merged, rep); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	o.Logger.Info("run complete",
		"fetched", res.Fetched, "extracted", res.Extracted,
		"dataset", res.DatasetSize, "period", period)
	return res, nil
}
