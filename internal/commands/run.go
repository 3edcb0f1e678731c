package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bankdigest-dev/bankdigest/internal/bankid"
	"github.com/bankdigest-dev/bankdigest/internal/config"
	"github.com/bankdigest-dev/bankdigest/internal/extract"
	"github.com/bankdigest-dev/bankdigest/internal/gitops"
	"github.com/bankdigest-dev/bankdigest/internal/mail"
	"github.com/bankdigest-dev/bankdigest/internal/monthkey"
	"github.com/bankdigest-dev/bankdigest/internal/pdftext"
	"github.com/bankdigest-dev/bankdigest/internal/pipeline"
	"github.com/bankdigest-dev/bankdigest/internal/report"
	"github.com/bankdigest-dev/bankdigest/internal/runlog"
	"github.com/bankdigest-dev/bankdigest/internal/store"
)

func newRunCommand() *cobra.Command {
	var configPath string
	var period string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch statements, update the dataset and build the monthly report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if period == "" {
				period = monthkey.Current()
			} else if _, err := monthkey.Parse(period); err != nil {
				return err
			}
			_, err = runOnce(cfg, logger, period)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.FileName, "configuration file")
	cmd.Flags().StringVar(&period, "period", "", `report period as YYYY-MM (default: current month)`)

	return cmd
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bankdigest",
	})
}

// runOnce executes one pipeline pass and records it in the run log.
func runOnce(cfg *config.Config, logger *log.Logger, period string) (*pipeline.Result, error) {
	o := &pipeline.Orchestrator{
		Fetcher: &mail.Fetcher{
			Server:      cfg.IMAP.Server,
			Port:        cfg.IMAP.Port,
			Username:    cfg.IMAP.Username,
			Password:    cfg.Password(),
			Mailbox:     cfg.Mail.Mailbox,
			DownloadDir: cfg.Mail.DownloadDir,
			Banks:       bankid.Default(),
			Logger:      logger,
		},
		Text:       pdftext.Extract,
		Extractor:  extract.New(logger),
		Store:      store.New(cfg.DatasetPath()),
		Renderer:   &report.WorkbookWriter{Path: cfg.WorkbookPath()},
		WindowDays: cfg.Mail.WindowDays,
		Logger:     logger,
	}

	res, err := o.Run(period)

	entry := runlog.Entry{Timestamp: time.Now(), ReportPeriod: period}
	switch {
	case err != nil:
		entry.Status = "failed"
		entry.Details = err.Error()
	case res.Fetched == 0:
		entry.Status = "no-data"
		entry.Details = "no new bank statements"
	case res.ReportRows == 0:
		entry.Status = "no-data"
		entry.Details = "no rows for report period"
	default:
		entry.Status = "ok"
	}
	if res != nil {
		entry.Fetched = res.Fetched
		entry.Extracted = res.Extracted
		entry.DatasetSize = res.DatasetSize
	}
	if logErr := runlog.Append(cfg.Data.Dir, entry); logErr != nil {
		logger.Warn("could not append run log", "err", logErr)
	}

	if err != nil {
		return nil, err
	}

	if cfg.Git.AutoCommit && res.Fetched > 0 {
		if err := autoCommit(cfg, logger, period); err != nil {
			logger.Warn("dataset auto-commit failed", "err", err)
		}
	}
	return res, nil
}

func autoCommit(cfg *config.Config, logger *log.Logger, period string) error {
	if !gitops.IsRepo(".") {
		return fmt.Errorf("not a git repository")
	}
	changed, err := gitops.HasChanges(".", cfg.Data.Dir)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	hash, err := gitops.CommitPaths(".", "data: statement run for "+period,
		cfg.Git.AuthorName, cfg.Git.AuthorEmail, cfg.Data.Dir)
	if err != nil {
		return err
	}
	logger.Info("dataset committed", "commit", hash)
	return nil
}
