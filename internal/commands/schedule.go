package commands

import (
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/bankdigest-dev/bankdigest/internal/config"
	"github.com/bankdigest-dev/bankdigest/internal/monthkey"
)

func newScheduleCommand() *cobra.Command {
	var configPath string
	var immediate bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on a monthly schedule",
		Long: `Runs the statement pipeline on the configured cron schedule
(default: 02:00 on the first of each month) until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// The store is not safe for overlapping runs; if a run is still
			// active when the next trigger fires, the trigger is skipped.
			var active atomic.Bool
			job := func() {
				if !active.CompareAndSwap(false, true) {
					logger.Warn("previous run still active, skipping trigger")
					return
				}
				defer active.Store(false)

				if _, err := runOnce(cfg, logger, monthkey.Current()); err != nil {
					logger.Error("scheduled run failed", "err", err)
				}
			}

			if immediate {
				job()
			}

			c := cron.New()
			if _, err := c.AddFunc(cfg.Schedule.Cron, job); err != nil {
				return err
			}
			logger.Info("scheduler started", "cron", cfg.Schedule.Cron)
			c.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.FileName, "configuration file")
	cmd.Flags().BoolVar(&immediate, "now", false, "run once immediately, then follow the schedule")

	return cmd
}
