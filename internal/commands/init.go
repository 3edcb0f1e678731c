package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankdigest-dev/bankdigest/internal/config"
	"github.com/bankdigest-dev/bankdigest/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var username string
	var server string
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bankdigest project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, username, server, git)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "IMAP account, e.g. me@example.com (required)")
	_ = cmd.MarkFlagRequired("username")
	cmd.Flags().StringVar(&server, "server", "imap.gmail.com", "IMAP server")
	cmd.Flags().BoolVar(&git, "git", false, "initialize a git repository and enable dataset auto-commit")

	return cmd
}

func runInit(dir, username, server string, git bool) error {
	cfg := config.Default()
	cfg.IMAP.Username = username
	cfg.IMAP.Server = server
	cfg.Git.AutoCommit = git

	for _, d := range []string{cfg.Mail.DownloadDir, cfg.Data.Dir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Downloaded statements stay out of version control.
	gitignore := cfg.Mail.DownloadDir + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if git {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		hash, err := gitops.CommitPaths(dir, "init: bankdigest project",
			cfg.Git.AuthorName, cfg.Git.AuthorEmail, config.FileName, ".gitignore")
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Printf("Initialized bankdigest project at %s (%s)\n", dir, hash)
		return nil
	}

	fmt.Printf("Initialized bankdigest project at %s\n", dir)
	return nil
}
