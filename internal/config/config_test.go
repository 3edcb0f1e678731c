package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.IMAP.Username = "me@example.com"
	cfg.Mail.WindowDays = 45

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.IMAP.Server, got.IMAP.Server)
	assert.Equal(t, cfg.IMAP.Port, got.IMAP.Port)
	assert.Equal(t, "me@example.com", got.IMAP.Username)
	assert.Equal(t, cfg.IMAP.PasswordEnv, got.IMAP.PasswordEnv)
	assert.Equal(t, 45, got.Mail.WindowDays)
	assert.Equal(t, cfg.Mail.DownloadDir, got.Mail.DownloadDir)
	assert.Equal(t, cfg.Data.DatasetFile, got.Data.DatasetFile)
	assert.Equal(t, cfg.Git.AutoCommit, got.Git.AutoCommit)
	assert.Equal(t, cfg.Schedule.Cron, got.Schedule.Cron)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "imap.gmail.com", cfg.IMAP.Server)
	assert.Equal(t, 993, cfg.IMAP.Port)
	assert.Equal(t, "INBOX", cfg.Mail.Mailbox)
	assert.Equal(t, 30, cfg.Mail.WindowDays)
	assert.Equal(t, "bank_statements", cfg.Mail.DownloadDir)
	assert.Equal(t, filepath.Join("data", "bank_statements.csv"), cfg.DatasetPath())
	assert.Equal(t, filepath.Join("data", "bank_reports.xlsx"), cfg.WorkbookPath())
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "0 2 1 * *", cfg.Schedule.Cron)
}

func TestPassword(t *testing.T) {
	cfg := Default()
	cfg.IMAP.PasswordEnv = "BANKDIGEST_TEST_PASSWORD"
	t.Setenv("BANKDIGEST_TEST_PASSWORD", "hunter2")
	assert.Equal(t, "hunter2", cfg.Password())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "server: imap.gmail.com")
	assert.Contains(t, contents, "password_env: BANKDIGEST_IMAP_PASSWORD")
	assert.Contains(t, contents, "window_days: 30")
	assert.Contains(t, contents, "dataset_file: bank_statements.csv")
	assert.NotContains(t, contents, "password:", "passwords never land in the file")
}
