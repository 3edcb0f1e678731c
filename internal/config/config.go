package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name.
const FileName = "bankdigest.yaml"

// Config represents the top-level bankdigest.yaml configuration.
type Config struct {
	IMAP     IMAPConfig     `yaml:"imap"`
	Mail     MailConfig     `yaml:"mail"`
	Data     DataConfig     `yaml:"data"`
	Git      GitConfig      `yaml:"git"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// IMAPConfig identifies the mail server and account. The password is read
// from the environment, never stored in the file.
type IMAPConfig struct {
	Server      string `yaml:"server"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
}

// MailConfig controls the statement search.
type MailConfig struct {
	Mailbox     string `yaml:"mailbox"`
	WindowDays  int    `yaml:"window_days"`
	DownloadDir string `yaml:"download_dir"`
}

// DataConfig locates the persisted dataset and rendered workbook.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	DatasetFile  string `yaml:"dataset_file"`
	WorkbookFile string `yaml:"workbook_file"`
}

// GitConfig controls dataset versioning.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ScheduleConfig holds the cron spec for the schedule command.
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// Load reads a bankdigest.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		IMAP: IMAPConfig{
			Server:      "imap.gmail.com",
			Port:        993,
			PasswordEnv: "BANKDIGEST_IMAP_PASSWORD",
		},
		Mail: MailConfig{
			Mailbox:     "INBOX",
			WindowDays:  30,
			DownloadDir: "bank_statements",
		},
		Data: DataConfig{
			Dir:          "data",
			DatasetFile:  "bank_statements.csv",
			WorkbookFile: "bank_reports.xlsx",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Bankdigest",
			AuthorEmail: "bankdigest@localhost",
		},
		Schedule: ScheduleConfig{
			Cron: "0 2 1 * *", // 02:00 on the first of each month
		},
	}
}

// Password returns the IMAP password from the configured environment
// variable.
func (c *Config) Password() string {
	return os.Getenv(c.IMAP.PasswordEnv)
}

// DatasetPath returns the dataset file path under the data directory.
func (c *Config) DatasetPath() string {
	return filepath.Join(c.Data.Dir, c.Data.DatasetFile)
}

// WorkbookPath returns the workbook file path under the data directory.
func (c *Config) WorkbookPath() string {
	return filepath.Join(c.Data.Dir, c.Data.WorkbookFile)
}
