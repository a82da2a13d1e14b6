package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// ErrNotConfigured is returned by integration adapters when a required
// credential or endpoint is missing. It fails the whole operation before any
// work is attempted.
var ErrNotConfigured = errors.New("integration not configured")

// Service holds core service settings.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
}

// Database holds Postgres connection settings.
type Database struct {
	URL                string `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns       int    `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetimeSec int    `envconfig:"DATABASE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// SQS holds task queue settings.
type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL" required:"true"`
	Region   string `envconfig:"SQS_REGION" required:"true"`
}

// Worker holds task worker settings.
type Worker struct {
	Concurrency     int    `envconfig:"WORKER_CONCURRENCY" default:"4"`
	HealthCheckPort string `envconfig:"WORKER_HEALTH_CHECK_PORT" default:"8081"`
}

// GitHub holds the backup integration settings. Token and user are optional
// at load time; the githubstore adapter fails fast when they are missing.
type GitHub struct {
	Token    string `envconfig:"GITHUB_TOKEN"`
	Username string `envconfig:"GITHUB_USERNAME"`
	Repo     string `envconfig:"GITHUB_REPO" default:"process-scripts-backup"`
}

// Slack holds the notification integration settings.
type Slack struct {
	BotToken   string `envconfig:"SLACK_BOT_TOKEN"`
	WebhookURL string `envconfig:"SLACK_WEBHOOK_URL"`
	DMUserID   string `envconfig:"SLACK_DM_USER_ID"`
}

// Sheets holds the Google Sheets integration settings.
type Sheets struct {
	CredentialsFile string `envconfig:"GSHEET_CREDENTIALS_FILE"`
	SpreadsheetID   string `envconfig:"GSHEET_SPREADSHEET_ID"`
}

type Config struct {
	Service  Service
	Database Database
	SQS      SQS
	Worker   Worker
	GitHub   GitHub
	Slack    Slack
	Sheets   Sheets
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
