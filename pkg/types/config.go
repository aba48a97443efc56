// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BatchMode selects how the orchestrator treats cards that were already
// printed in an earlier run.
type BatchMode string

const (
	// ModeDedup consults the ledger and asks before reprinting a card.
	ModeDedup BatchMode = "dedup"

	// ModeUnconditional renders every card without consulting the ledger.
	ModeUnconditional BatchMode = "unconditional"
)

// Valid reports whether m is a known mode.
func (m BatchMode) Valid() bool {
	return m == ModeDedup || m == ModeUnconditional
}

// HTTPConfig holds shared HTTP settings for the board service client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "storycards/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// TrelloConfig holds settings for the Trello board service.
type TrelloConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIURL is the REST API base (default https://api.trello.com/1).
	APIURL string `json:"api_url" yaml:"api_url" mapstructure:"api_url"`

	// APIKey and Token authenticate every request.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Token  string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	// MaxRetries bounds the HTTP 429 back-off (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// RendererConfig holds settings for PDF generation.
type RendererConfig struct {
	// Image is the container image that turns HTML on stdin into PDF on
	// stdout (default "storycards-weasyprint:latest").
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Runtime selects the container runtime: docker, podman, or auto.
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime"`

	// PageSize is the CSS @page size (default "A4 landscape").
	PageSize string `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// Config is the run configuration. It is resolved once before a run and
// not modified afterwards.
type Config struct {
	// OutputDir receives one PDF per rendered card.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// LedgerPath is the JSON file listing already printed card ids.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path" mapstructure:"ledger_path"`

	// HistoryDB is the SQLite render history. Empty disables history.
	HistoryDB string `json:"history_db" yaml:"history_db" mapstructure:"history_db"`

	// SecretsDir holds credential files (trello-api-key, trello-token).
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`

	// Mode selects dedup or unconditional printing.
	Mode BatchMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// KeepGoing continues the batch after a card fails to render.
	KeepGoing bool `json:"keep_going" yaml:"keep_going" mapstructure:"keep_going"`

	Trello   TrelloConfig   `json:"trello" yaml:"trello" mapstructure:"trello"`
	Renderer RendererConfig `json:"renderer" yaml:"renderer" mapstructure:"renderer"`
}
