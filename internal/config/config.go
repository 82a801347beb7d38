// Package config provides configuration loading for taskflow.
package config

import (
	"fmt"
	"time"

	"github.com/glebsterx/TaskFlow/internal/logging"
)

// Config is the full taskflow configuration.
type Config struct {
	Logging  logging.Config `koanf:"logging"`
	Telegram TelegramConfig `koanf:"telegram"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Pending  PendingConfig  `koanf:"pending"`
	Detect   DetectConfig   `koanf:"detect"`
	Workflow WorkflowConfig `koanf:"workflow"`
	Ops      OpsConfig      `koanf:"ops"`
}

// TelegramConfig configures the chat transport adapter.
type TelegramConfig struct {
	Token string `koanf:"token"`

	// ChatID restricts detection to one chat; 0 accepts all chats.
	ChatID int64 `koanf:"chat_id"`

	// PollTimeout is the long-poll timeout for getUpdates.
	PollTimeout time.Duration `koanf:"poll_timeout"`
}

// UpstreamConfig configures the Task Service / User Directory client.
type UpstreamConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// PendingConfig configures the pending-candidate store. The TTL is a
// tunable policy constant.
type PendingConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// DetectConfig configures the detection pipeline.
type DetectConfig struct {
	ConfidenceThreshold float64 `koanf:"confidence_threshold"`
	MaxTitleLength      int     `koanf:"max_title_length"`
}

// WorkflowConfig configures the confirmation workflow.
type WorkflowConfig struct {
	AssignListLimit int `koanf:"assign_list_limit"`
}

// OpsConfig configures the operational HTTP listener.
type OpsConfig struct {
	// Addr is the listen address for /healthz and /metrics.
	Addr string `koanf:"addr"`
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Detect.ConfidenceThreshold < 0 || c.Detect.ConfidenceThreshold > 1 {
		return fmt.Errorf("detect.confidence_threshold must be in [0, 1]")
	}
	if c.Pending.TTL < 0 {
		return fmt.Errorf("pending.ttl must not be negative")
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = 30 * time.Second
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 10 * time.Second
	}
	if cfg.Pending.TTL == 0 {
		cfg.Pending.TTL = 15 * time.Minute
	}
	if cfg.Pending.SweepInterval == 0 {
		cfg.Pending.SweepInterval = cfg.Pending.TTL / 3
	}
	if cfg.Detect.ConfidenceThreshold == 0 {
		cfg.Detect.ConfidenceThreshold = 0.5
	}
	if cfg.Detect.MaxTitleLength == 0 {
		cfg.Detect.MaxTitleLength = 200
	}
	if cfg.Workflow.AssignListLimit == 0 {
		cfg.Workflow.AssignListLimit = 10
	}
	if cfg.Ops.Addr == "" {
		cfg.Ops.Addr = ":9091"
	}
}
