package hlc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-loadable configuration surface for a clock instance.
// Every field is optional; zero values fall back to the documented
// defaults (generated node id, 5 minute drift bound, no resume point).
type Config struct {
	// NodeID overrides the generated node identity
	NodeID string `json:"node_id,omitempty" yaml:"node_id,omitempty"`

	// MaxDriftMs overrides the drift bound, in milliseconds
	MaxDriftMs int64 `json:"max_drift_ms,omitempty" yaml:"max_drift_ms,omitempty"`

	// InitialTimestamp is a resume point in canonical encoded form
	InitialTimestamp string `json:"initial_timestamp,omitempty" yaml:"initial_timestamp,omitempty"`
}

// LoadConfig reads a Config from a YAML or JSON file, chosen by file
// extension (.yaml/.yml/.json).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values New would reject.
func (c *Config) Validate() error {
	if c.MaxDriftMs < 0 {
		return fmt.Errorf("max_drift_ms must be non-negative, got %d", c.MaxDriftMs)
	}
	if c.InitialTimestamp != "" {
		if _, err := Decode(c.InitialTimestamp); err != nil {
			return fmt.Errorf("invalid initial_timestamp: %w", err)
		}
	}
	return nil
}

// Options converts the configuration into functional options for New.
func (c *Config) Options() []Option {
	var opts []Option
	if c.NodeID != "" {
		opts = append(opts, WithNodeID(c.NodeID))
	}
	if c.MaxDriftMs > 0 {
		opts = append(opts, WithMaxDrift(time.Duration(c.MaxDriftMs)*time.Millisecond))
	}
	if c.InitialTimestamp != "" {
		opts = append(opts, WithInitialEncoded(c.InitialTimestamp))
	}
	return opts
}

// NewFromConfig constructs a Clock from a loaded configuration, with any
// extra options applied after the configured ones.
func NewFromConfig(cfg *Config, extra ...Option) (*Clock, error) {
	if cfg == nil {
		return New(extra...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(append(cfg.Options(), extra...)...)
}
