// Package config loads analyzer configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Weights control the contribution of each ranking signal. They must sum
// to 1 (within a small tolerance) so the final similarity stays in [0,1].
type Weights struct {
	Overlap  float64 `yaml:"overlap"`
	Recency  float64 `yaml:"recency"`
	Affinity float64 `yaml:"affinity"`
}

// Config is the full runtime configuration.
type Config struct {
	// ClaudeDir is the root of the transcript corpus; sessions live under
	// ClaudeDir/projects/<project>/<session>.jsonl.
	ClaudeDir string `yaml:"claude_dir"`

	// AnthropicAPIKey gates the external concept-extraction call. Empty
	// means the local fallback extractor is used exclusively.
	AnthropicAPIKey string        `yaml:"-"`
	Model           string        `yaml:"model"`
	IntentTimeout   time.Duration `yaml:"intent_timeout"`

	// HalfLife is the recency-decay half-life.
	HalfLife time.Duration `yaml:"half_life"`
	Weights  Weights       `yaml:"weights"`

	// Limit is the default number of results returned when the caller does
	// not specify one.
	Limit int `yaml:"limit"`

	// ExtraStopwords are appended to the built-in stopword list of the
	// fallback intent extractor.
	ExtraStopwords []string `yaml:"extra_stopwords"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		ClaudeDir:     filepath.Join(home, ".claude"),
		Model:         "claude-sonnet-4-20250514",
		IntentTimeout: 10 * time.Second,
		HalfLife:      7 * 24 * time.Hour,
		Weights:       Weights{Overlap: 0.5, Recency: 0.2, Affinity: 0.3},
		Limit:         5,
	}
}

// Load builds the configuration: defaults, then the YAML file at CSA_CONFIG
// (or ~/.config/csa/config.yaml), then environment overrides. A missing
// config file is not an error.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv("CSA_CONFIG")
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "csa", "config.yaml")
		}
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	log.Debug().Str("path", path).Msg("Loaded config file")
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := os.Getenv("CSA_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CSA_CLAUDE_DIR"); v != "" {
		cfg.ClaudeDir = v
	}
	if v := os.Getenv("CSA_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limit = n
		} else {
			log.Warn().Str("env_value", v).Msg("Invalid CSA_LIMIT, using default")
		}
	}
	if v := os.Getenv("CSA_HALF_LIFE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.HalfLife = d
		} else {
			log.Warn().Str("env_value", v).Msg("Invalid CSA_HALF_LIFE, using default")
		}
	}
}
