package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/funnelform/leadlens/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Insight generation
	LLMProvider      string `mapstructure:"llm_provider" yaml:"llm_provider"` // none|anthropic|openrouter
	LLMModel         string `mapstructure:"llm_model" yaml:"llm_model"`
	AnthropicAPIKey  string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	OpenRouterAPIKey string `mapstructure:"openrouter_api_key" yaml:"openrouter_api_key"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Analytics and modeling
	TopCampaigns      int     `mapstructure:"top_campaigns" yaml:"top_campaigns"`
	TrainTestFraction float64 `mapstructure:"train_test_fraction" yaml:"train_test_fraction"`
	TrainSeed         int64   `mapstructure:"train_seed" yaml:"train_seed"`
	TrainMaxIter      int     `mapstructure:"train_max_iter" yaml:"train_max_iter"`

	// HTTP server
	Addr           string `mapstructure:"addr" yaml:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.leadlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, ".leadlens", "config.yaml")
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("LEADLENS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("llm_provider", "none")
	v.SetDefault("llm_model", "")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("top_campaigns", 5)
	v.SetDefault("train_test_fraction", 0.25)
	v.SetDefault("train_seed", 42)
	v.SetDefault("train_max_iter", 1000)
	v.SetDefault("addr", ":8080")
	v.SetDefault("max_upload_bytes", 16<<20)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".leadlens")
		_ = utils.EnsureDir(dir)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
