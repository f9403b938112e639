// Package config loads application configuration from file and environment
// and owns global logger initialization.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Convert ConvertConfig `yaml:"convert" mapstructure:"convert"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig configures the local data directories.
type DataConfig struct {
	// Dir is the root of the local data tree. Downloads land in
	// Dir/downloads, extracted dataset files in Dir/extracted, converted
	// CSVs in Dir/converted.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// RunLogPath is the SQLite run log location. Defaults to Dir/runs.db.
	RunLogPath string `yaml:"run_log_path" mapstructure:"run_log_path"`
	// CodebookPath is an optional YAML file of per-year decoding overrides.
	CodebookPath string `yaml:"codebook_path" mapstructure:"codebook_path"`
}

// DownloadDir returns the archive download directory.
func (d DataConfig) DownloadDir() string { return filepath.Join(d.Dir, "downloads") }

// ExtractDir returns the extracted dataset directory.
func (d DataConfig) ExtractDir() string { return filepath.Join(d.Dir, "extracted") }

// ConvertDir returns the converted CSV directory.
func (d DataConfig) ConvertDir() string { return filepath.Join(d.Dir, "converted") }

// RunLog returns the run log path, defaulting under the data dir.
func (d DataConfig) RunLog() string {
	if d.RunLogPath != "" {
		return d.RunLogPath
	}
	return filepath.Join(d.Dir, "runs.db")
}

// FetchConfig configures archive downloads.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
	// Concurrency bounds parallel year downloads.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ConvertConfig configures the conversion pipeline.
type ConvertConfig struct {
	// OnError selects the row failure policy: "fail" or "skip".
	OnError string `yaml:"on_error" mapstructure:"on_error"`
	// Concurrency bounds parallel year conversions.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".ahcd"))
	}

	// Environment
	v.SetEnvPrefix("AHCD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", defaultDataDir())
	v.SetDefault("fetch.timeout_secs", 300)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.concurrency", 2)
	v.SetDefault("convert.on_error", "fail")
	v.SetDefault("convert.concurrency", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ahcd"
	}
	return filepath.Join(home, ".ahcd")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
