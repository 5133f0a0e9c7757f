// Package config loads the workbench settings from a YAML file, environment
// variables prefixed with CONSULTBENCH_ and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mrsinham/consultbench/internal/persist"
)

// EnvPrefix prefixes every environment override, e.g.
// CONSULTBENCH_STORAGE_BACKEND.
const EnvPrefix = "CONSULTBENCH"

// Config is the complete configuration.
type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
	Wizard   WizardConfig   `mapstructure:"wizard"`
	Palette  PaletteConfig  `mapstructure:"palette"`
	Export   ExportConfig   `mapstructure:"export"`
	Practice PracticeConfig `mapstructure:"practice"`
	Log      LogConfig      `mapstructure:"log"`
}

// StorageConfig selects the draft backend.
type StorageConfig struct {
	Backend     string        `mapstructure:"backend"`
	Path        string        `mapstructure:"path"`
	RedisURL    string        `mapstructure:"redis_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	KeyStrategy string        `mapstructure:"key_strategy"`
}

// AutosaveConfig tunes the autosave debounce.
type AutosaveConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// WizardConfig tunes the document wizard.
type WizardConfig struct {
	FeedbackTTL time.Duration `mapstructure:"feedback_ttl"`
}

// PaletteConfig tunes the command palette.
type PaletteConfig struct {
	FocusDelay time.Duration `mapstructure:"focus_delay"`
	MaxResults int           `mapstructure:"max_results"`
}

// ExportConfig sets where printed documents go.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// PracticeConfig identifies the issuing practice on documents.
type PracticeConfig struct {
	Physician string `mapstructure:"physician"`
	Clinic    string `mapstructure:"clinic"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads the configuration. An explicit file must exist; without one,
// consultbench.yaml is looked up in the working directory and in
// $HOME/.consultbench, and its absence is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("consultbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".consultbench"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.resolvePaths()
	return cfg, nil
}

// Default returns the configuration with no file and no environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always decode.
	_ = v.Unmarshal(cfg)
	cfg.resolvePaths()
	return cfg
}

func setDefaults(v *viper.Viper) {
	dataDir := ".consultbench"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".consultbench")
	}
	v.SetDefault("data_dir", dataDir)

	v.SetDefault("storage.backend", string(persist.BackendFile))
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.redis_url", "redis://localhost:6379/0")
	v.SetDefault("storage.timeout", "2s")
	v.SetDefault("storage.key_strategy", string(persist.ByNameAge))

	v.SetDefault("autosave.delay", "650ms")
	v.SetDefault("wizard.feedback_ttl", "2200ms")
	v.SetDefault("palette.focus_delay", "30ms")
	v.SetDefault("palette.max_results", 8)

	v.SetDefault("export.dir", "")
	v.SetDefault("practice.physician", "Dr. Médecin traitant")
	v.SetDefault("practice.clinic", "Cabinet médical")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// resolvePaths fills the paths that default to a location under DataDir.
func (c *Config) resolvePaths() {
	if c.Storage.Path == "" {
		switch persist.Backend(c.Storage.Backend) {
		case persist.BackendFile:
			c.Storage.Path = filepath.Join(c.DataDir, "drafts")
		case persist.BackendSQLite:
			c.Storage.Path = filepath.Join(c.DataDir, "drafts.db")
		}
	}
	if c.Export.Dir == "" {
		c.Export.Dir = filepath.Join(c.DataDir, "exports")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "consultbench.log")
	}
}

// Validate checks the values Load cannot check by type alone.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range persist.AllBackends() {
		if string(b) == c.Storage.Backend {
			validBackend = true
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid storage backend: %q, valid backends: %v", c.Storage.Backend, persist.AllBackends())
	}
	if _, err := persist.ParseKeyStrategy(c.Storage.KeyStrategy); err != nil {
		return err
	}
	if c.Storage.Backend == string(persist.BackendRedis) && c.Storage.RedisURL == "" {
		return fmt.Errorf("Redis URL is required for the redis backend")
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"storage.timeout", c.Storage.Timeout},
		{"autosave.delay", c.Autosave.Delay},
		{"wizard.feedback_ttl", c.Wizard.FeedbackTTL},
		{"palette.focus_delay", c.Palette.FocusDelay},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.d)
		}
	}
	if c.Palette.MaxResults < 1 {
		return fmt.Errorf("palette.max_results must be at least 1, got %d", c.Palette.MaxResults)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}

// StorageOptions converts the storage section for persist.Open.
func (c *Config) StorageOptions() persist.OpenOptions {
	return persist.OpenOptions{
		Backend:  persist.Backend(c.Storage.Backend),
		Path:     c.Storage.Path,
		RedisURL: c.Storage.RedisURL,
	}
}

// KeyStrategy returns the validated key strategy.
func (c *Config) KeyStrategy() persist.KeyStrategy {
	k, err := persist.ParseKeyStrategy(c.Storage.KeyStrategy)
	if err != nil {
		return persist.ByNameAge
	}
	return k
}
