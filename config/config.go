// Package config loads parse-bridge settings from YAML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/nlp"
	"github.com/wippyai/parse-bridge/tracing"
)

// EnvPrefix prefixes environment overrides, e.g. PARSEBRIDGE_GRAMMAR.
const EnvPrefix = "PARSEBRIDGE"

// Config holds all settings.
type Config struct {
	Root      string         `mapstructure:"root" yaml:"root"`
	Grammar   string         `mapstructure:"grammar" yaml:"grammar"`
	Tokenizer string         `mapstructure:"tokenizer" yaml:"tokenizer"`
	Options   []string       `mapstructure:"options" yaml:"options,omitempty"`
	Engine    EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Log       LogConfig      `mapstructure:"log" yaml:"log"`
	Tracing   tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// EngineConfig configures the WebAssembly class engine.
type EngineConfig struct {
	// MemoryLimitPages caps instance memory in 64KB pages. 0 keeps the
	// runtime default.
	MemoryLimitPages uint32 `mapstructure:"memory_limit_pages" yaml:"memory_limit_pages"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Root:      ".",
		Grammar:   nlp.RootVar + "/treebank.mrg",
		Tokenizer: nlp.TypePTBTokenizer,
		Engine:    EngineConfig{MemoryLimitPages: 256},
		Log:       LogConfig{Level: "warn"},
		Tracing:   tracing.DefaultConfig(),
	}
}

// SetDefaults registers Defaults on v so partial files and env vars
// overlay them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("root", d.Root)
	v.SetDefault("grammar", d.Grammar)
	v.SetDefault("tokenizer", d.Tokenizer)
	v.SetDefault("options", d.Options)
	v.SetDefault("engine.memory_limit_pages", d.Engine.MemoryLimitPages)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// SearchPaths lists the files tried, in order, when no explicit path is
// given.
func SearchPaths() []string {
	paths := []string{".parse-bridge.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "parse-bridge", "config.yaml"))
	}
	return append(paths, "/etc/parse-bridge.yaml")
}

// Load reads path, or the first existing file from SearchPaths when path is
// empty. Missing files leave the defaults in place. The returned string is
// the file actually read, if any.
func Load(path string) (Config, string, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, "", errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read "+path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode config")
	}
	return cfg, v.ConfigFileUsed(), nil
}

// GrammarPath returns Grammar with $(ROOT) expanded.
func (c Config) GrammarPath() string {
	return nlp.ExpandRoot(c.Grammar, c.Root)
}

// Logger builds a zap logger from the log settings.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("log level %q", c.Log.Level))
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// WriteDefault writes Defaults as YAML to path, creating parent directories.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(Defaults()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}
