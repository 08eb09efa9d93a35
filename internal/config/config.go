package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all engine configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Progress   ProgressConfig   `mapstructure:"progress"`
	PlayerType PlayerTypeConfig `mapstructure:"playertype"`
	Engine     EngineConfig     `mapstructure:"engine"`
}

type DatabaseConfig struct {
	// Path to the SQLite file. Empty means the XDG default.
	Path string `mapstructure:"path"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	// File enables a rotating file sink in addition to stderr.
	File string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`
}

// SchedulerConfig parameterizes the spaced-repetition interval model.
type SchedulerConfig struct {
	GrowthFactor float64       `mapstructure:"growth_factor" validate:"gte=1"`
	MinInterval  time.Duration `mapstructure:"min_interval" validate:"gt=0"`
	MaxInterval  time.Duration `mapstructure:"max_interval" validate:"gtefield=MinInterval"`
	ClockSkew    time.Duration `mapstructure:"clock_skew" validate:"gte=0"`
}

// ProgressConfig parameterizes experience, levels and completion thresholds.
type ProgressConfig struct {
	LevelBase                int     `mapstructure:"level_base" validate:"gt=0"`
	LevelFactor              float64 `mapstructure:"level_factor" validate:"gte=1"`
	MaxLevel                 int     `mapstructure:"max_level" validate:"gt=0,lte=1000"`
	QuizPassingThreshold     float64 `mapstructure:"quiz_passing_threshold" validate:"gt=0,lte=1"`
	MediaCompletionThreshold float64 `mapstructure:"media_completion_threshold" validate:"gt=0,lte=1"`
}

// PlayerTypeConfig holds the behavioral classifier weighting policy.
type PlayerTypeConfig struct {
	Weights WeightsConfig `mapstructure:"weights"`
}

type WeightsConfig struct {
	Achiever   float64 `mapstructure:"achiever" validate:"gte=0"`
	Explorer   float64 `mapstructure:"explorer" validate:"gte=0"`
	Socializer float64 `mapstructure:"socializer" validate:"gte=0"`
	Killer     float64 `mapstructure:"killer" validate:"gte=0"`
}

type EngineConfig struct {
	// RetryAttempts is the total number of attempts for a derived-state
	// write that hits a concurrent modification.
	RetryAttempts uint `mapstructure:"retry_attempts" validate:"gte=1,lte=5"`
}

// EnvPrefix is the prefix of environment variable overrides,
// e.g. LEARNLOOP_DATABASE_PATH.
const EnvPrefix = "LEARNLOOP"

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "")
	v.SetDefault("catalog.path", "catalog.yaml")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("scheduler.growth_factor", 2.0)
	v.SetDefault("scheduler.min_interval", 24*time.Hour)
	v.SetDefault("scheduler.max_interval", 180*24*time.Hour)
	v.SetDefault("scheduler.clock_skew", 2*time.Minute)

	v.SetDefault("progress.level_base", 100)
	v.SetDefault("progress.level_factor", 1.5)
	v.SetDefault("progress.max_level", 100)
	v.SetDefault("progress.quiz_passing_threshold", 0.5)
	v.SetDefault("progress.media_completion_threshold", 0.8)

	v.SetDefault("playertype.weights.achiever", 1.0)
	v.SetDefault("playertype.weights.explorer", 1.0)
	v.SetDefault("playertype.weights.socializer", 1.0)
	v.SetDefault("playertype.weights.killer", 1.0)

	v.SetDefault("engine.retry_attempts", 2)
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads the configuration file (explicit path, or learnloop.yaml in the
// working directory or $HOME/.config/learnloop), applies LEARNLOOP_*
// environment overrides and validates the result.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("learnloop")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/learnloop")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultDBPath resolves the database file path when none is configured:
// $XDG_DATA_HOME/learnloop/learnloop.db, falling back to
// ~/.local/share/learnloop/learnloop.db.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "learnloop", "learnloop.db"), nil
}
