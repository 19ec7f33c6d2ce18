// Package config はアプリケーション設定を読み込みます。
// 優先順位は フラグ > 環境変数 (LOGOSTUDIO_*) > 設定ファイル > 既定値 です。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shouni/gemini-logo-kit/pkg/catalog"
)

// EnvPrefix は環境変数の接頭辞です。api.timeout は LOGOSTUDIO_API_TIMEOUT になります。
const EnvPrefix = "LOGOSTUDIO"

// MaxRetriesLimit は api.max_retries に指定できる上限です。
const MaxRetriesLimit = 10

// ストアの種類
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Store     StoreConfig     `mapstructure:"store"`
	Log       LogConfig       `mapstructure:"log"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Reference ReferenceConfig `mapstructure:"reference"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Key            string        `mapstructure:"key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
}

type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	Dir           string `mapstructure:"dir"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DefaultsConfig struct {
	Model           string `mapstructure:"model"`
	MaxHistoryItems int    `mapstructure:"max_history_items"`
}

// ReferenceConfig は参照画像の読み込み設定です。
type ReferenceConfig struct {
	// GCS が true なら gs:// の参照画像を Cloud Storage から読み込みます。
	GCS bool `mapstructure:"gcs"`
}

type MetricsConfig struct {
	// File が空でなければ終了時に Prometheus テキスト形式で書き出します。
	File string `mapstructure:"file"`
}

// NewViper は既定値と環境変数の設定を済ませた viper を返します。
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout", 120*time.Second)
	v.SetDefault("api.max_retries", 2)
	v.SetDefault("api.retry_base_delay", time.Second)

	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", defaultStoreDir())
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.key_prefix", "logostudio:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("defaults.model", catalog.DefaultSettings.Model)
	v.SetDefault("defaults.max_history_items", catalog.DefaultSettings.MaxHistoryItems)

	v.SetDefault("metrics.file", "")
	v.SetDefault("reference.gcs", false)
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".logostudio"
	}
	return filepath.Join(home, ".logostudio")
}

// Load は path の設定ファイル（空なら store.dir 配下の config.yaml を任意で）を読み込み、
// 検証済みの Config を返します。
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("設定ファイル %s の読み込みに失敗しました: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(v.GetString("store.dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値の整合性を検証します。
func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive: %s", c.API.Timeout))
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > MaxRetriesLimit {
		errs = append(errs, fmt.Errorf("api.max_retries must be between 0 and %d: %d", MaxRetriesLimit, c.API.MaxRetries))
	}
	if c.API.RetryBaseDelay < 0 {
		errs = append(errs, fmt.Errorf("api.retry_base_delay must not be negative: %s", c.API.RetryBaseDelay))
	}
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("store.dir is required for the file backend"))
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend: %q", c.Store.Backend))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log.format: %q", c.Log.Format))
	}
	if c.Defaults.MaxHistoryItems <= 0 {
		errs = append(errs, fmt.Errorf("defaults.max_history_items must be positive: %d", c.Defaults.MaxHistoryItems))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel は log.level を slog.Level に変換します。
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("unknown log.level: %q", c.Level)
	}
	return lvl, nil
}
