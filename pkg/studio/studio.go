// Package studio は API キー・最後の設定・アプリ設定の永続化と、
// 生成成功時の履歴登録をまとめて扱います。
package studio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-logo-kit/pkg/catalog"
	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/generator"
	"github.com/shouni/gemini-logo-kit/pkg/history"
	"github.com/shouni/gemini-logo-kit/pkg/store"
)

// Studio は生成パイプラインの呼び出し側の状態を管理します。
type Studio struct {
	store     store.Store
	generator generator.Generator
	keys      generator.KeyChecker
	history   *history.Manager
	defaults  domain.AppSettings
}

// Option は Studio の設定を変更します。
type Option func(*Studio)

// WithDefaultSettings は設定が未保存のときに使う既定値を指定します。
// 不正な値は無視し、カタログの既定値を使います。
func WithDefaultSettings(settings domain.AppSettings) Option {
	return func(s *Studio) {
		if _, ok := catalog.LookupModel(settings.Model); ok {
			s.defaults.Model = settings.Model
		}
		if settings.MaxHistoryItems > 0 {
			s.defaults.MaxHistoryItems = settings.MaxHistoryItems
		}
	}
}

// New は依存関係を注入して Studio を初期化します。
func New(s store.Store, gen generator.Generator, keys generator.KeyChecker, hist *history.Manager, opts ...Option) (*Studio, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if keys == nil {
		return nil, fmt.Errorf("key checker is required")
	}
	if hist == nil {
		return nil, fmt.Errorf("history manager is required")
	}
	st := &Studio{store: s, generator: gen, keys: keys, history: hist, defaults: catalog.DefaultSettings}
	for _, opt := range opts {
		opt(st)
	}
	return st, nil
}

// History は履歴マネージャーを返します。
func (s *Studio) History() *history.Manager {
	return s.history
}

// APIKey は保存済みの API キーを返します。未保存なら空文字列です。
func (s *Studio) APIKey(ctx context.Context) (string, error) {
	var key string
	if _, err := s.store.Load(ctx, store.KeyAPIKey, &key); err != nil {
		return "", err
	}
	return key, nil
}

// SetAPIKey は API キーを保存します。空の場合は削除します。
func (s *Studio) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.store.Delete(ctx, store.KeyAPIKey)
	}
	return s.store.Save(ctx, store.KeyAPIKey, key)
}

// ValidateKey は key（空なら保存済みのキー）をプロバイダに確認します。
func (s *Studio) ValidateKey(ctx context.Context, key string) (domain.KeyValidationResult, error) {
	if strings.TrimSpace(key) == "" {
		stored, err := s.APIKey(ctx)
		if err != nil {
			return domain.KeyValidationResult{}, err
		}
		key = stored
	}
	return s.keys.ValidateAPIKey(ctx, key), nil
}

// Settings は保存済みのアプリ設定を返します。未保存なら既定値です。
func (s *Studio) Settings(ctx context.Context) (domain.AppSettings, error) {
	settings := s.defaults
	if _, err := s.store.Load(ctx, store.KeySettings, &settings); err != nil {
		return domain.AppSettings{}, err
	}
	return settings, nil
}

// SaveSettings はアプリ設定を検証して保存し、履歴の上限に反映します。
func (s *Studio) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	if _, ok := catalog.LookupModel(settings.Model); !ok {
		return fmt.Errorf("unknown model: %s", settings.Model)
	}
	if settings.MaxHistoryItems <= 0 {
		return fmt.Errorf("maxHistoryItems must be positive: %d", settings.MaxHistoryItems)
	}
	if err := s.store.Save(ctx, store.KeySettings, settings); err != nil {
		return err
	}
	s.history.SetMaxItems(settings.MaxHistoryItems)
	return nil
}

// LastConfig は最後に使ったロゴ設定を返します。未保存なら既定値です。
func (s *Studio) LastConfig(ctx context.Context) (domain.LogoConfig, error) {
	cfg := catalog.DefaultConfig
	if _, err := s.store.Load(ctx, store.KeyConfig, &cfg); err != nil {
		return domain.LogoConfig{}, err
	}
	return cfg, nil
}

// SaveConfig はロゴ設定を保存します。
func (s *Studio) SaveConfig(ctx context.Context, cfg domain.LogoConfig) error {
	return s.store.Save(ctx, store.KeyConfig, cfg)
}

// Generate は保存済みの設定とキーでロゴを生成し、成功時のみ履歴に追加します。
// apiKey が空の場合は保存済みのキーを使います。
// 生成自体の失敗は GenerationResult で返し、error は永続化の失敗のみです。
func (s *Studio) Generate(ctx context.Context, cfg domain.LogoConfig, apiKey string) (domain.GenerationResult, *domain.HistoryItem, error) {
	if strings.TrimSpace(apiKey) == "" {
		stored, err := s.APIKey(ctx)
		if err != nil {
			return domain.GenerationResult{}, nil, err
		}
		apiKey = stored
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.GenerationResult{}, nil, err
	}
	s.history.SetMaxItems(settings.MaxHistoryItems)

	if err := s.SaveConfig(ctx, cfg); err != nil {
		return domain.GenerationResult{}, nil, err
	}

	res := s.generator.GenerateLogo(ctx, domain.GenerationRequest{
		LogoConfig: cfg,
		APIKey:     apiKey,
		Model:      settings.Model,
	})
	if !res.Success {
		return res, nil, nil
	}

	item, err := s.history.Add(ctx, res.ImageURL, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "履歴の保存に失敗しました", "error", err)
		return res, nil, err
	}
	return res, &item, nil
}

// Remix は履歴項目の設定を参照画像付きで最後の設定として保存し、返します。
func (s *Studio) Remix(ctx context.Context, id string) (domain.LogoConfig, error) {
	cfg, err := s.history.Remix(ctx, id)
	if err != nil {
		return domain.LogoConfig{}, err
	}
	if err := s.SaveConfig(ctx, cfg); err != nil {
		return domain.LogoConfig{}, err
	}
	return cfg, nil
}
