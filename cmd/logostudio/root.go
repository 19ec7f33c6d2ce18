package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shouni/gemini-logo-kit/pkg/config"
	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/generator"
	"github.com/shouni/gemini-logo-kit/pkg/history"
	"github.com/shouni/gemini-logo-kit/pkg/metrics"
	"github.com/shouni/gemini-logo-kit/pkg/reference"
	"github.com/shouni/gemini-logo-kit/pkg/store"
	"github.com/shouni/gemini-logo-kit/pkg/studio"
	"github.com/shouni/gemini-logo-kit/pkg/transport"
)

// app はコマンド間で共有する依存関係です。
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config

	// doer が nil の場合は api.timeout を設定した http.Client を使います。
	doer transport.Doer

	registry *prometheus.Registry
	studio   *studio.Studio
	refs     *reference.Loader
	closers  []func() error
}

func newApp() *app {
	return &app{v: config.NewViper()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "logostudio",
		Short:         "Generate logos with Gemini and Imagen models",
		Long:          "logostudio compiles a logo configuration into a prompt, sends it to a Gemini or Imagen model and keeps a local history of the results.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default: <store dir>/config.yaml if present)")
	flags.String("store-dir", "", "Directory for the file store")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file on exit")

	_ = a.v.BindPFlag("store.dir", flags.Lookup("store-dir"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("metrics.file", flags.Lookup("metrics-file"))

	root.AddCommand(
		newGenerateCmd(a),
		newKeyCmd(a),
		newCatalogCmd(),
		newHistoryCmd(a),
		newSettingsCmd(a),
	)
	return root
}

// setup は設定を読み込み、ロガーと依存関係を初期化します。
func (a *app) setup(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := setupLogger(logOut, cfg.Log); err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	collector, err := metrics.NewCollector(a.registry)
	if err != nil {
		return fmt.Errorf("メトリクスの初期化に失敗しました: %w", err)
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	doer := a.doer
	if doer == nil {
		doer = &http.Client{Timeout: cfg.API.Timeout}
	}
	sender, err := transport.New(doer,
		transport.WithMaxRetries(cfg.API.MaxRetries),
		transport.WithBaseDelay(cfg.API.RetryBaseDelay),
		transport.WithRecorder(collector),
	)
	if err != nil {
		return err
	}

	gen, err := generator.NewDefaultLogoGenerator(sender, cfg.API.BaseURL, collector)
	if err != nil {
		return err
	}
	keys, err := generator.NewKeyValidator(doer, cfg.API.BaseURL, collector)
	if err != nil {
		return err
	}
	hist, err := history.NewManager(st, cfg.Defaults.MaxHistoryItems)
	if err != nil {
		return err
	}
	a.studio, err = studio.New(st, gen, keys, hist, studio.WithDefaultSettings(domain.AppSettings{
		Model:           cfg.Defaults.Model,
		MaxHistoryItems: cfg.Defaults.MaxHistoryItems,
	}))
	if err != nil {
		return err
	}

	reader, err := a.openReader(ctx)
	if err != nil {
		return err
	}
	fetcher := httpkit.New(cfg.API.Timeout,
		httpkit.WithMaxRetries(uint64(cfg.API.MaxRetries)),
		httpkit.WithInitialInterval(cfg.API.RetryBaseDelay),
	)
	a.refs = reference.NewLoader(fetcher, reader)

	slog.DebugContext(ctx, "初期化が完了しました", "store", cfg.Store.Backend, "base_url", cfg.API.BaseURL)
	return nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.Store.Backend {
	case config.BackendRedis:
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     a.cfg.Store.RedisAddr,
			Password: a.cfg.Store.RedisPassword,
			DB:       a.cfg.Store.RedisDB,
			Prefix:   a.cfg.Store.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	default:
		return store.NewFileStore(a.cfg.Store.Dir)
	}
}

// openReader は参照画像ファイルの読み込み元を返します。reference.gcs が有効なら gs:// も読めます。
func (a *app) openReader(ctx context.Context) (remoteio.InputReader, error) {
	if !a.cfg.Reference.GCS {
		return remoteio.NewUniversalInputReader(nil, nil), nil
	}
	factory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, factory.Close)
	return factory.InputReader()
}

// teardown はメトリクスを書き出し、接続を閉じます。
func (a *app) teardown() error {
	var firstErr error
	if a.cfg != nil && a.cfg.Metrics.File != "" && a.registry != nil {
		if err := metrics.WriteTextfile(a.cfg.Metrics.File, a.registry); err != nil {
			firstErr = fmt.Errorf("メトリクスの書き出しに失敗しました: %w", err)
		}
	}
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// apiKey はフラグ、環境変数/設定ファイル、保存済みの順にキーを選びます。
// 空文字列を返した場合は Studio 側で保存済みのキーを使います。
func (a *app) apiKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return a.cfg.API.Key
}

func setupLogger(w io.Writer, lc config.LogConfig) error {
	level, err := lc.SlogLevel()
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
