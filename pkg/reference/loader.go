// Package reference は参照画像の入力（data URI・URL・ローカルファイル・GCS）を data URI に揃えます。
package reference

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/gemini-logo-kit/pkg/imgutil"
)

const (
	// DefaultMaxBytes を超える参照画像は JPEG に再圧縮します。
	DefaultMaxBytes = 4 << 20
	// ImageCompressionQuality は再圧縮時の JPEG 品質です。
	ImageCompressionQuality = 75
)

// HTTPClient は、URL からデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

var _ HTTPClient = (*httpkit.Client)(nil)

// Loader は参照画像を読み込みます。
type Loader struct {
	httpClient HTTPClient
	reader     remoteio.InputReader
	resolve    Resolver
	maxBytes   int
}

// Option は Loader の設定を変更します。
type Option func(*Loader)

// WithResolver は SSRF 検査に使う名前解決を差し替えます。
func WithResolver(r Resolver) Option {
	return func(l *Loader) { l.resolve = r }
}

// WithMaxBytes は再圧縮のしきい値を設定します。0 以下なら再圧縮しません。
func WithMaxBytes(n int) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// NewLoader は Loader を初期化します。httpClient が nil の場合は URL を扱いません。
// reader が nil の場合はローカルファイルのみを読む remoteio.UniversalInputReader を使います。
func NewLoader(httpClient HTTPClient, reader remoteio.InputReader, opts ...Option) *Loader {
	if reader == nil {
		reader = remoteio.NewUniversalInputReader(nil, nil)
	}
	l := &Loader{
		httpClient: httpClient,
		reader:     reader,
		resolve:    net.LookupIP,
		maxBytes:   DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load は src を data URI に変換します。空文字列の場合は空文字列を返します。
func (l *Loader) Load(ctx context.Context, src string) (string, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return "", nil
	case imgutil.IsDataURI(src):
		if _, _, err := imgutil.DecodeDataURI(src); err != nil {
			return "", fmt.Errorf("参照画像の data URI が不正です: %w", err)
		}
		return src, nil
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		data, err := l.fetch(ctx, src)
		if err != nil {
			return "", err
		}
		return l.toDataURI(ctx, data)
	default:
		data, err := l.open(ctx, src)
		if err != nil {
			return "", fmt.Errorf("参照画像ファイルの読み込みに失敗しました: %w", err)
		}
		return l.toDataURI(ctx, data)
	}
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if l.httpClient == nil {
		return nil, fmt.Errorf("URL の参照画像は利用できません: HTTP クライアントが未設定です")
	}
	if safe, err := isSafeURL(rawURL, l.resolve); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	return l.httpClient.FetchBytes(ctx, rawURL)
}

// open はローカルパスまたは gs:// / s3:// の URI を読み込みます。
func (l *Loader) open(ctx context.Context, src string) ([]byte, error) {
	rc, err := l.reader.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, httpkit.MaxResponseBodySize))
}

func (l *Loader) toDataURI(ctx context.Context, data []byte) (string, error) {
	if _, ok := imgutil.SniffImageMIME(data); !ok {
		return "", fmt.Errorf("参照画像として認識できないデータです")
	}

	mime, out, err := imgutil.ShrinkReference(data, l.maxBytes, ImageCompressionQuality)
	if err != nil {
		slog.WarnContext(ctx, "参照画像の圧縮に失敗したため元のデータを使用します", "error", err)
		mime, out = imgutil.DetectImageMIME(data), data
	} else if len(out) != len(data) {
		slog.DebugContext(ctx, "参照画像を圧縮しました", "before", len(data), "after", len(out))
	}
	return imgutil.EncodeDataURI(mime, out), nil
}
