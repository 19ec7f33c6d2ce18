// Package store は設定・履歴・API キーを保存するキーバリューストアを提供します。
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// 保存キー
const (
	KeyAPIKey   = "logo_studio_api_key"
	KeyConfig   = "logo_studio_config"
	KeyHistory  = "logo_studio_history"
	KeySettings = "logo_studio_settings"
)

// ErrInvalidKey はキーとして使えない文字列が指定されたことを表します。
var ErrInvalidKey = errors.New("invalid store key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Store は JSON 値を文字列キーで読み書きするストアです。
type Store interface {
	// Load は key の値を v にデコードします。値が無い場合は found=false を返します。
	Load(ctx context.Context, key string, v any) (found bool, err error)
	// Save は v を JSON にエンコードして key に保存します。
	Save(ctx context.Context, key string, v any) error
	// Delete は key を削除します。存在しない場合もエラーにしません。
	Delete(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
