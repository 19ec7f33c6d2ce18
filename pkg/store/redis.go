package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore は Redis の文字列値として JSON を保存します。
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// RedisOptions は RedisStore の接続設定です。
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisStore は接続を確認して RedisStore を初期化します。
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis への接続に失敗しました: %w", err)
	}
	return NewRedisStoreWithClient(rdb, opts.Prefix)
}

// NewRedisStoreWithClient は既存のクライアントで RedisStore を初期化します。
func NewRedisStoreWithClient(rdb redis.UniversalClient, prefix string) (*RedisStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

// Load は key の値を v に読み込みます。存在しない場合は false を返します。
func (s *RedisStore) Load(ctx context.Context, key string, v any) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s の読み込みに失敗しました: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%s のデコードに失敗しました: %w", key, err)
	}
	return true, nil
}

// Save は v を JSON にして key に保存します。
func (s *RedisStore) Save(ctx context.Context, key string, v any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s のエンコードに失敗しました: %w", key, err)
	}
	if err := s.rdb.Set(ctx, s.prefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("%s の保存に失敗しました: %w", key, err)
	}
	return nil
}

// Delete は key の値を削除します。存在しない場合もエラーにしません。
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%s の削除に失敗しました: %w", key, err)
	}
	return nil
}

// Close は接続を閉じます。
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
