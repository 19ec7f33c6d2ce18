// Package history は生成に成功したロゴの履歴を管理します。
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/shouni/gemini-logo-kit/pkg/catalog"
	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/store"
)

// ErrNotFound は指定 ID の履歴が存在しないことを表します。
var ErrNotFound = errors.New("history item not found")

// Manager は Store 上の履歴リストを操作します。新しい項目ほど先頭に並びます。
type Manager struct {
	store    store.Store
	maxItems int
	now      func() time.Time
	newID    func() string
	mu       sync.Mutex
}

// Option は Manager の設定を変更します。
type Option func(*Manager)

// WithClock は時刻の取得元を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator は ID の生成方法を差し替えます。
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// NewManager は Manager を初期化します。maxItems が 0 以下の場合は既定値を使います。
func NewManager(s store.Store, maxItems int, opts ...Option) (*Manager, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if maxItems <= 0 {
		maxItems = catalog.DefaultSettings.MaxHistoryItems
	}
	m := &Manager{
		store:    s,
		maxItems: maxItems,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// SetMaxItems は保持件数の上限を変更します。次回の Add から適用されます。
func (m *Manager) SetMaxItems(n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxItems = n
}

// Add は生成結果を履歴の先頭に追加し、上限を超えた古い項目を切り捨てます。
func (m *Manager) Add(ctx context.Context, imageURL string, cfg domain.LogoConfig) (domain.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load(ctx)
	if err != nil {
		return domain.HistoryItem{}, err
	}

	item := domain.HistoryItem{
		ID:        m.newID(),
		Timestamp: m.now().UnixMilli(),
		ImageURL:  imageURL,
		Config:    cfg,
		Favorite:  false,
	}
	items = append([]domain.HistoryItem{item}, items...)
	if len(items) > m.maxItems {
		items = items[:m.maxItems]
	}

	if err := m.save(ctx, items); err != nil {
		return domain.HistoryItem{}, err
	}
	return item, nil
}

// List は履歴を新しい順に返します。favoritesOnly が true ならお気に入りのみを返します。
func (m *Manager) List(ctx context.Context, favoritesOnly bool) ([]domain.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if favoritesOnly {
		items = lo.Filter(items, func(it domain.HistoryItem, _ int) bool { return it.Favorite })
	}
	return items, nil
}

// Get は ID に一致する履歴を返します。
func (m *Manager) Get(ctx context.Context, id string) (domain.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load(ctx)
	if err != nil {
		return domain.HistoryItem{}, err
	}
	item, ok := lo.Find(items, func(it domain.HistoryItem) bool { return it.ID == id })
	if !ok {
		return domain.HistoryItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item, nil
}

// ToggleFavorite はお気に入り状態を反転し、更新後の項目を返します。
func (m *Manager) ToggleFavorite(ctx context.Context, id string) (domain.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load(ctx)
	if err != nil {
		return domain.HistoryItem{}, err
	}
	_, idx, ok := lo.FindIndexOf(items, func(it domain.HistoryItem) bool { return it.ID == id })
	if !ok {
		return domain.HistoryItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	items[idx].Favorite = !items[idx].Favorite

	if err := m.save(ctx, items); err != nil {
		return domain.HistoryItem{}, err
	}
	return items[idx], nil
}

// Delete は ID に一致する履歴を削除します。
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(items, func(it domain.HistoryItem, _ int) bool { return it.ID == id })
	if len(kept) == len(items) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.save(ctx, kept)
}

// Clear は履歴をすべて削除します。
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(ctx, store.KeyHistory)
}

// Remix は履歴項目の設定を、その画像を参照画像にした状態で返します。
func (m *Manager) Remix(ctx context.Context, id string) (domain.LogoConfig, error) {
	item, err := m.Get(ctx, id)
	if err != nil {
		return domain.LogoConfig{}, err
	}
	cfg := item.Config
	cfg.ReferenceImage = item.ImageURL
	return cfg, nil
}

func (m *Manager) load(ctx context.Context) ([]domain.HistoryItem, error) {
	var items []domain.HistoryItem
	if _, err := m.store.Load(ctx, store.KeyHistory, &items); err != nil {
		return nil, fmt.Errorf("履歴の読み込みに失敗しました: %w", err)
	}
	return items, nil
}

func (m *Manager) save(ctx context.Context, items []domain.HistoryItem) error {
	if err := m.store.Save(ctx, store.KeyHistory, items); err != nil {
		return fmt.Errorf("履歴の保存に失敗しました: %w", err)
	}
	return nil
}
