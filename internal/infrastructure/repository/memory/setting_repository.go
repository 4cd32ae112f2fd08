package memory

import (
	"context"
	"sync"
)

type SettingRepository struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewSettingRepository() *SettingRepository {
	return &SettingRepository{items: make(map[string]string)}
}

func (r *SettingRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.items[key]
	return value, ok, nil
}

func (r *SettingRepository) Upsert(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[key] = value
	return nil
}
