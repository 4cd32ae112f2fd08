// Package memory holds map-backed repositories for local development and
// tests. They mirror the ordering guarantees of the postgres implementations.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

type BattleRepository struct {
	mu    sync.RWMutex
	items map[battleid.ID]battle.Window
}

func NewBattleRepository() *BattleRepository {
	return &BattleRepository{items: make(map[battleid.ID]battle.Window)}
}

func (r *BattleRepository) GetByID(_ context.Context, id battleid.ID) (battle.Window, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	window, ok := r.items[id]
	if !ok {
		return battle.Window{}, false, nil
	}
	return window, true, nil
}

func (r *BattleRepository) Create(_ context.Context, window battle.Window) (battle.Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[window.ID]; ok {
		return battle.Window{}, battle.ErrAlreadyExists
	}
	if window.CreatedAt.IsZero() {
		window.CreatedAt = time.Now().UTC()
	}
	r.items[window.ID] = window
	return window, nil
}

func (r *BattleRepository) List(_ context.Context) ([]battle.Window, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]battle.Window, 0, len(r.items))
	for _, window := range r.items {
		out = append(out, window)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
