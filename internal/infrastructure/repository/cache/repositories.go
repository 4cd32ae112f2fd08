// Package cache wraps repositories with a read-through TTL cache. Writers
// invalidate by prefix so reads after a mutation see fresh rows.
package cache

import (
	"context"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	basecache "github.com/webzeppelin/angry-birdman-sub003/internal/platform/cache"
)

type BattleRepository struct {
	next  battle.Repository
	cache *basecache.Store
}

func NewBattleRepository(next battle.Repository, cache *basecache.Store) *BattleRepository {
	return &BattleRepository{next: next, cache: cache}
}

func (r *BattleRepository) GetByID(ctx context.Context, id battleid.ID) (battle.Window, bool, error) {
	key := "battle:id:" + string(id)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		window, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedWindow{value: window, exists: exists}, nil
	})
	if err != nil {
		return battle.Window{}, false, err
	}

	cached, _ := v.(cachedWindow)
	return cached.value, cached.exists, nil
}

func (r *BattleRepository) Create(ctx context.Context, window battle.Window) (battle.Window, error) {
	created, err := r.next.Create(ctx, window)
	if err != nil {
		return battle.Window{}, err
	}

	r.cache.DeletePrefix(ctx, "battle:")
	return created, nil
}

func (r *BattleRepository) List(ctx context.Context) ([]battle.Window, error) {
	v, err := r.cache.GetOrLoad(ctx, "battle:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]battle.Window(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]battle.Window)
	return append([]battle.Window(nil), items...), nil
}

type cachedWindow struct {
	value  battle.Window
	exists bool
}
