package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
)

type PlayerRecordRepository struct {
	mu    sync.RWMutex
	items map[battleKey][]playerstats.PlayerRecord
}

func NewPlayerRecordRepository() *PlayerRecordRepository {
	return &PlayerRecordRepository{items: make(map[battleKey][]playerstats.PlayerRecord)}
}

func (r *PlayerRecordRepository) ReplaceForBattle(_ context.Context, clanID string, battleID battleid.ID, records []playerstats.PlayerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]playerstats.PlayerRecord, len(records))
	copy(copied, records)
	r.items[battleKey{clanID, battleID}] = copied
	return nil
}

func (r *PlayerRecordRepository) ListByClan(_ context.Context, clanID string, from, to battleid.ID) ([]playerstats.PlayerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.PlayerRecord, 0)
	for key, rows := range r.items {
		if key.clanID != clanID || !inRange(key.battleID, from, to) {
			continue
		}
		out = append(out, rows...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BattleID != out[j].BattleID {
			return out[i].BattleID < out[j].BattleID
		}
		return out[i].RatioRank < out[j].RatioRank
	})
	return out, nil
}

func (r *PlayerRecordRepository) ListByBattle(_ context.Context, clanID string, battleID battleid.ID) ([]playerstats.PlayerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.items[battleKey{clanID, battleID}]
	out := make([]playerstats.PlayerRecord, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool { return out[i].RatioRank < out[j].RatioRank })
	return out, nil
}
