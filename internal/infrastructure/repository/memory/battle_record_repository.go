package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
)

type battleKey struct {
	clanID   string
	battleID battleid.ID
}

type BattleRecordRepository struct {
	mu    sync.RWMutex
	items map[battleKey]battlestats.BattleRecord
}

func NewBattleRecordRepository() *BattleRecordRepository {
	return &BattleRecordRepository{items: make(map[battleKey]battlestats.BattleRecord)}
}

func (r *BattleRecordRepository) Upsert(_ context.Context, record battlestats.BattleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[battleKey{record.ClanID, record.BattleID}] = record
	return nil
}

func (r *BattleRecordRepository) ListByClan(_ context.Context, clanID string, from, to battleid.ID) ([]battlestats.BattleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]battlestats.BattleRecord, 0)
	for key, record := range r.items {
		if key.clanID != clanID || !inRange(key.battleID, from, to) {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BattleID < out[j].BattleID })
	return out, nil
}

func (r *BattleRecordRepository) ListAll(_ context.Context) ([]battlestats.BattleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]battlestats.BattleRecord, 0, len(r.items))
	for _, record := range r.items {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClanID != out[j].ClanID {
			return out[i].ClanID < out[j].ClanID
		}
		return out[i].BattleID < out[j].BattleID
	})
	return out, nil
}

func inRange(id, from, to battleid.ID) bool {
	if from != "" && id < from {
		return false
	}
	if to != "" && id > to {
		return false
	}
	return true
}
