package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
)

type stubBattleRepository struct {
	mu        sync.Mutex
	windows   map[battleid.ID]battle.Window
	getErr    error
	createErr error
	createdN  int
}

func newStubBattleRepository() *stubBattleRepository {
	return &stubBattleRepository{windows: map[battleid.ID]battle.Window{}}
}

func (r *stubBattleRepository) GetByID(_ context.Context, id battleid.ID) (battle.Window, bool, error) {
	if r.getErr != nil {
		return battle.Window{}, false, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	return w, ok, nil
}

func (r *stubBattleRepository) Create(_ context.Context, window battle.Window) (battle.Window, error) {
	if r.createErr != nil {
		return battle.Window{}, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[window.ID]; ok {
		return battle.Window{}, battle.ErrAlreadyExists
	}
	r.windows[window.ID] = window
	r.createdN++
	return window, nil
}

func (r *stubBattleRepository) List(_ context.Context) ([]battle.Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]battle.Window, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubSettingRepository struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	putErr error
}

func newStubSettingRepository() *stubSettingRepository {
	return &stubSettingRepository{values: map[string]string{}}
}

func (r *stubSettingRepository) Get(_ context.Context, key string) (string, bool, error) {
	if r.getErr != nil {
		return "", false, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.values[key]
	return value, ok, nil
}

func (r *stubSettingRepository) Upsert(_ context.Context, key, value string) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type recordKey struct {
	clanID   string
	battleID battleid.ID
}

type stubRecordRepository struct {
	mu      sync.Mutex
	records map[recordKey]battlestats.BattleRecord
	listErr error
}

func newStubRecordRepository() *stubRecordRepository {
	return &stubRecordRepository{records: map[recordKey]battlestats.BattleRecord{}}
}

func (r *stubRecordRepository) Upsert(_ context.Context, record battlestats.BattleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordKey{record.ClanID, record.BattleID}] = record
	return nil
}

func (r *stubRecordRepository) ListByClan(_ context.Context, clanID string, from, to battleid.ID) ([]battlestats.BattleRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]battlestats.BattleRecord, 0)
	for key, record := range r.records {
		if key.clanID != clanID {
			continue
		}
		if from != "" && key.battleID < from {
			continue
		}
		if to != "" && key.battleID > to {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BattleID < out[j].BattleID })
	return out, nil
}

func (r *stubRecordRepository) ListAll(_ context.Context) ([]battlestats.BattleRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]battlestats.BattleRecord, 0, len(r.records))
	for _, record := range r.records {
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

type stubPlayerRepository struct {
	mu      sync.Mutex
	records map[recordKey][]playerstats.PlayerRecord
}

func newStubPlayerRepository() *stubPlayerRepository {
	return &stubPlayerRepository{records: map[recordKey][]playerstats.PlayerRecord{}}
}

func (r *stubPlayerRepository) ReplaceForBattle(_ context.Context, clanID string, battleID battleid.ID, records []playerstats.PlayerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make([]playerstats.PlayerRecord, len(records))
	copy(copied, records)
	r.records[recordKey{clanID, battleID}] = copied
	return nil
}

func (r *stubPlayerRepository) ListByClan(_ context.Context, clanID string, from, to battleid.ID) ([]playerstats.PlayerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]playerstats.PlayerRecord, 0)
	for key, rows := range r.records {
		if key.clanID != clanID {
			continue
		}
		if from != "" && key.battleID < from {
			continue
		}
		if to != "" && key.battleID > to {
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

func (r *stubPlayerRepository) ListByBattle(_ context.Context, clanID string, battleID battleid.ID) ([]playerstats.PlayerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.records[recordKey{clanID, battleID}]
	out := make([]playerstats.PlayerRecord, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool { return out[i].RatioRank < out[j].RatioRank })
	return out, nil
}
