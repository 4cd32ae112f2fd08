package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/cache"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

func seedTrendRecords(t *testing.T, records *stubRecordRepository) {
	t.Helper()

	for _, raw := range []battlestats.RawInputs{
		{Score: 50000, OpponentScore: 40000, BaselineFp: 2000, Fp: 2500, OpponentFp: 2400, NonplayingFp: 500, NonplayingCount: 1},
		{Score: 30000, OpponentScore: 45000, BaselineFp: 2000, Fp: 2600, OpponentFp: 2700},
	} {
		record, err := battlestats.Derive(raw)
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		record.ClanID = "angry-legends"
		if raw.Score == 50000 {
			record.BattleID = "20250310"
		} else {
			record.BattleID = "20250313"
		}
		if err := records.Upsert(context.Background(), record); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
}

func TestTrendServiceComputeTrendsPerBattle(t *testing.T) {
	t.Parallel()

	records := newStubRecordRepository()
	seedTrendRecords(t, records)
	service := NewTrendService(records, nil, logging.NewNop())

	trends, err := service.ComputeTrends(context.Background(), TrendQuery{ClanID: "angry-legends"})
	if err != nil {
		t.Fatalf("ComputeTrends error: %v", err)
	}
	if len(trends.FlockPower) != 2 || len(trends.Ratio) != 2 || len(trends.Margin) != 2 {
		t.Fatalf("series lengths = %d/%d/%d", len(trends.FlockPower), len(trends.Ratio), len(trends.Margin))
	}
	if trends.FlockPower[0].Label != "20250310" || trends.FlockPower[1].Label != "20250313" {
		t.Fatalf("battle order: %+v", trends.FlockPower)
	}
	if trends.Summary.Battles != 2 || trends.Summary.Wins != 1 || trends.Summary.Losses != 1 {
		t.Fatalf("summary = %+v", trends.Summary)
	}
}

func TestTrendServiceComputeTrendsMonthlyRollup(t *testing.T) {
	t.Parallel()

	records := newStubRecordRepository()
	seedTrendRecords(t, records)
	service := NewTrendService(records, nil, logging.NewNop())

	trends, err := service.ComputeTrends(context.Background(), TrendQuery{
		ClanID:      "angry-legends",
		Aggregation: "monthly",
	})
	if err != nil {
		t.Fatalf("ComputeTrends error: %v", err)
	}
	if len(trends.FlockPower) != 1 {
		t.Fatalf("monthly points = %d, want 1", len(trends.FlockPower))
	}
	if trends.FlockPower[0].Label != "202503" {
		t.Fatalf("label = %s", trends.FlockPower[0].Label)
	}
}

func TestTrendServiceComputeTrendsEmptyClan(t *testing.T) {
	t.Parallel()

	service := NewTrendService(newStubRecordRepository(), nil, logging.NewNop())

	trends, err := service.ComputeTrends(context.Background(), TrendQuery{ClanID: "ghost-clan"})
	if err != nil {
		t.Fatalf("empty clan must not error: %v", err)
	}
	if len(trends.FlockPower) != 0 || len(trends.Ratio) != 0 {
		t.Fatalf("expected empty series, got %+v", trends)
	}
}

func TestTrendServiceComputeTrendsValidation(t *testing.T) {
	t.Parallel()

	service := NewTrendService(newStubRecordRepository(), nil, logging.NewNop())

	if _, err := service.ComputeTrends(context.Background(), TrendQuery{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank clan: %v", err)
	}
	if _, err := service.ComputeTrends(context.Background(), TrendQuery{ClanID: "c", Aggregation: "weekly"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad aggregation: %v", err)
	}
	if _, err := service.ComputeTrends(context.Background(), TrendQuery{ClanID: "c", From: "2025"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad from: %v", err)
	}
}

func TestTrendServiceCachesAndInvalidates(t *testing.T) {
	t.Parallel()

	records := newStubRecordRepository()
	seedTrendRecords(t, records)
	store := cache.NewStore(time.Minute)
	service := NewTrendService(records, store, logging.NewNop())

	query := TrendQuery{ClanID: "angry-legends"}
	first, err := service.ComputeTrends(context.Background(), query)
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}

	// A repository failure is masked while the cache holds the series.
	records.listErr = errors.New("db down")
	cached, err := service.ComputeTrends(context.Background(), query)
	if err != nil {
		t.Fatalf("cached compute: %v", err)
	}
	if len(cached.FlockPower) != len(first.FlockPower) {
		t.Fatalf("cached series differs: %d vs %d", len(cached.FlockPower), len(first.FlockPower))
	}

	service.InvalidateClan(context.Background(), "angry-legends")
	if _, err := service.ComputeTrends(context.Background(), query); err == nil {
		t.Fatal("expected repository error after invalidation")
	}
}
