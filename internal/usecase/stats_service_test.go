package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

func newStatsFixture(t *testing.T, battleDates ...time.Time) (*StatsService, *stubRecordRepository, *stubPlayerRepository) {
	t.Helper()

	battles := newStubBattleRepository()
	for _, date := range battleDates {
		start, end := battle.WindowBounds(date)
		if _, err := battles.Create(context.Background(), battle.Window{ID: battleid.Encode(date), StartAt: start, EndAt: end}); err != nil {
			t.Fatalf("seed window: %v", err)
		}
	}

	records := newStubRecordRepository()
	players := newStubPlayerRepository()
	service := NewStatsService(battles, records, players, logging.NewNop())
	service.now = func() time.Time { return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC) }
	return service, records, players
}

func TestStatsServiceSaveBattleRecordDerivesEverything(t *testing.T) {
	t.Parallel()

	service, records, players := newStatsFixture(t, officialDate(2025, time.March, 10))

	saved, err := service.SaveBattleRecord(context.Background(), SaveBattleInput{
		ClanID:        "angry-legends",
		BattleID:      "20250310",
		OpponentScore: 40000,
		OpponentFp:    2500,
		BaselineFp:    2000,
		Players: []battlestats.PlayerInput{
			{PlayerID: "p1", PlayerName: "Red", Score: 20000, Fp: 1000},
			{PlayerID: "p2", PlayerName: "Chuck", Score: 30000, Fp: 1000},
		},
		Nonplayers: []battlestats.NonplayerInput{
			{PlayerID: "p3", Fp: 500},
			{PlayerID: "p4", Fp: 400, Reserve: true},
		},
	})
	if err != nil {
		t.Fatalf("SaveBattleRecord error: %v", err)
	}

	record := saved.Record
	if record.Score != 50000 {
		t.Fatalf("score = %d, want 50000", record.Score)
	}
	// Reserve power stays out of the clan total.
	if record.Fp != 2500 {
		t.Fatalf("fp = %d, want 2500", record.Fp)
	}
	if record.Result != battlestats.OutcomeWin {
		t.Fatalf("result = %s, want win", record.Result)
	}
	if record.Ratio != 25000 {
		t.Fatalf("ratio = %v, want 25000", record.Ratio)
	}
	if record.AverageRatio != 20000 {
		t.Fatalf("average ratio = %v, want 20000", record.AverageRatio)
	}
	if record.MarginRatio != 20 {
		t.Fatalf("margin ratio = %v, want 20", record.MarginRatio)
	}
	if record.NonplayingCount != 1 || record.NonplayingFp != 500 {
		t.Fatalf("nonplaying = %d/%d", record.NonplayingCount, record.NonplayingFp)
	}
	if record.ReserveCount != 1 || record.ReserveFp != 400 {
		t.Fatalf("reserve = %d/%d", record.ReserveCount, record.ReserveFp)
	}

	if len(saved.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(saved.Players))
	}
	if saved.Players[0].Ratio != 20000 || saved.Players[0].RatioRank != 2 {
		t.Fatalf("p1 = %+v", saved.Players[0])
	}
	if saved.Players[1].Ratio != 30000 || saved.Players[1].RatioRank != 1 {
		t.Fatalf("p2 = %+v", saved.Players[1])
	}

	stored, err := records.ListByClan(context.Background(), "angry-legends", "", "")
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored records = %d err = %v", len(stored), err)
	}
	rows, err := players.ListByBattle(context.Background(), "angry-legends", "20250310")
	if err != nil || len(rows) != 2 {
		t.Fatalf("stored players = %d err = %v", len(rows), err)
	}
}

func TestStatsServiceSaveBattleRecordUnknownWindow(t *testing.T) {
	t.Parallel()

	service, _, _ := newStatsFixture(t)

	_, err := service.SaveBattleRecord(context.Background(), SaveBattleInput{
		ClanID:   "angry-legends",
		BattleID: "20250310",
		Players:  []battlestats.PlayerInput{{PlayerID: "p1", Score: 100, Fp: 10}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsServiceSaveBattleRecordValidation(t *testing.T) {
	t.Parallel()

	service, _, _ := newStatsFixture(t, officialDate(2025, time.March, 10))

	cases := []struct {
		name  string
		input SaveBattleInput
	}{
		{
			name:  "blank clan",
			input: SaveBattleInput{BattleID: "20250310", Players: []battlestats.PlayerInput{{PlayerID: "p1", Score: 1, Fp: 1}}},
		},
		{
			name:  "malformed battle id",
			input: SaveBattleInput{ClanID: "c", BattleID: "2025031", Players: []battlestats.PlayerInput{{PlayerID: "p1", Score: 1, Fp: 1}}},
		},
		{
			name:  "no players",
			input: SaveBattleInput{ClanID: "c", BattleID: "20250310"},
		},
		{
			name:  "zero power player",
			input: SaveBattleInput{ClanID: "c", BattleID: "20250310", Players: []battlestats.PlayerInput{{PlayerID: "p1", Score: 1, Fp: 0}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.SaveBattleRecord(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestStatsServiceMonthlySummary(t *testing.T) {
	t.Parallel()

	service, _, _ := newStatsFixture(t,
		officialDate(2025, time.March, 10),
		officialDate(2025, time.March, 13),
		officialDate(2025, time.March, 16),
		officialDate(2025, time.April, 1),
	)

	save := func(id battleid.ID, score int64) {
		t.Helper()
		_, err := service.SaveBattleRecord(context.Background(), SaveBattleInput{
			ClanID:        "angry-legends",
			BattleID:      id,
			OpponentScore: 40000,
			OpponentFp:    2500,
			Players: []battlestats.PlayerInput{
				{PlayerID: "p1", Score: score, Fp: 1000},
				{PlayerID: "p2", Score: score, Fp: 1000},
			},
		})
		if err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	save("20250310", 25000)
	save("20250313", 25000)
	save("20250316", 25000)
	save("20250401", 10000)

	report, err := service.MonthlySummary(context.Background(), "angry-legends", "202503")
	if err != nil {
		t.Fatalf("MonthlySummary error: %v", err)
	}
	if report.Period != "202503" {
		t.Fatalf("period = %s", report.Period)
	}
	if report.Clan.Battles != 3 || report.Clan.Wins != 3 {
		t.Fatalf("clan summary = %+v", report.Clan)
	}
	// Both players played all 3 March battles, meeting the minimum sample.
	if len(report.Individuals) != 2 {
		t.Fatalf("individuals = %d, want 2", len(report.Individuals))
	}
	if report.Individuals[0].Battles != 3 {
		t.Fatalf("individual battles = %d", report.Individuals[0].Battles)
	}
}

func TestStatsServiceMonthlySummaryEmptyPeriod(t *testing.T) {
	t.Parallel()

	service, _, _ := newStatsFixture(t)

	report, err := service.MonthlySummary(context.Background(), "angry-legends", "202503")
	if err != nil {
		t.Fatalf("empty period must not error: %v", err)
	}
	if report.Clan.Battles != 0 || report.Clan.AvgRatio != 0 {
		t.Fatalf("expected zero-filled summary, got %+v", report.Clan)
	}
	if len(report.Individuals) != 0 {
		t.Fatalf("individuals = %d, want 0", len(report.Individuals))
	}
}

func TestStatsServicePeriodValidation(t *testing.T) {
	t.Parallel()

	service, _, _ := newStatsFixture(t)

	if _, err := service.MonthlySummary(context.Background(), "c", "2025-03"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for month, got %v", err)
	}
	if _, err := service.MonthlySummary(context.Background(), "c", "202513"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for month 13, got %v", err)
	}
	if _, err := service.YearlySummary(context.Background(), "c", "25"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for year, got %v", err)
	}
	if _, err := service.YearlySummary(context.Background(), "", "2025"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank clan, got %v", err)
	}
}
