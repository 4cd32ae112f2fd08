package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

// SaveBattleInput carries the raw inputs of one clan's battle result. Every
// derived field is recomputed from these at save time.
type SaveBattleInput struct {
	ClanID        string
	BattleID      battleid.ID
	OpponentScore int64
	OpponentFp    int64
	BaselineFp    int64
	Players       []battlestats.PlayerInput
	Nonplayers    []battlestats.NonplayerInput
}

// SavedBattle is the persisted outcome of SaveBattleRecord.
type SavedBattle struct {
	Record  battlestats.BattleRecord
	Players []playerstats.PlayerRecord
}

// PeriodReport is a monthly or yearly summary for one clan. Individuals only
// contains players that met the minimum sample threshold; a period without
// battles yields a zero-filled clan summary rather than an error.
type PeriodReport struct {
	Period      string
	Clan        battlestats.ClanSummary
	Individuals []playerstats.PeriodSummary
}

type StatsService struct {
	battleRepo battle.Repository
	recordRepo battlestats.Repository
	playerRepo playerstats.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewStatsService(
	battleRepo battle.Repository,
	recordRepo battlestats.Repository,
	playerRepo playerstats.Repository,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		battleRepo: battleRepo,
		recordRepo: recordRepo,
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// SaveBattleRecord derives and persists one clan's battle record together
// with its per-player rows. Clan score and flock power are computed from the
// player inputs; reserve power is excluded from total flock power.
func (s *StatsService) SaveBattleRecord(ctx context.Context, input SaveBattleInput) (SavedBattle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.SaveBattleRecord")
	defer span.End()

	clanID := strings.TrimSpace(input.ClanID)
	if clanID == "" {
		return SavedBattle{}, fmt.Errorf("%w: clan id is required", ErrInvalidInput)
	}
	if _, err := battleid.Decode(input.BattleID); err != nil {
		return SavedBattle{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(input.Players) == 0 {
		return SavedBattle{}, fmt.Errorf("%w: at least one player result is required", ErrInvalidInput)
	}

	_, exists, err := s.battleRepo.GetByID(ctx, input.BattleID)
	if err != nil {
		return SavedBattle{}, fmt.Errorf("find battle window: %w", err)
	}
	if !exists {
		return SavedBattle{}, fmt.Errorf("%w: battle window %s", ErrNotFound, input.BattleID)
	}

	var score int64
	for _, p := range input.Players {
		score += p.Score
	}

	var nonplayingCount, reserveCount int
	var nonplayingFp, reserveFp int64
	for _, n := range input.Nonplayers {
		if n.Reserve {
			reserveCount++
			reserveFp += n.Fp
			continue
		}
		nonplayingCount++
		nonplayingFp += n.Fp
	}

	record, err := battlestats.Derive(battlestats.RawInputs{
		Score:           score,
		OpponentScore:   input.OpponentScore,
		BaselineFp:      input.BaselineFp,
		Fp:              battlestats.TotalFp(input.Players, input.Nonplayers),
		OpponentFp:      input.OpponentFp,
		NonplayingCount: nonplayingCount,
		NonplayingFp:    nonplayingFp,
		ReserveCount:    reserveCount,
		ReserveFp:       reserveFp,
	})
	if err != nil {
		return SavedBattle{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	record.ClanID = clanID
	record.BattleID = input.BattleID
	record.UpdatedAt = s.now().UTC()

	players, err := s.derivePlayers(clanID, input.BattleID, input.Players, record.UpdatedAt)
	if err != nil {
		return SavedBattle{}, err
	}

	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		return SavedBattle{}, fmt.Errorf("store battle record: %w", err)
	}
	if err := s.playerRepo.ReplaceForBattle(ctx, clanID, input.BattleID, players); err != nil {
		return SavedBattle{}, fmt.Errorf("store player records: %w", err)
	}

	s.logger.InfoContext(ctx, "battle record saved",
		"clan_id", clanID,
		"battle_id", input.BattleID,
		"result", record.Result,
		"players", len(players),
	)
	return SavedBattle{Record: record, Players: players}, nil
}

func (s *StatsService) derivePlayers(clanID string, id battleid.ID, inputs []battlestats.PlayerInput, at time.Time) ([]playerstats.PlayerRecord, error) {
	ratios := make([]float64, len(inputs))
	for i, p := range inputs {
		ratio, err := battlestats.PlayerRatio(p.Score, p.Fp)
		if err != nil {
			return nil, fmt.Errorf("%w: player %s: %v", ErrInvalidInput, p.PlayerID, err)
		}
		ratios[i] = ratio
	}
	ranks := battlestats.RatioRanks(ratios)

	out := make([]playerstats.PlayerRecord, len(inputs))
	for i, p := range inputs {
		out[i] = playerstats.PlayerRecord{
			ClanID:     clanID,
			BattleID:   id,
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			Score:      p.Score,
			Fp:         p.Fp,
			Ratio:      ratios[i],
			RatioRank:  ranks[i],
			UpdatedAt:  at,
		}
	}
	return out, nil
}

// ListBattleRecords returns one clan's battle records, optionally bounded by
// battle identifiers.
func (s *StatsService) ListBattleRecords(ctx context.Context, clanID string, from, to battleid.ID) ([]battlestats.BattleRecord, error) {
	clanID = strings.TrimSpace(clanID)
	if clanID == "" {
		return nil, fmt.Errorf("%w: clan id is required", ErrInvalidInput)
	}
	if from != "" {
		if _, err := battleid.Decode(from); err != nil {
			return nil, fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
		}
	}
	if to != "" {
		if _, err := battleid.Decode(to); err != nil {
			return nil, fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
		}
	}

	records, err := s.recordRepo.ListByClan(ctx, clanID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list battle records: %w", err)
	}
	return records, nil
}

// ListBattlePlayers returns the per-player rows of one clan battle.
func (s *StatsService) ListBattlePlayers(ctx context.Context, clanID string, id battleid.ID) ([]playerstats.PlayerRecord, error) {
	clanID = strings.TrimSpace(clanID)
	if clanID == "" {
		return nil, fmt.Errorf("%w: clan id is required", ErrInvalidInput)
	}
	if _, err := battleid.Decode(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rows, err := s.playerRepo.ListByBattle(ctx, clanID, id)
	if err != nil {
		return nil, fmt.Errorf("list battle players: %w", err)
	}
	return rows, nil
}

// MonthlySummary reports one clan's performance for a YYYYMM month.
func (s *StatsService) MonthlySummary(ctx context.Context, clanID, month string) (PeriodReport, error) {
	if err := validateMonth(month); err != nil {
		return PeriodReport{}, err
	}
	return s.periodReport(ctx, clanID, month, battleid.ID(month+"01"), battleid.ID(month+"31"))
}

// YearlySummary reports one clan's performance for a YYYY year.
func (s *StatsService) YearlySummary(ctx context.Context, clanID, year string) (PeriodReport, error) {
	if err := validateYear(year); err != nil {
		return PeriodReport{}, err
	}
	return s.periodReport(ctx, clanID, year, battleid.ID(year+"0101"), battleid.ID(year+"1231"))
}

func (s *StatsService) periodReport(ctx context.Context, clanID, period string, from, to battleid.ID) (PeriodReport, error) {
	clanID = strings.TrimSpace(clanID)
	if clanID == "" {
		return PeriodReport{}, fmt.Errorf("%w: clan id is required", ErrInvalidInput)
	}

	battles, err := s.recordRepo.ListByClan(ctx, clanID, from, to)
	if err != nil {
		return PeriodReport{}, fmt.Errorf("list battle records: %w", err)
	}

	report := PeriodReport{Period: period, Individuals: []playerstats.PeriodSummary{}}
	if len(battles) == 0 {
		// Zero battles is a valid empty period, reported as a zero-filled
		// summary instead of ErrEmptyPeriod.
		return report, nil
	}

	summary, err := battlestats.ClanPeriodSummary(battles)
	if err != nil {
		return PeriodReport{}, fmt.Errorf("summarize period: %w", err)
	}
	report.Clan = summary

	players, err := s.playerRepo.ListByClan(ctx, clanID, from, to)
	if err != nil {
		return PeriodReport{}, fmt.Errorf("list player records: %w", err)
	}
	report.Individuals = playerstats.PeriodSummaries(players)

	return report, nil
}

func validateMonth(month string) error {
	if len(month) != 6 {
		return fmt.Errorf("%w: month must be YYYYMM", ErrInvalidInput)
	}
	if _, err := battleid.Decode(battleid.ID(month + "01")); err != nil {
		return fmt.Errorf("%w: month must be YYYYMM", ErrInvalidInput)
	}
	return nil
}

func validateYear(year string) error {
	if len(year) != 4 {
		return fmt.Errorf("%w: year must be YYYY", ErrInvalidInput)
	}
	if _, err := battleid.Decode(battleid.ID(year + "0101")); err != nil {
		return fmt.Errorf("%w: year must be YYYY", ErrInvalidInput)
	}
	return nil
}
