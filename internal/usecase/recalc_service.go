package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

const (
	recalcStatusSuccess = "success"
	recalcStatusFailed  = "failed"

	defaultRecalcWorkers = 4
	maxRecalcWorkers     = 16
)

// RecalcInput selects which battle records to recompute. An empty ClanID
// recomputes every clan.
type RecalcInput struct {
	ClanID     string
	MaxWorkers int
}

type RecalcTaskResult struct {
	ClanID     string      `json:"clanId"`
	BattleID   battleid.ID `json:"battleId"`
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	DurationMs int64       `json:"durationMs"`
}

type RecalcResult struct {
	TaskCount    int                `json:"taskCount"`
	WorkerCount  int                `json:"workerCount"`
	SuccessCount int                `json:"successCount"`
	FailedCount  int                `json:"failedCount"`
	Tasks        []RecalcTaskResult `json:"tasks"`
}

// RecalcService rebuilds every derived statistic from the stored raw inputs.
// It exists for formula changes: after a deploy that alters a derivation,
// one recalc pass brings historical records in line.
type RecalcService struct {
	recordRepo battlestats.Repository
	playerRepo playerstats.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewRecalcService(recordRepo battlestats.Repository, playerRepo playerstats.Repository, logger *logging.Logger) *RecalcService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RecalcService{
		recordRepo: recordRepo,
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RecalcService) Recalculate(ctx context.Context, input RecalcInput) (RecalcResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalcService.Recalculate")
	defer span.End()

	records, err := s.resolveRecords(ctx, strings.TrimSpace(input.ClanID))
	if err != nil {
		return RecalcResult{}, err
	}

	workerCount := normalizeRecalcWorkerCount(input.MaxWorkers, len(records))
	result := RecalcResult{
		TaskCount:   len(records),
		WorkerCount: workerCount,
		Tasks:       make([]RecalcTaskResult, 0, len(records)),
	}
	if len(records) == 0 {
		return result, nil
	}

	results := make(chan RecalcTaskResult, len(records))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, record := range records {
		record := record
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecalcTaskResult{
				ClanID:   record.ClanID,
				BattleID: record.BattleID,
			}

			if err := s.recalcBattle(ctx, record); err != nil {
				row.Status = recalcStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.Status = recalcStatusSuccess
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return RecalcResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].ClanID != result.Tasks[j].ClanID {
			return result.Tasks[i].ClanID < result.Tasks[j].ClanID
		}
		return result.Tasks[i].BattleID < result.Tasks[j].BattleID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "recalculation finished",
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *RecalcService) resolveRecords(ctx context.Context, clanID string) ([]battlestats.BattleRecord, error) {
	if clanID == "" {
		records, err := s.recordRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list battle records: %w", err)
		}
		return records, nil
	}
	records, err := s.recordRepo.ListByClan(ctx, clanID, "", "")
	if err != nil {
		return nil, fmt.Errorf("list battle records: %w", err)
	}
	return records, nil
}

// recalcBattle re-derives one clan battle record and its player ranks from the
// stored raw values.
func (s *RecalcService) recalcBattle(ctx context.Context, record battlestats.BattleRecord) error {
	fresh, err := battlestats.Derive(battlestats.RawInputs{
		Score:           record.Score,
		OpponentScore:   record.OpponentScore,
		BaselineFp:      record.BaselineFp,
		Fp:              record.Fp,
		OpponentFp:      record.OpponentFp,
		NonplayingCount: record.NonplayingCount,
		NonplayingFp:    record.NonplayingFp,
		ReserveCount:    record.ReserveCount,
		ReserveFp:       record.ReserveFp,
	})
	if err != nil {
		return fmt.Errorf("derive battle %s: %w", record.BattleID, err)
	}
	fresh.ClanID = record.ClanID
	fresh.BattleID = record.BattleID
	fresh.UpdatedAt = s.now().UTC()

	if err := s.recordRepo.Upsert(ctx, fresh); err != nil {
		return fmt.Errorf("store battle %s: %w", record.BattleID, err)
	}

	players, err := s.playerRepo.ListByBattle(ctx, record.ClanID, record.BattleID)
	if err != nil {
		return fmt.Errorf("list players for battle %s: %w", record.BattleID, err)
	}
	if len(players) == 0 {
		return nil
	}

	ratios := make([]float64, len(players))
	for i, p := range players {
		ratio, err := battlestats.PlayerRatio(p.Score, p.Fp)
		if err != nil {
			return fmt.Errorf("player %s in battle %s: %w", p.PlayerID, record.BattleID, err)
		}
		ratios[i] = ratio
	}
	ranks := battlestats.RatioRanks(ratios)

	for i := range players {
		players[i].Ratio = ratios[i]
		players[i].RatioRank = ranks[i]
		players[i].UpdatedAt = fresh.UpdatedAt
	}

	if err := s.playerRepo.ReplaceForBattle(ctx, record.ClanID, record.BattleID, players); err != nil {
		return fmt.Errorf("store players for battle %s: %w", record.BattleID, err)
	}
	return nil
}

func normalizeRecalcWorkerCount(requested, taskCount int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultRecalcWorkers
	}
	if workers > maxRecalcWorkers {
		workers = maxRecalcWorkers
	}
	if taskCount > 0 && workers > taskCount {
		workers = taskCount
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
