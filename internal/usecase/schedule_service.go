package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/setting"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

// scheduleDateLayout is the wire format of the next_battle_start_date setting.
const scheduleDateLayout = time.RFC3339

// TickResult reports what one schedule tick did. The tick itself never
// returns an error to its caller; failures are carried here for logging so
// the hourly trigger keeps firing.
type TickResult struct {
	Created  bool
	Advanced bool
	BattleID battleid.ID
	Err      error
}

type ScheduleService struct {
	battleRepo  battle.Repository
	settingRepo setting.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewScheduleService(
	battleRepo battle.Repository,
	settingRepo setting.Repository,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		battleRepo:  battleRepo,
		settingRepo: settingRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Tick runs one pass of the battle schedule state machine: when the persisted
// next battle start date has been reached it materializes that battle window
// (unless one already exists) and advances the date by exactly one cycle from
// its prior value. Missed ticks do not accumulate; catching up after downtime
// takes one tick per missed cycle.
func (s *ScheduleService) Tick(ctx context.Context) TickResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Tick")
	defer span.End()

	enabled, err := s.schedulerEnabled(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "schedule tick: read scheduler flag failed", "error", err)
		return TickResult{Err: err}
	}
	if !enabled {
		s.logger.InfoContext(ctx, "schedule tick: scheduler disabled, skipping")
		return TickResult{}
	}

	raw, ok, err := s.settingRepo.Get(ctx, setting.KeyNextBattleStartDate)
	if err != nil {
		s.logger.ErrorContext(ctx, "schedule tick: read next battle date failed", "error", err)
		return TickResult{Err: err}
	}
	if !ok {
		s.logger.WarnContext(ctx, "schedule tick: next battle date is not configured")
		return TickResult{}
	}

	next, err := parseScheduleDate(raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "schedule tick: next battle date is unparseable",
			"value", raw, "error", err)
		return TickResult{Err: err}
	}

	now := battleid.ToOfficial(s.now())
	if now.Before(next) {
		return TickResult{}
	}

	id := battleid.Encode(next)
	created, err := s.ensureWindow(ctx, id, next)
	if err != nil {
		s.logger.ErrorContext(ctx, "schedule tick: create battle window failed",
			"battle_id", id, "error", err)
		return TickResult{BattleID: id, Err: err}
	}

	// Advance from the prior value, never from "now", so a backlog drains one
	// cycle per tick.
	newNext := next.AddDate(0, 0, battleid.CycleDays)
	if err := s.settingRepo.Upsert(ctx, setting.KeyNextBattleStartDate, formatScheduleDate(newNext)); err != nil {
		s.logger.ErrorContext(ctx, "schedule tick: advance next battle date failed",
			"battle_id", id, "error", err)
		return TickResult{Created: created, BattleID: id, Err: err}
	}

	s.logger.InfoContext(ctx, "schedule tick: advanced",
		"battle_id", id,
		"created", created,
		"next_battle_start_date", formatScheduleDate(newNext),
	)
	return TickResult{Created: created, Advanced: true, BattleID: id}
}

// ensureWindow creates the window for id unless it already exists, e.g. after
// an out-of-band manual creation. Both outcomes let the schedule advance.
func (s *ScheduleService) ensureWindow(ctx context.Context, id battleid.ID, date time.Time) (bool, error) {
	_, exists, err := s.battleRepo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("find battle window: %w", err)
	}
	if exists {
		s.logger.InfoContext(ctx, "schedule tick: battle window already exists", "battle_id", id)
		return false, nil
	}

	start, end := battle.WindowBounds(date)
	_, err = s.battleRepo.Create(ctx, battle.Window{
		ID:      id,
		StartAt: start,
		EndAt:   end,
	})
	if err != nil {
		if errors.Is(err, battle.ErrAlreadyExists) {
			s.logger.InfoContext(ctx, "schedule tick: battle window created concurrently", "battle_id", id)
			return false, nil
		}
		return false, fmt.Errorf("create battle window: %w", err)
	}
	return true, nil
}

func (s *ScheduleService) schedulerEnabled(ctx context.Context) (bool, error) {
	raw, ok, err := s.settingRepo.Get(ctx, setting.KeySchedulerEnabled)
	if err != nil {
		return false, fmt.Errorf("get scheduler flag: %w", err)
	}
	if !ok {
		// Fail open: a missing flag must not silently stop play tracking.
		return true, nil
	}
	enabled, parseErr := strconv.ParseBool(strings.TrimSpace(raw))
	if parseErr != nil {
		s.logger.WarnContext(ctx, "scheduler flag is unparseable, treating as enabled",
			"value", raw, "error", parseErr)
		return true, nil
	}
	return enabled, nil
}

// ManuallyCreateBattle creates the window for the given civil date directly,
// bypassing the next-date check. It does not advance the schedule setting;
// manual creation serves backfill and correction, not schedule progression.
func (s *ScheduleService) ManuallyCreateBattle(ctx context.Context, date time.Time) (battle.Window, error) {
	return s.createWindow(ctx, date, nil, "")
}

// CreateMasterBattle is the administrative creation path.
func (s *ScheduleService) CreateMasterBattle(ctx context.Context, startDate time.Time, actorID, notes string) (battle.Window, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return battle.Window{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	return s.createWindow(ctx, startDate, &actorID, notes)
}

func (s *ScheduleService) createWindow(ctx context.Context, date time.Time, createdBy *string, notes string) (battle.Window, error) {
	start, end := battle.WindowBounds(date)
	id := battleid.Encode(start)

	created, err := s.battleRepo.Create(ctx, battle.Window{
		ID:        id,
		StartAt:   start,
		EndAt:     end,
		CreatedBy: createdBy,
		Notes:     strings.TrimSpace(notes),
	})
	if err != nil {
		return battle.Window{}, fmt.Errorf("create battle window %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "battle window created",
		"battle_id", id,
		"created_by", createdBy,
	)
	return created, nil
}

// GetNextBattleDate returns the configured next battle start date.
func (s *ScheduleService) GetNextBattleDate(ctx context.Context) (time.Time, error) {
	raw, ok, err := s.settingRepo.Get(ctx, setting.KeyNextBattleStartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("get next battle date: %w", err)
	}
	if !ok {
		return time.Time{}, ErrNotConfigured
	}

	next, err := parseScheduleDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse next battle date %q: %w", raw, err)
	}
	return next, nil
}

// UpdateNextBattleDate replaces the schedule's next start date.
func (s *ScheduleService) UpdateNextBattleDate(ctx context.Context, date time.Time, actorID string) error {
	official := battleid.ToOfficial(date)
	if !official.After(battleid.ToOfficial(s.now())) {
		return fmt.Errorf("%w: next battle date must be after the current official time", ErrMustBeFuture)
	}

	if err := s.settingRepo.Upsert(ctx, setting.KeyNextBattleStartDate, formatScheduleDate(official)); err != nil {
		return fmt.Errorf("store next battle date: %w", err)
	}

	s.logger.InfoContext(ctx, "next battle date updated",
		"next_battle_start_date", formatScheduleDate(official),
		"actor_id", actorID,
	)
	return nil
}

// ScheduleInfo is the read model of the schedule: the window being played
// right now (if any), the next upcoming window, the configured next start
// date, and every window whose start instant is already in the past.
type ScheduleInfo struct {
	Current             *battle.Window
	Next                *battle.Window
	NextBattleStartDate *time.Time
	Available           []battle.Window
}

func (s *ScheduleService) GetScheduleInfo(ctx context.Context) (ScheduleInfo, error) {
	windows, err := s.battleRepo.List(ctx)
	if err != nil {
		return ScheduleInfo{}, fmt.Errorf("list battle windows: %w", err)
	}

	now := battleid.ToOfficial(s.now())
	info := ScheduleInfo{Available: make([]battle.Window, 0, len(windows))}

	for i := range windows {
		w := windows[i]
		if !w.StartAt.After(now) {
			info.Available = append(info.Available, w)
			if !w.EndAt.Before(now) {
				current := w
				info.Current = &current
			}
			continue
		}
		if info.Next == nil {
			next := w
			info.Next = &next
		}
	}

	raw, ok, err := s.settingRepo.Get(ctx, setting.KeyNextBattleStartDate)
	if err != nil {
		return ScheduleInfo{}, fmt.Errorf("get next battle date: %w", err)
	}
	if ok {
		if next, parseErr := parseScheduleDate(raw); parseErr == nil {
			info.NextBattleStartDate = &next
		} else {
			s.logger.WarnContext(ctx, "schedule info: stored next battle date is unparseable",
				"value", raw, "error", parseErr)
		}
	}

	return info, nil
}

func formatScheduleDate(t time.Time) string {
	return battleid.ToOfficial(t).Format(scheduleDateLayout)
}

func parseScheduleDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(scheduleDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return battleid.ToOfficial(parsed), nil
}
