package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

type battleWindowDTO struct {
	BattleID  string  `json:"battleId"`
	StartAt   string  `json:"startAt"`
	EndAt     string  `json:"endAt"`
	CreatedBy *string `json:"createdBy"`
	Notes     string  `json:"notes,omitempty"`
}

type scheduleInfoDTO struct {
	Current             *battleWindowDTO  `json:"current"`
	Next                *battleWindowDTO  `json:"next"`
	NextBattleStartDate *string           `json:"nextBattleStartDate"`
	Available           []battleWindowDTO `json:"available"`
}

type nextBattleDateDTO struct {
	NextBattleStartDate string `json:"nextBattleStartDate"`
}

type updateNextBattleDateRequest struct {
	NextBattleStartDate string `json:"nextBattleStartDate" validate:"required"`
	ActorID             string `json:"actorId" validate:"required"`
}

type createBattleRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	ActorID   string `json:"actorId" validate:"required"`
	Notes     string `json:"notes" validate:"max=500"`
}

func (h *Handler) GetScheduleInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScheduleInfo")
	defer span.End()

	info, err := h.scheduleService.GetScheduleInfo(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get schedule info failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := scheduleInfoDTO{
		Current:   windowToDTOPtr(info.Current),
		Next:      windowToDTOPtr(info.Next),
		Available: make([]battleWindowDTO, 0, len(info.Available)),
	}
	for _, window := range info.Available {
		dto.Available = append(dto.Available, windowToDTO(window))
	}
	if info.NextBattleStartDate != nil {
		formatted := info.NextBattleStartDate.Format(time.RFC3339)
		dto.NextBattleStartDate = &formatted
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetNextBattleDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNextBattleDate")
	defer span.End()

	next, err := h.scheduleService.GetNextBattleDate(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get next battle date failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nextBattleDateDTO{
		NextBattleStartDate: next.Format(time.RFC3339),
	})
}

func (h *Handler) UpdateNextBattleDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateNextBattleDate")
	defer span.End()

	var req updateNextBattleDateRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	date, err := time.Parse(time.RFC3339, req.NextBattleStartDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: nextBattleStartDate must be RFC 3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.scheduleService.UpdateNextBattleDate(ctx, date, req.ActorID); err != nil {
		h.logger.WarnContext(ctx, "update next battle date failed", "actor_id", req.ActorID, "error", err)
		writeError(ctx, w, err)
		return
	}

	next, err := h.scheduleService.GetNextBattleDate(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nextBattleDateDTO{
		NextBattleStartDate: next.Format(time.RFC3339),
	})
}

func (h *Handler) CreateBattle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBattle")
	defer span.End()

	var req createBattleRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	startDate, err := parseBattleDate(req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	window, err := h.scheduleService.CreateMasterBattle(ctx, startDate, req.ActorID, req.Notes)
	if err != nil {
		h.logger.WarnContext(ctx, "create battle failed", "actor_id", req.ActorID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, windowToDTO(window))
}

// parseBattleDate accepts either a bare civil date, read in Official Time,
// or a full RFC 3339 instant.
func parseBattleDate(raw string) (time.Time, error) {
	if date, err := time.ParseInLocation("2006-01-02", raw, battleid.OfficialZone); err == nil {
		return date, nil
	}
	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: startDate must be YYYY-MM-DD or RFC 3339: %v", usecase.ErrInvalidInput, err)
	}
	return date, nil
}

func windowToDTO(v battle.Window) battleWindowDTO {
	return battleWindowDTO{
		BattleID:  string(v.ID),
		StartAt:   v.StartAt.Format(time.RFC3339),
		EndAt:     v.EndAt.Format(time.RFC3339),
		CreatedBy: v.CreatedBy,
		Notes:     v.Notes,
	}
}

func windowToDTOPtr(v *battle.Window) *battleWindowDTO {
	if v == nil {
		return nil
	}
	dto := windowToDTO(*v)
	return &dto
}
