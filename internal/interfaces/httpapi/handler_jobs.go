package httpapi

import (
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

type tickResultDTO struct {
	Created  bool   `json:"created"`
	Advanced bool   `json:"advanced"`
	BattleID string `json:"battleId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type recalcRequest struct {
	ClanID     string `json:"clanId"`
	MaxWorkers int    `json:"maxWorkers" validate:"gte=0,lte=64"`
}

// RunScheduleTick exposes the schedule state machine to external cron
// triggers. It mirrors the in-process runner and is safe to fire repeatedly.
func (h *Handler) RunScheduleTick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScheduleTick")
	defer span.End()

	result := h.scheduleService.Tick(ctx)

	dto := tickResultDTO{
		Created:  result.Created,
		Advanced: result.Advanced,
		BattleID: string(result.BattleID),
	}
	if result.Err != nil {
		dto.Error = result.Err.Error()
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) RunRecalculation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculation")
	defer span.End()

	var req recalcRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && err != io.EOF {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.recalcService.Recalculate(ctx, usecase.RecalcInput{
		ClanID:     req.ClanID,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculation failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	if req.ClanID != "" {
		h.trendService.InvalidateClan(ctx, req.ClanID)
	} else {
		h.trendService.InvalidateAll(ctx)
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
