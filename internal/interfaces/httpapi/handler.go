package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

type Handler struct {
	scheduleService *usecase.ScheduleService
	statsService    *usecase.StatsService
	trendService    *usecase.TrendService
	recalcService   *usecase.RecalcService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	scheduleService *usecase.ScheduleService,
	statsService *usecase.StatsService,
	trendService *usecase.TrendService,
	recalcService *usecase.RecalcService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduleService: scheduleService,
		statsService:    statsService,
		trendService:    trendService,
		recalcService:   recalcService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
