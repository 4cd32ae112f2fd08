package httpapi

import (
	"net/http"
	"strings"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

type flockPowerPointDTO struct {
	Label      string `json:"label"`
	Fp         int64  `json:"fp"`
	OpponentFp int64  `json:"opponentFp"`
	BaselineFp int64  `json:"baselineFp"`
}

type ratioPointDTO struct {
	Label        string  `json:"label"`
	Ratio        float64 `json:"ratio"`
	AverageRatio float64 `json:"averageRatio"`
	Result       string  `json:"result"`
}

type participationPointDTO struct {
	Label             string  `json:"label"`
	NonplayingCount   int     `json:"nonplayingCount"`
	ReserveCount      int     `json:"reserveCount"`
	NonplayingFpRatio float64 `json:"nonplayingFpRatio"`
	ReserveFpRatio    float64 `json:"reserveFpRatio"`
}

type marginPointDTO struct {
	Label       string  `json:"label"`
	MarginRatio float64 `json:"marginRatio"`
	FpMargin    float64 `json:"fpMargin"`
	Result      string  `json:"result"`
}

type trendsDTO struct {
	FlockPower    []flockPowerPointDTO    `json:"flockPower"`
	Ratio         []ratioPointDTO         `json:"ratio"`
	Participation []participationPointDTO `json:"participation"`
	Margin        []marginPointDTO        `json:"margin"`
	Summary       clanSummaryDTO          `json:"summary"`
}

func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTrends")
	defer span.End()

	clanID := strings.TrimSpace(r.PathValue("clanID"))
	query := usecase.TrendQuery{
		ClanID:      clanID,
		From:        battleid.ID(strings.TrimSpace(r.URL.Query().Get("from"))),
		To:          battleid.ID(strings.TrimSpace(r.URL.Query().Get("to"))),
		Aggregation: strings.TrimSpace(r.URL.Query().Get("aggregation")),
	}

	trends, err := h.trendService.ComputeTrends(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "compute trends failed", "clan_id", clanID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, trendsToDTO(trends))
}

func trendsToDTO(v battlestats.Trends) trendsDTO {
	out := trendsDTO{
		FlockPower:    make([]flockPowerPointDTO, 0, len(v.FlockPower)),
		Ratio:         make([]ratioPointDTO, 0, len(v.Ratio)),
		Participation: make([]participationPointDTO, 0, len(v.Participation)),
		Margin:        make([]marginPointDTO, 0, len(v.Margin)),
		Summary: clanSummaryDTO{
			Battles:              v.Summary.Battles,
			Wins:                 v.Summary.Wins,
			Losses:               v.Summary.Losses,
			Ties:                 v.Summary.Ties,
			AvgScore:             v.Summary.AvgScore,
			AvgOpponentScore:     v.Summary.AvgOpponentScore,
			AvgFp:                v.Summary.AvgFp,
			AvgOpponentFp:        v.Summary.AvgOpponentFp,
			AvgBaselineFp:        v.Summary.AvgBaselineFp,
			AvgRatio:             v.Summary.AvgRatio,
			AvgAverageRatio:      v.Summary.AvgAverageRatio,
			AvgMarginRatio:       v.Summary.AvgMarginRatio,
			AvgFpMargin:          v.Summary.AvgFpMargin,
			AvgNonplayingFpRatio: v.Summary.AvgNonplayingFpRatio,
			AvgReserveFpRatio:    v.Summary.AvgReserveFpRatio,
		},
	}

	for _, p := range v.FlockPower {
		out.FlockPower = append(out.FlockPower, flockPowerPointDTO{
			Label:      p.Label,
			Fp:         p.Fp,
			OpponentFp: p.OpponentFp,
			BaselineFp: p.BaselineFp,
		})
	}
	for _, p := range v.Ratio {
		out.Ratio = append(out.Ratio, ratioPointDTO{
			Label:        p.Label,
			Ratio:        p.Ratio,
			AverageRatio: p.AverageRatio,
			Result:       string(p.Result),
		})
	}
	for _, p := range v.Participation {
		out.Participation = append(out.Participation, participationPointDTO{
			Label:             p.Label,
			NonplayingCount:   p.NonplayingCount,
			ReserveCount:      p.ReserveCount,
			NonplayingFpRatio: p.NonplayingFpRatio,
			ReserveFpRatio:    p.ReserveFpRatio,
		})
	}
	for _, p := range v.Margin {
		out.Margin = append(out.Margin, marginPointDTO{
			Label:       p.Label,
			MarginRatio: p.MarginRatio,
			FpMargin:    p.FpMargin,
			Result:      string(p.Result),
		})
	}

	return out
}
