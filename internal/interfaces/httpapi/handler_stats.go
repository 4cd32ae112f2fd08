package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

type playerResultRequest struct {
	PlayerID   string `json:"playerId" validate:"required"`
	PlayerName string `json:"playerName" validate:"max=100"`
	Score      int64  `json:"score" validate:"gte=0"`
	Fp         int64  `json:"fp" validate:"gt=0"`
}

type nonplayerRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Fp       int64  `json:"fp" validate:"gte=0"`
	Reserve  bool   `json:"reserve"`
}

type saveBattleRecordRequest struct {
	OpponentScore int64                 `json:"opponentScore" validate:"gte=0"`
	OpponentFp    int64                 `json:"opponentFp" validate:"gt=0"`
	BaselineFp    int64                 `json:"baselineFp" validate:"gt=0"`
	Players       []playerResultRequest `json:"players" validate:"required,min=1,dive"`
	Nonplayers    []nonplayerRequest    `json:"nonplayers" validate:"dive"`
}

type battleRecordDTO struct {
	ClanID            string  `json:"clanId"`
	BattleID          string  `json:"battleId"`
	Score             int64   `json:"score"`
	OpponentScore     int64   `json:"opponentScore"`
	BaselineFp        int64   `json:"baselineFp"`
	Fp                int64   `json:"fp"`
	OpponentFp        int64   `json:"opponentFp"`
	NonplayingCount   int     `json:"nonplayingCount"`
	NonplayingFp      int64   `json:"nonplayingFp"`
	ReserveCount      int     `json:"reserveCount"`
	ReserveFp         int64   `json:"reserveFp"`
	Result            string  `json:"result"`
	Ratio             float64 `json:"ratio"`
	AverageRatio      float64 `json:"averageRatio"`
	MarginRatio       float64 `json:"marginRatio"`
	FpMargin          float64 `json:"fpMargin"`
	NonplayingFpRatio float64 `json:"nonplayingFpRatio"`
	ReserveFpRatio    float64 `json:"reserveFpRatio"`
	UpdatedAt         string  `json:"updatedAt"`
}

type playerRecordDTO struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName,omitempty"`
	BattleID   string  `json:"battleId"`
	Score      int64   `json:"score"`
	Fp         int64   `json:"fp"`
	Ratio      float64 `json:"ratio"`
	RatioRank  int     `json:"ratioRank"`
}

type savedBattleDTO struct {
	Record  battleRecordDTO   `json:"record"`
	Players []playerRecordDTO `json:"players"`
}

func (h *Handler) SaveBattleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveBattleRecord")
	defer span.End()

	clanID := strings.TrimSpace(r.PathValue("clanID"))
	id := battleid.ID(strings.TrimSpace(r.PathValue("battleID")))

	var req saveBattleRecordRequest
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

	input := usecase.SaveBattleInput{
		ClanID:        clanID,
		BattleID:      id,
		OpponentScore: req.OpponentScore,
		OpponentFp:    req.OpponentFp,
		BaselineFp:    req.BaselineFp,
		Players:       make([]battlestats.PlayerInput, 0, len(req.Players)),
		Nonplayers:    make([]battlestats.NonplayerInput, 0, len(req.Nonplayers)),
	}
	for _, p := range req.Players {
		input.Players = append(input.Players, battlestats.PlayerInput{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			Score:      p.Score,
			Fp:         p.Fp,
		})
	}
	for _, n := range req.Nonplayers {
		input.Nonplayers = append(input.Nonplayers, battlestats.NonplayerInput{
			PlayerID: n.PlayerID,
			Fp:       n.Fp,
			Reserve:  n.Reserve,
		})
	}

	saved, err := h.statsService.SaveBattleRecord(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "save battle record failed",
			"clan_id", clanID, "battle_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.trendService.InvalidateClan(ctx, clanID)

	writeSuccess(ctx, w, http.StatusOK, savedBattleDTO{
		Record:  battleRecordToDTO(saved.Record),
		Players: playerRecordsToDTO(saved.Players),
	})
}

func (h *Handler) ListBattleRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBattleRecords")
	defer span.End()

	clanID := strings.TrimSpace(r.PathValue("clanID"))
	from := battleid.ID(strings.TrimSpace(r.URL.Query().Get("from")))
	to := battleid.ID(strings.TrimSpace(r.URL.Query().Get("to")))

	records, err := h.statsService.ListBattleRecords(ctx, clanID, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "list battle records failed", "clan_id", clanID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]battleRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, battleRecordToDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListBattlePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBattlePlayers")
	defer span.End()

	clanID := strings.TrimSpace(r.PathValue("clanID"))
	id := battleid.ID(strings.TrimSpace(r.PathValue("battleID")))

	rows, err := h.statsService.ListBattlePlayers(ctx, clanID, id)
	if err != nil {
		h.logger.WarnContext(ctx, "list battle players failed",
			"clan_id", clanID, "battle_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerRecordsToDTO(rows))
}

type clanSummaryDTO struct {
	Battles              int     `json:"battles"`
	Wins                 int     `json:"wins"`
	Losses               int     `json:"losses"`
	Ties                 int     `json:"ties"`
	AvgScore             float64 `json:"avgScore"`
	AvgOpponentScore     float64 `json:"avgOpponentScore"`
	AvgFp                float64 `json:"avgFp"`
	AvgOpponentFp        float64 `json:"avgOpponentFp"`
	AvgBaselineFp        float64 `json:"avgBaselineFp"`
	AvgRatio             float64 `json:"avgRatio"`
	AvgAverageRatio      float64 `json:"avgAverageRatio"`
	AvgMarginRatio       float64 `json:"avgMarginRatio"`
	AvgFpMargin          float64 `json:"avgFpMargin"`
	AvgNonplayingFpRatio float64 `json:"avgNonplayingFpRatio"`
	AvgReserveFpRatio    float64 `json:"avgReserveFpRatio"`
}

type playerSummaryDTO struct {
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName,omitempty"`
	Battles      int     `json:"battles"`
	AvgScore     float64 `json:"avgScore"`
	AvgFp        float64 `json:"avgFp"`
	AvgRatio     float64 `json:"avgRatio"`
	AvgRatioRank float64 `json:"avgRatioRank"`
}

type periodReportDTO struct {
	Period      string             `json:"period"`
	Clan        clanSummaryDTO     `json:"clan"`
	Individuals []playerSummaryDTO `json:"individuals"`
}

func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMonthlySummary")
	defer span.End()

	clanID := strings.TrimSpace(r.PathValue("clanID"))
	month := strings.TrimSpace(r.PathValue("month"))

	report, err := h.statsService.MonthlySummary(ctx, clanID, month)
	if err != nil {
		h.logger.WarnContext(ctx, "monthly summary failed",
			"clan_id", clanID, "month", month, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, periodReportToDTO(report))
}

func (h *Handler) GetYearlySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetYearlySummary")
	defer span.End()

	clanID := strings.TrimSpace(r.PathValue("clanID"))
	year := strings.TrimSpace(r.PathValue("year"))

	report, err := h.statsService.YearlySummary(ctx, clanID, year)
	if err != nil {
		h.logger.WarnContext(ctx, "yearly summary failed",
			"clan_id", clanID, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, periodReportToDTO(report))
}

func battleRecordToDTO(v battlestats.BattleRecord) battleRecordDTO {
	return battleRecordDTO{
		ClanID:            v.ClanID,
		BattleID:          string(v.BattleID),
		Score:             v.Score,
		OpponentScore:     v.OpponentScore,
		BaselineFp:        v.BaselineFp,
		Fp:                v.Fp,
		OpponentFp:        v.OpponentFp,
		NonplayingCount:   v.NonplayingCount,
		NonplayingFp:      v.NonplayingFp,
		ReserveCount:      v.ReserveCount,
		ReserveFp:         v.ReserveFp,
		Result:            string(v.Result),
		Ratio:             v.Ratio,
		AverageRatio:      v.AverageRatio,
		MarginRatio:       v.MarginRatio,
		FpMargin:          v.FpMargin,
		NonplayingFpRatio: v.NonplayingFpRatio,
		ReserveFpRatio:    v.ReserveFpRatio,
		UpdatedAt:         v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func playerRecordsToDTO(rows []playerstats.PlayerRecord) []playerRecordDTO {
	out := make([]playerRecordDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerRecordDTO{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			BattleID:   string(row.BattleID),
			Score:      row.Score,
			Fp:         row.Fp,
			Ratio:      row.Ratio,
			RatioRank:  row.RatioRank,
		})
	}
	return out
}

func periodReportToDTO(v usecase.PeriodReport) periodReportDTO {
	individuals := make([]playerSummaryDTO, 0, len(v.Individuals))
	for _, item := range v.Individuals {
		individuals = append(individuals, playerSummaryDTO{
			PlayerID:     item.PlayerID,
			PlayerName:   item.PlayerName,
			Battles:      item.Battles,
			AvgScore:     item.AvgScore,
			AvgFp:        item.AvgFp,
			AvgRatio:     item.AvgRatio,
			AvgRatioRank: item.AvgRatioRank,
		})
	}

	return periodReportDTO{
		Period: v.Period,
		Clan: clanSummaryDTO{
			Battles:              v.Clan.Battles,
			Wins:                 v.Clan.Wins,
			Losses:               v.Clan.Losses,
			Ties:                 v.Clan.Ties,
			AvgScore:             v.Clan.AvgScore,
			AvgOpponentScore:     v.Clan.AvgOpponentScore,
			AvgFp:                v.Clan.AvgFp,
			AvgOpponentFp:        v.Clan.AvgOpponentFp,
			AvgBaselineFp:        v.Clan.AvgBaselineFp,
			AvgRatio:             v.Clan.AvgRatio,
			AvgAverageRatio:      v.Clan.AvgAverageRatio,
			AvgMarginRatio:       v.Clan.AvgMarginRatio,
			AvgFpMargin:          v.Clan.AvgFpMargin,
			AvgNonplayingFpRatio: v.Clan.AvgNonplayingFpRatio,
			AvgReserveFpRatio:    v.Clan.AvgReserveFpRatio,
		},
		Individuals: individuals,
	}
}
