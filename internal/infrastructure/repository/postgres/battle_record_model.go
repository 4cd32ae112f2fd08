package postgres

import (
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
)

type battleRecordTableModel struct {
	ID                int64     `db:"id"`
	ClanID            string    `db:"clan_id"`
	BattleID          string    `db:"battle_id"`
	Score             int64     `db:"score"`
	OpponentScore     int64     `db:"opponent_score"`
	BaselineFp        int64     `db:"baseline_fp"`
	Fp                int64     `db:"fp"`
	OpponentFp        int64     `db:"opponent_fp"`
	NonplayingCount   int       `db:"nonplaying_count"`
	NonplayingFp      int64     `db:"nonplaying_fp"`
	ReserveCount      int       `db:"reserve_count"`
	ReserveFp         int64     `db:"reserve_fp"`
	Result            string    `db:"result"`
	Ratio             float64   `db:"ratio"`
	AverageRatio      float64   `db:"average_ratio"`
	MarginRatio       float64   `db:"margin_ratio"`
	FpMargin          float64   `db:"fp_margin"`
	NonplayingFpRatio float64   `db:"nonplaying_fp_ratio"`
	ReserveFpRatio    float64   `db:"reserve_fp_ratio"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (m battleRecordTableModel) toDomain() battlestats.BattleRecord {
	return battlestats.BattleRecord{
		ClanID:            m.ClanID,
		BattleID:          battleid.ID(m.BattleID),
		Score:             m.Score,
		OpponentScore:     m.OpponentScore,
		BaselineFp:        m.BaselineFp,
		Fp:                m.Fp,
		OpponentFp:        m.OpponentFp,
		NonplayingCount:   m.NonplayingCount,
		NonplayingFp:      m.NonplayingFp,
		ReserveCount:      m.ReserveCount,
		ReserveFp:         m.ReserveFp,
		Result:            battlestats.Outcome(m.Result),
		Ratio:             m.Ratio,
		AverageRatio:      m.AverageRatio,
		MarginRatio:       m.MarginRatio,
		FpMargin:          m.FpMargin,
		NonplayingFpRatio: m.NonplayingFpRatio,
		ReserveFpRatio:    m.ReserveFpRatio,
		UpdatedAt:         m.UpdatedAt,
	}
}
