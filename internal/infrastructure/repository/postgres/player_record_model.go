package postgres

import (
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
)

type playerRecordTableModel struct {
	ID         int64     `db:"id"`
	ClanID     string    `db:"clan_id"`
	BattleID   string    `db:"battle_id"`
	PlayerID   string    `db:"player_id"`
	PlayerName string    `db:"player_name"`
	Score      int64     `db:"score"`
	Fp         int64     `db:"fp"`
	Ratio      float64   `db:"ratio"`
	RatioRank  int       `db:"ratio_rank"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m playerRecordTableModel) toDomain() playerstats.PlayerRecord {
	return playerstats.PlayerRecord{
		ClanID:     m.ClanID,
		BattleID:   battleid.ID(m.BattleID),
		PlayerID:   m.PlayerID,
		PlayerName: m.PlayerName,
		Score:      m.Score,
		Fp:         m.Fp,
		Ratio:      m.Ratio,
		RatioRank:  m.RatioRank,
		UpdatedAt:  m.UpdatedAt,
	}
}
