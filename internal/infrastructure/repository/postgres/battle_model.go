package postgres

import (
	"database/sql"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

type battleTableModel struct {
	ID        int64          `db:"id"`
	BattleID  string         `db:"battle_id"`
	StartAt   time.Time      `db:"start_at"`
	EndAt     time.Time      `db:"end_at"`
	CreatedBy sql.NullString `db:"created_by"`
	Notes     string         `db:"notes"`
	CreatedAt time.Time      `db:"created_at"`
}

func (m battleTableModel) toDomain() battle.Window {
	return battle.Window{
		ID:        battleid.ID(m.BattleID),
		StartAt:   m.StartAt.In(battleid.OfficialZone),
		EndAt:     m.EndAt.In(battleid.OfficialZone),
		CreatedBy: nullStringToStringPtr(m.CreatedBy),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}
