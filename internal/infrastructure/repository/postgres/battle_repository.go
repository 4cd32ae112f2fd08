package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	qb "github.com/webzeppelin/angry-birdman-sub003/internal/platform/querybuilder"
)

type BattleRepository struct {
	db *sqlx.DB
}

func NewBattleRepository(db *sqlx.DB) *BattleRepository {
	return &BattleRepository{db: db}
}

func (r *BattleRepository) GetByID(ctx context.Context, id battleid.ID) (battle.Window, bool, error) {
	query, args, err := qb.Select("*").From("master_battles").
		Where(qb.Eq("battle_id", string(id))).
		ToSQL()
	if err != nil {
		return battle.Window{}, false, fmt.Errorf("build get battle query: %w", err)
	}

	var row battleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return battle.Window{}, false, nil
		}
		return battle.Window{}, false, fmt.Errorf("get battle by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *BattleRepository) Create(ctx context.Context, window battle.Window) (battle.Window, error) {
	query, args, err := qb.InsertInto("master_battles").
		Columns("battle_id", "start_at", "end_at", "created_by", "notes").
		Values(
			string(window.ID),
			window.StartAt.UTC(),
			window.EndAt.UTC(),
			stringPtrToNullString(window.CreatedBy),
			window.Notes,
		).
		Suffix("RETURNING id, battle_id, start_at, end_at, created_by, notes, created_at").
		ToSQL()
	if err != nil {
		return battle.Window{}, fmt.Errorf("build insert battle query: %w", err)
	}

	var row battleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return battle.Window{}, battle.ErrAlreadyExists
		}
		return battle.Window{}, fmt.Errorf("insert battle: %w", err)
	}

	return row.toDomain(), nil
}

func (r *BattleRepository) List(ctx context.Context) ([]battle.Window, error) {
	query, args, err := qb.Select("*").From("master_battles").
		OrderBy("battle_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list battles query: %w", err)
	}

	var rows []battleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}

	out := make([]battle.Window, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
