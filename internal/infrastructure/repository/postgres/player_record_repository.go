package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
	qb "github.com/webzeppelin/angry-birdman-sub003/internal/platform/querybuilder"
)

type PlayerRecordRepository struct {
	db *sqlx.DB
}

func NewPlayerRecordRepository(db *sqlx.DB) *PlayerRecordRepository {
	return &PlayerRecordRepository{db: db}
}

// ReplaceForBattle swaps the battle's full player set inside one transaction
// so readers never observe a partially written roster.
func (r *PlayerRecordRepository) ReplaceForBattle(ctx context.Context, clanID string, battleID battleid.ID, records []playerstats.PlayerRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player records: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("battle_players").
		Where(
			qb.Eq("clan_id", clanID),
			qb.Eq("battle_id", string(battleID)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear player records query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear player records: %w", err)
	}

	for _, record := range records {
		insertQuery, insertArgs, err := qb.InsertInto("battle_players").
			Columns("clan_id", "battle_id", "player_id", "player_name", "score", "fp", "ratio", "ratio_rank", "updated_at").
			Values(
				clanID, string(battleID),
				record.PlayerID, record.PlayerName,
				record.Score, record.Fp,
				record.Ratio, record.RatioRank,
				record.UpdatedAt,
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build insert player record query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert player record %s: %w", record.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player records: %w", err)
	}
	return nil
}

func (r *PlayerRecordRepository) ListByClan(ctx context.Context, clanID string, from, to battleid.ID) ([]playerstats.PlayerRecord, error) {
	conditions := []qb.Condition{qb.Eq("clan_id", clanID)}
	if from != "" {
		conditions = append(conditions, qb.Gte("battle_id", string(from)))
	}
	if to != "" {
		conditions = append(conditions, qb.Lte("battle_id", string(to)))
	}

	query, args, err := qb.Select("*").From("battle_players").
		Where(conditions...).
		OrderBy("battle_id", "ratio_rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player records query: %w", err)
	}

	var rows []playerRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player records: %w", err)
	}

	out := make([]playerstats.PlayerRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRecordRepository) ListByBattle(ctx context.Context, clanID string, battleID battleid.ID) ([]playerstats.PlayerRecord, error) {
	query, args, err := qb.Select("*").From("battle_players").
		Where(
			qb.Eq("clan_id", clanID),
			qb.Eq("battle_id", string(battleID)),
		).
		OrderBy("ratio_rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list battle players query: %w", err)
	}

	var rows []playerRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list battle players: %w", err)
	}

	out := make([]playerstats.PlayerRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
