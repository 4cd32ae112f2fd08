package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	qb "github.com/webzeppelin/angry-birdman-sub003/internal/platform/querybuilder"
)

type BattleRecordRepository struct {
	db *sqlx.DB
}

func NewBattleRecordRepository(db *sqlx.DB) *BattleRecordRepository {
	return &BattleRecordRepository{db: db}
}

func (r *BattleRecordRepository) Upsert(ctx context.Context, record battlestats.BattleRecord) error {
	query, args, err := qb.InsertInto("clan_battles").
		Columns(
			"clan_id", "battle_id",
			"score", "opponent_score", "baseline_fp", "fp", "opponent_fp",
			"nonplaying_count", "nonplaying_fp", "reserve_count", "reserve_fp",
			"result", "ratio", "average_ratio", "margin_ratio", "fp_margin",
			"nonplaying_fp_ratio", "reserve_fp_ratio", "updated_at",
		).
		Values(
			record.ClanID, string(record.BattleID),
			record.Score, record.OpponentScore, record.BaselineFp, record.Fp, record.OpponentFp,
			record.NonplayingCount, record.NonplayingFp, record.ReserveCount, record.ReserveFp,
			string(record.Result), record.Ratio, record.AverageRatio, record.MarginRatio, record.FpMargin,
			record.NonplayingFpRatio, record.ReserveFpRatio, record.UpdatedAt,
		).
		Suffix(`ON CONFLICT (clan_id, battle_id) DO UPDATE SET
			score = EXCLUDED.score,
			opponent_score = EXCLUDED.opponent_score,
			baseline_fp = EXCLUDED.baseline_fp,
			fp = EXCLUDED.fp,
			opponent_fp = EXCLUDED.opponent_fp,
			nonplaying_count = EXCLUDED.nonplaying_count,
			nonplaying_fp = EXCLUDED.nonplaying_fp,
			reserve_count = EXCLUDED.reserve_count,
			reserve_fp = EXCLUDED.reserve_fp,
			result = EXCLUDED.result,
			ratio = EXCLUDED.ratio,
			average_ratio = EXCLUDED.average_ratio,
			margin_ratio = EXCLUDED.margin_ratio,
			fp_margin = EXCLUDED.fp_margin,
			nonplaying_fp_ratio = EXCLUDED.nonplaying_fp_ratio,
			reserve_fp_ratio = EXCLUDED.reserve_fp_ratio,
			updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert battle record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert battle record: %w", err)
	}
	return nil
}

func (r *BattleRecordRepository) ListByClan(ctx context.Context, clanID string, from, to battleid.ID) ([]battlestats.BattleRecord, error) {
	conditions := []qb.Condition{qb.Eq("clan_id", clanID)}
	if from != "" {
		conditions = append(conditions, qb.Gte("battle_id", string(from)))
	}
	if to != "" {
		conditions = append(conditions, qb.Lte("battle_id", string(to)))
	}

	query, args, err := qb.Select("*").From("clan_battles").
		Where(conditions...).
		OrderBy("battle_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list battle records query: %w", err)
	}

	var rows []battleRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list battle records: %w", err)
	}

	out := make([]battlestats.BattleRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BattleRecordRepository) ListAll(ctx context.Context) ([]battlestats.BattleRecord, error) {
	query, args, err := qb.Select("*").From("clan_battles").
		OrderBy("clan_id", "battle_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list all battle records query: %w", err)
	}

	var rows []battleRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list all battle records: %w", err)
	}

	out := make([]battlestats.BattleRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
