package battlestats

import (
	"context"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

type Repository interface {
	// Upsert stores a battle record, replacing any previous record for the
	// same clan and battle.
	Upsert(ctx context.Context, record BattleRecord) error
	// ListByClan returns the clan's records with identifiers in [from, to],
	// ordered by battle identifier ascending. Zero-value bounds are open.
	ListByClan(ctx context.Context, clanID string, from, to battleid.ID) ([]BattleRecord, error)
	// ListAll returns every stored record, ordered by clan then identifier.
	ListAll(ctx context.Context) ([]BattleRecord, error)
}
