package playerstats

import (
	"context"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

type Repository interface {
	// ReplaceForBattle swaps the full set of player records attached to one
	// battle record in a single logical operation.
	ReplaceForBattle(ctx context.Context, clanID string, battleID battleid.ID, records []PlayerRecord) error
	// ListByClan returns the clan's player records with battle identifiers in
	// [from, to], ordered by battle identifier then rank ascending.
	ListByClan(ctx context.Context, clanID string, from, to battleid.ID) ([]PlayerRecord, error)
	// ListByBattle returns the records of one battle ordered by rank.
	ListByBattle(ctx context.Context, clanID string, battleID battleid.ID) ([]PlayerRecord, error)
}
