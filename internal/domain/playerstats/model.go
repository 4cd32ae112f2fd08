package playerstats

import (
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

// PlayerRecord is one player's result inside one battle record. Ratio and
// RatioRank are derived from the raw score and flock power when the battle is
// saved.
type PlayerRecord struct {
	ClanID     string
	BattleID   battleid.ID
	PlayerID   string
	PlayerName string

	Score int64
	Fp    int64

	Ratio     float64
	RatioRank int

	UpdatedAt time.Time
}
