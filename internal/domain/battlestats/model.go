package battlestats

import (
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeTie  Outcome = "tie"
)

// BattleRecord is one clan's result for one battle window. The derived fields
// are always recomputed from the raw inputs at save time; a derived value is
// never persisted without the raw inputs it came from.
type BattleRecord struct {
	ClanID   string
	BattleID battleid.ID

	// Raw inputs.
	Score           int64
	OpponentScore   int64
	BaselineFp      int64
	Fp              int64
	OpponentFp      int64
	NonplayingCount int
	NonplayingFp    int64
	ReserveCount    int
	ReserveFp       int64

	// Derived at calculation time.
	Result            Outcome
	Ratio             float64
	AverageRatio      float64
	MarginRatio       float64
	FpMargin          float64
	NonplayingFpRatio float64
	ReserveFpRatio    float64

	UpdatedAt time.Time
}

// RawInputs carries the per-clan raw numbers a battle record is derived from.
type RawInputs struct {
	Score           int64
	OpponentScore   int64
	BaselineFp      int64
	Fp              int64
	OpponentFp      int64
	NonplayingCount int
	NonplayingFp    int64
	ReserveCount    int
	ReserveFp       int64
}
