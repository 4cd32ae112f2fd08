package battlestats

import (
	"errors"
	"fmt"
	"sort"
)

// ErrZeroDenominator is returned by the ratio primitives whose denominator
// must be positive by construction upstream. The participation ratios below
// deliberately do not share this behavior.
var ErrZeroDenominator = errors.New("denominator must not be zero")

// RatioMultiplier scales score-over-power quotients into the normalized ratio
// scale used everywhere in reports.
const RatioMultiplier = 1000

// Result classifies a battle by comparing own and opponent score.
func Result(score, opponentScore int64) Outcome {
	switch {
	case score > opponentScore:
		return OutcomeWin
	case score < opponentScore:
		return OutcomeLoss
	default:
		return OutcomeTie
	}
}

// ClanRatio is the clan score normalized by the clan's baseline flock power.
func ClanRatio(score, baselineFp int64) (float64, error) {
	return scaledRatio("clan ratio", score, baselineFp)
}

// AverageRatio is the clan score normalized by the participating flock power.
func AverageRatio(score, fp int64) (float64, error) {
	return scaledRatio("average ratio", score, fp)
}

// PlayerRatio is one player's score normalized by that player's flock power.
func PlayerRatio(score, fp int64) (float64, error) {
	return scaledRatio("player ratio", score, fp)
}

// MarginRatio is the score margin as a percentage of own score.
func MarginRatio(score, opponentScore int64) (float64, error) {
	if score == 0 {
		return 0, fmt.Errorf("%w: margin ratio needs score > 0", ErrZeroDenominator)
	}
	return float64(score-opponentScore) / float64(score) * 100, nil
}

// FpMargin is the flock power margin as a percentage of baseline flock power.
func FpMargin(baselineFp, opponentFp int64) (float64, error) {
	if baselineFp == 0 {
		return 0, fmt.Errorf("%w: fp margin needs baseline fp > 0", ErrZeroDenominator)
	}
	return float64(baselineFp-opponentFp) / float64(baselineFp) * 100, nil
}

// NonplayingFpRatio is the share of flock power that sat out, as a percentage.
// A zero denominator means there was no eligible base at all, which is a valid
// zero-participation state rather than an error.
func NonplayingFpRatio(nonplayingFp, fp int64) float64 {
	return participationRatio(nonplayingFp, fp)
}

// ReserveFpRatio is the share of flock power held in reserve, as a percentage.
// Zero denominator behaves like NonplayingFpRatio.
func ReserveFpRatio(reserveFp, fp int64) float64 {
	return participationRatio(reserveFp, fp)
}

// RatioRanks assigns descending ranks over ratios. Rank 1 is the highest
// ratio. Equal ratios receive distinct sequential ranks in original input
// order; downstream consumers depend on this tie-break, so it must not be
// replaced with shared ranks.
func RatioRanks(ratios []float64) []int {
	order := make([]int, len(ratios))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return ratios[order[i]] > ratios[order[j]]
	})

	ranks := make([]int, len(ratios))
	for rank, idx := range order {
		ranks[idx] = rank + 1
	}
	return ranks
}

// PlayerInput is one participating player's raw numbers.
type PlayerInput struct {
	PlayerID   string
	PlayerName string
	Score      int64
	Fp         int64
}

// NonplayerInput is a roster member who did not play. Reserves are tracked
// here too; their power is deliberately excluded from TotalFp because reserves
// suppress the clan's effective power for matchmaking.
type NonplayerInput struct {
	PlayerID string
	Fp       int64
	Reserve  bool
}

// TotalFp sums all participating player power plus the power of non-reserve
// non-players only.
func TotalFp(players []PlayerInput, nonplayers []NonplayerInput) int64 {
	var total int64
	for _, p := range players {
		total += p.Fp
	}
	for _, n := range nonplayers {
		if n.Reserve {
			continue
		}
		total += n.Fp
	}
	return total
}

// Derive computes every derived field of a battle record from raw inputs.
func Derive(raw RawInputs) (BattleRecord, error) {
	ratio, err := ClanRatio(raw.Score, raw.BaselineFp)
	if err != nil {
		return BattleRecord{}, err
	}
	averageRatio, err := AverageRatio(raw.Score, raw.Fp)
	if err != nil {
		return BattleRecord{}, err
	}
	marginRatio, err := MarginRatio(raw.Score, raw.OpponentScore)
	if err != nil {
		return BattleRecord{}, err
	}
	fpMargin, err := FpMargin(raw.BaselineFp, raw.OpponentFp)
	if err != nil {
		return BattleRecord{}, err
	}

	return BattleRecord{
		Score:             raw.Score,
		OpponentScore:     raw.OpponentScore,
		BaselineFp:        raw.BaselineFp,
		Fp:                raw.Fp,
		OpponentFp:        raw.OpponentFp,
		NonplayingCount:   raw.NonplayingCount,
		NonplayingFp:      raw.NonplayingFp,
		ReserveCount:      raw.ReserveCount,
		ReserveFp:         raw.ReserveFp,
		Result:            Result(raw.Score, raw.OpponentScore),
		Ratio:             ratio,
		AverageRatio:      averageRatio,
		MarginRatio:       marginRatio,
		FpMargin:          fpMargin,
		NonplayingFpRatio: NonplayingFpRatio(raw.NonplayingFp, raw.Fp),
		ReserveFpRatio:    ReserveFpRatio(raw.ReserveFp, raw.Fp),
	}, nil
}

func scaledRatio(name string, numerator, denominator int64) (float64, error) {
	if denominator == 0 {
		return 0, fmt.Errorf("%w: %s", ErrZeroDenominator, name)
	}
	return float64(numerator) / float64(denominator) * RatioMultiplier, nil
}

func participationRatio(part, fp int64) float64 {
	if fp == 0 {
		return 0
	}
	return float64(part) / float64(fp) * 100
}
