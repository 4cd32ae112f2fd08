package battlestats

import "errors"

// ErrEmptyPeriod is returned when a summary is requested over zero battles.
// A period with no battles has no meaningful average; callers special-case it
// and present an explicit zero-filled summary instead.
var ErrEmptyPeriod = errors.New("period contains no battles")

// MinPeriodSample is the minimum number of qualifying records a player needs
// inside a period before an individual summary is produced for them. The
// threshold protects against over-weighting small samples and is inclusive:
// exactly three records qualify.
const MinPeriodSample = 3

// ClanSummary aggregates one clan's battle records over a period.
type ClanSummary struct {
	Battles int
	Wins    int
	Losses  int
	Ties    int

	AvgScore             float64
	AvgOpponentScore     float64
	AvgFp                float64
	AvgOpponentFp        float64
	AvgBaselineFp        float64
	AvgRatio             float64
	AvgAverageRatio      float64
	AvgMarginRatio       float64
	AvgFpMargin          float64
	AvgNonplayingFpRatio float64
	AvgReserveFpRatio    float64
}

// ClanPeriodSummary computes win/loss/tie counts and the arithmetic mean of
// every battle metric across the supplied battles.
func ClanPeriodSummary(battles []BattleRecord) (ClanSummary, error) {
	if len(battles) == 0 {
		return ClanSummary{}, ErrEmptyPeriod
	}

	out := ClanSummary{Battles: len(battles)}
	for _, b := range battles {
		switch b.Result {
		case OutcomeWin:
			out.Wins++
		case OutcomeLoss:
			out.Losses++
		default:
			out.Ties++
		}

		out.AvgScore += float64(b.Score)
		out.AvgOpponentScore += float64(b.OpponentScore)
		out.AvgFp += float64(b.Fp)
		out.AvgOpponentFp += float64(b.OpponentFp)
		out.AvgBaselineFp += float64(b.BaselineFp)
		out.AvgRatio += b.Ratio
		out.AvgAverageRatio += b.AverageRatio
		out.AvgMarginRatio += b.MarginRatio
		out.AvgFpMargin += b.FpMargin
		out.AvgNonplayingFpRatio += b.NonplayingFpRatio
		out.AvgReserveFpRatio += b.ReserveFpRatio
	}

	n := float64(len(battles))
	out.AvgScore /= n
	out.AvgOpponentScore /= n
	out.AvgFp /= n
	out.AvgOpponentFp /= n
	out.AvgBaselineFp /= n
	out.AvgRatio /= n
	out.AvgAverageRatio /= n
	out.AvgMarginRatio /= n
	out.AvgFpMargin /= n
	out.AvgNonplayingFpRatio /= n
	out.AvgReserveFpRatio /= n

	return out, nil
}
