package battlestats

import (
	"fmt"
	"math"
	"sort"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

type Aggregation string

const (
	AggregationBattle  Aggregation = "battle"
	AggregationMonthly Aggregation = "monthly"
)

func ParseAggregation(raw string) (Aggregation, error) {
	switch Aggregation(raw) {
	case AggregationBattle, "":
		return AggregationBattle, nil
	case AggregationMonthly:
		return AggregationMonthly, nil
	default:
		return "", fmt.Errorf("unknown aggregation %q", raw)
	}
}

// FlockPowerPoint is one sample of the power trend series.
type FlockPowerPoint struct {
	Label      string
	Fp         int64
	OpponentFp int64
	BaselineFp int64
}

// RatioPoint is one sample of the normalized performance series.
type RatioPoint struct {
	Label        string
	Ratio        float64
	AverageRatio float64
	Result       Outcome
}

// ParticipationPoint is one sample of the participation series.
type ParticipationPoint struct {
	Label             string
	NonplayingCount   int
	ReserveCount      int
	NonplayingFpRatio float64
	ReserveFpRatio    float64
}

// MarginPoint is one sample of the margin series.
type MarginPoint struct {
	Label       string
	MarginRatio float64
	FpMargin    float64
	Result      Outcome
}

// Trends bundles the per-series outputs of trend reporting plus the period
// summary over the same battles.
type Trends struct {
	FlockPower    []FlockPowerPoint
	Ratio         []RatioPoint
	Participation []ParticipationPoint
	Margin        []MarginPoint
	Summary       ClanSummary
}

// BuildTrends derives the trend series from battle-level records. Battle
// aggregation emits one point per battle labelled by its identifier; monthly
// aggregation groups battles by calendar month, averaging each field.
func BuildTrends(battles []BattleRecord, aggregation Aggregation) (Trends, error) {
	summary, err := ClanPeriodSummary(battles)
	if err != nil {
		return Trends{}, err
	}

	points := battles
	if aggregation == AggregationMonthly {
		points = rollUpMonthly(battles)
	}

	out := Trends{
		FlockPower:    make([]FlockPowerPoint, 0, len(points)),
		Ratio:         make([]RatioPoint, 0, len(points)),
		Participation: make([]ParticipationPoint, 0, len(points)),
		Margin:        make([]MarginPoint, 0, len(points)),
		Summary:       summary,
	}

	for _, b := range points {
		label := string(b.BattleID)
		if aggregation == AggregationMonthly {
			label = battleid.MonthOf(b.BattleID)
		}

		out.FlockPower = append(out.FlockPower, FlockPowerPoint{
			Label:      label,
			Fp:         b.Fp,
			OpponentFp: b.OpponentFp,
			BaselineFp: b.BaselineFp,
		})
		out.Ratio = append(out.Ratio, RatioPoint{
			Label:        label,
			Ratio:        b.Ratio,
			AverageRatio: b.AverageRatio,
			Result:       b.Result,
		})
		out.Participation = append(out.Participation, ParticipationPoint{
			Label:             label,
			NonplayingCount:   b.NonplayingCount,
			ReserveCount:      b.ReserveCount,
			NonplayingFpRatio: b.NonplayingFpRatio,
			ReserveFpRatio:    b.ReserveFpRatio,
		})
		out.Margin = append(out.Margin, MarginPoint{
			Label:       label,
			MarginRatio: b.MarginRatio,
			FpMargin:    b.FpMargin,
			Result:      b.Result,
		})
	}

	return out, nil
}

// rollUpMonthly collapses battle records into one synthetic record per month.
// Count-like fields are rounded to the nearest integer after averaging, ratio
// and percentage fields to two decimal places. The monthly result is a
// majority vote over the month's outcomes, not an average of result codes.
func rollUpMonthly(battles []BattleRecord) []BattleRecord {
	byMonth := make(map[string][]BattleRecord)
	months := make([]string, 0)
	for _, b := range battles {
		month := battleid.MonthOf(b.BattleID)
		if _, seen := byMonth[month]; !seen {
			months = append(months, month)
		}
		byMonth[month] = append(byMonth[month], b)
	}
	sort.Strings(months)

	out := make([]BattleRecord, 0, len(months))
	for _, month := range months {
		group := byMonth[month]
		n := float64(len(group))

		var point BattleRecord
		point.BattleID = battleid.ID(month + "01")
		wins, losses := 0, 0

		var score, opponentScore, fp, opponentFp, baselineFp, nonplayingCount, reserveCount float64
		for _, b := range group {
			switch b.Result {
			case OutcomeWin:
				wins++
			case OutcomeLoss:
				losses++
			}
			score += float64(b.Score)
			opponentScore += float64(b.OpponentScore)
			fp += float64(b.Fp)
			opponentFp += float64(b.OpponentFp)
			baselineFp += float64(b.BaselineFp)
			nonplayingCount += float64(b.NonplayingCount)
			reserveCount += float64(b.ReserveCount)
			point.Ratio += b.Ratio
			point.AverageRatio += b.AverageRatio
			point.MarginRatio += b.MarginRatio
			point.FpMargin += b.FpMargin
			point.NonplayingFpRatio += b.NonplayingFpRatio
			point.ReserveFpRatio += b.ReserveFpRatio
		}

		point.Score = int64(math.Round(score / n))
		point.OpponentScore = int64(math.Round(opponentScore / n))
		point.Fp = int64(math.Round(fp / n))
		point.OpponentFp = int64(math.Round(opponentFp / n))
		point.BaselineFp = int64(math.Round(baselineFp / n))
		point.NonplayingCount = int(math.Round(nonplayingCount / n))
		point.ReserveCount = int(math.Round(reserveCount / n))
		point.Ratio = round2(point.Ratio / n)
		point.AverageRatio = round2(point.AverageRatio / n)
		point.MarginRatio = round2(point.MarginRatio / n)
		point.FpMargin = round2(point.FpMargin / n)
		point.NonplayingFpRatio = round2(point.NonplayingFpRatio / n)
		point.ReserveFpRatio = round2(point.ReserveFpRatio / n)

		switch {
		case wins > losses:
			point.Result = OutcomeWin
		case losses > wins:
			point.Result = OutcomeLoss
		default:
			point.Result = OutcomeTie
		}

		out = append(out, point)
	}

	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
