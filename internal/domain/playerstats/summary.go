package playerstats

import (
	"sort"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
)

// PeriodSummary aggregates one player's records over a period.
type PeriodSummary struct {
	PlayerID   string
	PlayerName string
	Battles    int

	AvgScore     float64
	AvgFp        float64
	AvgRatio     float64
	AvgRatioRank float64
}

// PeriodSummaries groups records by player and averages their raw and derived
// fields. Players with fewer than battlestats.MinPeriodSample qualifying
// records in the period are excluded entirely. Output is ordered by average
// ratio descending, player id breaking ties.
func PeriodSummaries(records []PlayerRecord) []PeriodSummary {
	grouped := make(map[string][]PlayerRecord)
	order := make([]string, 0)
	for _, r := range records {
		if _, seen := grouped[r.PlayerID]; !seen {
			order = append(order, r.PlayerID)
		}
		grouped[r.PlayerID] = append(grouped[r.PlayerID], r)
	}

	out := make([]PeriodSummary, 0, len(order))
	for _, playerID := range order {
		rows := grouped[playerID]
		if len(rows) < battlestats.MinPeriodSample {
			continue
		}

		summary := PeriodSummary{
			PlayerID:   playerID,
			PlayerName: rows[len(rows)-1].PlayerName,
			Battles:    len(rows),
		}
		for _, r := range rows {
			summary.AvgScore += float64(r.Score)
			summary.AvgFp += float64(r.Fp)
			summary.AvgRatio += r.Ratio
			summary.AvgRatioRank += float64(r.RatioRank)
		}
		n := float64(len(rows))
		summary.AvgScore /= n
		summary.AvgFp /= n
		summary.AvgRatio /= n
		summary.AvgRatioRank /= n

		out = append(out, summary)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgRatio != out[j].AvgRatio {
			return out[i].AvgRatio > out[j].AvgRatio
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	return out
}
