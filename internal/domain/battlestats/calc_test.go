package battlestats

import (
	"errors"
	"math"
	"testing"
)

func TestResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score, opponent int64
		want            Outcome
	}{
		{100, 50, OutcomeWin},
		{50, 100, OutcomeLoss},
		{75, 75, OutcomeTie},
		{0, 0, OutcomeTie},
	}
	for _, tc := range tests {
		if got := Result(tc.score, tc.opponent); got != tc.want {
			t.Fatalf("Result(%d, %d): expected %s, got %s", tc.score, tc.opponent, tc.want, got)
		}
	}
}

func TestClanRatio(t *testing.T) {
	t.Parallel()

	got, err := ClanRatio(50000, 2500)
	if err != nil {
		t.Fatalf("ClanRatio: %v", err)
	}
	if got != 20000 {
		t.Fatalf("expected 20000, got %v", got)
	}

	if _, err := ClanRatio(50000, 0); !errors.Is(err, ErrZeroDenominator) {
		t.Fatalf("expected ErrZeroDenominator, got %v", err)
	}
}

func TestMarginRatio(t *testing.T) {
	t.Parallel()

	got, err := MarginRatio(200, 150)
	if err != nil {
		t.Fatalf("MarginRatio: %v", err)
	}
	if got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}

	got, err = MarginRatio(100, 150)
	if err != nil {
		t.Fatalf("MarginRatio losing: %v", err)
	}
	if got != -50 {
		t.Fatalf("expected -50, got %v", got)
	}

	if _, err := MarginRatio(0, 150); !errors.Is(err, ErrZeroDenominator) {
		t.Fatalf("expected ErrZeroDenominator, got %v", err)
	}
}

func TestFpMargin(t *testing.T) {
	t.Parallel()

	got, err := FpMargin(1000, 800)
	if err != nil {
		t.Fatalf("FpMargin: %v", err)
	}
	if got != 20 {
		t.Fatalf("expected 20, got %v", got)
	}

	if _, err := FpMargin(0, 800); !errors.Is(err, ErrZeroDenominator) {
		t.Fatalf("expected ErrZeroDenominator, got %v", err)
	}
}

// The participation ratios treat a zero denominator as a valid
// zero-participation state, unlike the error-on-zero primitives above.
func TestParticipationRatiosZeroDenominator(t *testing.T) {
	t.Parallel()

	if got := NonplayingFpRatio(0, 0); got != 0 {
		t.Fatalf("NonplayingFpRatio(0,0): expected 0, got %v", got)
	}
	if got := ReserveFpRatio(500, 0); got != 0 {
		t.Fatalf("ReserveFpRatio(500,0): expected 0, got %v", got)
	}
	if got := NonplayingFpRatio(250, 1000); got != 25 {
		t.Fatalf("NonplayingFpRatio(250,1000): expected 25, got %v", got)
	}
}

func TestRatioRanks(t *testing.T) {
	t.Parallel()

	got := RatioRanks([]float64{10, 30, 30, 20})
	want := []int{4, 1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranks mismatch: expected %v, got %v", want, got)
		}
	}

	if len(RatioRanks(nil)) != 0 {
		t.Fatal("expected empty ranks for empty input")
	}
}

func TestTotalFpExcludesReserves(t *testing.T) {
	t.Parallel()

	players := []PlayerInput{
		{PlayerID: "p1", Fp: 1000},
		{PlayerID: "p2", Fp: 1500},
	}
	nonplayers := []NonplayerInput{
		{PlayerID: "p3", Fp: 700},
		{PlayerID: "p4", Fp: 9000, Reserve: true},
	}

	if got := TotalFp(players, nonplayers); got != 3200 {
		t.Fatalf("expected 3200, got %d", got)
	}
}

func TestDeriveComputesAllFields(t *testing.T) {
	t.Parallel()

	record, err := Derive(RawInputs{
		Score:           50000,
		OpponentScore:   40000,
		BaselineFp:      2500,
		Fp:              2000,
		OpponentFp:      2000,
		NonplayingCount: 2,
		NonplayingFp:    500,
		ReserveCount:    1,
		ReserveFp:       100,
	})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	if record.Result != OutcomeWin {
		t.Fatalf("expected win, got %s", record.Result)
	}
	if record.Ratio != 20000 {
		t.Fatalf("expected ratio 20000, got %v", record.Ratio)
	}
	if record.AverageRatio != 25000 {
		t.Fatalf("expected average ratio 25000, got %v", record.AverageRatio)
	}
	if record.MarginRatio != 20 {
		t.Fatalf("expected margin ratio 20, got %v", record.MarginRatio)
	}
	if record.FpMargin != 20 {
		t.Fatalf("expected fp margin 20, got %v", record.FpMargin)
	}
	if record.NonplayingFpRatio != 25 {
		t.Fatalf("expected nonplaying fp ratio 25, got %v", record.NonplayingFpRatio)
	}
	if record.ReserveFpRatio != 5 {
		t.Fatalf("expected reserve fp ratio 5, got %v", record.ReserveFpRatio)
	}
}

func TestDerivePropagatesZeroDenominator(t *testing.T) {
	t.Parallel()

	_, err := Derive(RawInputs{Score: 100, OpponentScore: 50, BaselineFp: 0, Fp: 100, OpponentFp: 100})
	if !errors.Is(err, ErrZeroDenominator) {
		t.Fatalf("expected ErrZeroDenominator, got %v", err)
	}
}

func TestPlayerRatioNeverReturnsNaN(t *testing.T) {
	t.Parallel()

	got, err := PlayerRatio(0, 500)
	if err != nil {
		t.Fatalf("PlayerRatio: %v", err)
	}
	if math.IsNaN(got) || got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
