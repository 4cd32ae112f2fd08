package battle

import (
	"testing"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

func TestWindowBounds(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, battleid.OfficialZone)
	start, end := WindowBounds(date)

	if !start.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, battleid.OfficialZone)) {
		t.Fatalf("unexpected start: %v", start)
	}
	if !end.Equal(time.Date(2025, time.March, 12, 23, 59, 59, 0, battleid.OfficialZone)) {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestWindowBoundsNormalizesToOfficialTime(t *testing.T) {
	t.Parallel()

	// 02:00 UTC on the 10th is still the 9th in Official Time.
	instant := time.Date(2025, time.March, 10, 2, 0, 0, 0, time.UTC)
	start, end := WindowBounds(instant)

	if battleid.Encode(start) != "20250309" {
		t.Fatalf("expected window date 20250309, got %s", battleid.Encode(start))
	}
	if end.Sub(start) != 2*24*time.Hour+23*time.Hour+59*time.Minute+59*time.Second {
		t.Fatalf("unexpected window span: %v", end.Sub(start))
	}
}
