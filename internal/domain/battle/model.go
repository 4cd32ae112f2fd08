package battle

import (
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

// WindowDays is the number of civil days a battle window spans past its start
// date. A window opens at Official-Time midnight of its date and closes two
// days later at 23:59:59.
const WindowDays = 2

// Window is one scheduled competitive event. Windows are created once, either
// by the schedule tick (CreatedBy nil) or by an administrator, and are never
// updated or deleted afterwards.
type Window struct {
	ID        battleid.ID
	StartAt   time.Time
	EndAt     time.Time
	CreatedBy *string
	Notes     string
	CreatedAt time.Time
}

// WindowBounds computes the absolute start and end instants of a window whose
// civil date is date. The date is normalized to Official Time first.
func WindowBounds(date time.Time) (time.Time, time.Time) {
	official := battleid.ToOfficial(date)
	start := time.Date(official.Year(), official.Month(), official.Day(), 0, 0, 0, 0, battleid.OfficialZone)
	end := start.AddDate(0, 0, WindowDays).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end
}
