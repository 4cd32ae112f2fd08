package battleid

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidFormat       = errors.New("battle id must be exactly 8 digits")
	ErrInvalidCalendarDate = errors.New("battle id is not a real calendar date")
)

// CycleDays is the fixed number of civil days between successive battles.
const CycleDays = 3

const idLength = 8

// OfficialZone is the fixed UTC-5 civil calendar used for all battle
// scheduling. It is never adjusted for daylight saving.
var OfficialZone = time.FixedZone("UTC-5", -5*60*60)

// ToOfficial converts any instant to Official Time.
func ToOfficial(t time.Time) time.Time {
	return t.In(OfficialZone)
}

// ID is an 8-digit battle identifier encoding a civil date as YYYYMMDD in
// Official Time. Lexicographic order equals chronological order.
type ID string

// Encode formats a civil date as a battle identifier. The caller is expected
// to have normalized the date to Official Time already; Encode itself performs
// no timezone conversion.
func Encode(date time.Time) ID {
	return ID(date.Format("20060102"))
}

// Decode parses an identifier back into Official-Time midnight of its date.
func Decode(id ID) (time.Time, error) {
	if len(id) != idLength {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, id)
	}
	for i := 0; i < idLength; i++ {
		if id[i] < '0' || id[i] > '9' {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, id)
		}
	}

	year := digits(id[0:4])
	month := digits(id[4:6])
	day := digits(id[6:8])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCalendarDate, id)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCalendarDate, id)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, OfficialZone), nil
}

// Advance returns the identifier cycles battle cycles later.
func Advance(id ID, cycles int) (ID, error) {
	date, err := Decode(id)
	if err != nil {
		return "", err
	}
	return Encode(date.AddDate(0, 0, cycles*CycleDays)), nil
}

// Retreat returns the identifier cycles battle cycles earlier.
func Retreat(id ID, cycles int) (ID, error) {
	return Advance(id, -cycles)
}

// Compare returns -1, 0 or 1. String comparison is valid because the encoding
// is fixed-width, zero-padded and calendar-monotonic.
func Compare(a, b ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func SortAscending(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func SortDescending(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
}

// MonthOf returns the YYYYMM month identifier of a battle id.
func MonthOf(id ID) string {
	if len(id) < 6 {
		return ""
	}
	return string(id[0:6])
}

// YearOf returns the YYYY year identifier of a battle id.
func YearOf(id ID) string {
	if len(id) < 4 {
		return ""
	}
	return string(id[0:4])
}

func digits(s ID) int {
	out := 0
	for i := 0; i < len(s); i++ {
		out = out*10 + int(s[i]-'0')
	}
	return out
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
}

func isLeapYear(year int) bool {
	if year%400 == 0 {
		return true
	}
	if year%100 == 0 {
		return false
	}
	return year%4 == 0
}
