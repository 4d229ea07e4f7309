package membership

import (
	"time"

	vo "nexus/internal/domain/membership/valueobjects"
)

const (
	// DefaultGraceDays is how many days past the nominal end date a
	// contiguous renewal is still anchored to the old end date.
	DefaultGraceDays = 7
	// DefaultRenewalWindowDays is how many days before the end date an
	// early renewal may start.
	DefaultRenewalWindowDays = 7
)

// RenewalWindow is the validity window produced by a renewal calculation.
type RenewalWindow struct {
	StartDate time.Time
	EndDate   time.Time
}

// CalculateRenewalDates computes the next validity window for a membership.
// It is deterministic: the caller injects today's date, normally
// biztime.Today().
//
// Anchoring rules:
//   - non-ACTIVE membership: the window starts today.
//   - ACTIVE, already past endDate: within graceDays the window starts at
//     endDate (contiguous, no days lost), beyond it the window starts today.
//   - ACTIVE, endDate still ahead: an early renewal within graceDays of
//     endDate extends contiguously from endDate.
//
// The window always spans one calendar month with day-of-month clamping
// (Jan 31 anchors to Feb 28, or Feb 29 in a leap year).
func CalculateRenewalDates(status vo.MembershipStatus, endDate, today time.Time, graceDays int) RenewalWindow {
	if graceDays <= 0 {
		graceDays = DefaultGraceDays
	}

	start := today
	if status == vo.StatusActive && !endDate.IsZero() {
		switch days := daysBetween(today, endDate); {
		case days >= 0 && days <= graceDays:
			start = endDate
		case days >= 0:
			start = today
		case -days <= graceDays:
			// Early renewal inside the window: extend contiguously.
			start = endDate
		}
	}

	return RenewalWindow{
		StartDate: start,
		EndDate:   AddOneMonthClamped(start),
	}
}

// AddOneMonthClamped returns t plus one calendar month, with the day of
// month clamped to the last valid day of the target month. time.AddDate is
// unsuitable here: it normalizes Jan 31 + 1 month to Mar 2/3 instead of
// clamping to the end of February.
func AddOneMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	targetYear, targetMonth := year, month+1
	if targetMonth > time.December {
		targetMonth = time.January
		targetYear++
	}

	if last := lastDayOfMonth(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween returns the whole calendar days from b to a (positive when a
// is after b). Both are compared at date granularity in their own
// locations, so clock drift within a day never changes the result.
func daysBetween(a, b time.Time) int {
	return dayNumber(a) - dayNumber(b)
}

func dayNumber(t time.Time) int {
	year, month, day := t.Date()
	u := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return int(u.Unix() / 86400)
}
