// Package rotation decides which historical snapshot, if any, each
// backup run must delete. Decisions are pure calendar arithmetic over
// the run date and the configured retention tiers; the planner never
// touches the filesystem and never records per-snapshot metadata.
package rotation

import (
	"fmt"
	"time"
)

// Mode selects the rotation algorithm.
type Mode int

const (
	// ModeDepth walks a cursor back through tier boundaries: a snapshot
	// only advances past a boundary if it lands exactly on the start of
	// that tier, which spaces surviving snapshots geometrically.
	ModeDepth Mode = iota

	// ModeKeep is the older promote-in-place behavior: daily is a keep
	// count, weekly and monthly act as flags, and a previous-day
	// snapshot sitting on a tier boundary is promoted (kept) while an
	// older snapshot is deleted in its place.
	ModeKeep
)

func (m Mode) String() string {
	switch m {
	case ModeDepth:
		return "depth"
	case ModeKeep:
		return "keep"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a configuration string onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "depth":
		return ModeDepth, nil
	case "keep":
		return ModeKeep, nil
	default:
		return ModeDepth, fmt.Errorf("unknown rotation mode %q", s)
	}
}

// Deletion reasons, reported alongside each target.
const (
	ReasonPreviousDay = "previous day"
	ReasonNewWeek     = "new week"
	ReasonNewMonth    = "new month"
)

// Policy is the immutable per-run retention configuration.
//
// Daily, Weekly and Monthly are non-negative tier settings. In depth
// mode each is a count of periods to retain. In keep mode Daily is the
// age in days of the rotation candidate and Weekly/Monthly enable
// their tier when greater than zero.
type Policy struct {
	Mode    Mode
	Daily   int
	Weekly  int
	Monthly int

	// WeekStart is the weekday treated as a week boundary in depth
	// mode. The zero value time.Sunday is used as configured.
	WeekStart time.Weekday
}

// Deletion names one snapshot date the run should delete and why.
type Deletion struct {
	Date   time.Time
	Reason string
}

// Validate rejects policies the planner cannot run.
func (p Policy) Validate() error {
	if p.Daily < 0 || p.Weekly < 0 || p.Monthly < 0 {
		return fmt.Errorf("retention depths must be non-negative")
	}
	if p.Mode == ModeKeep && p.Daily < 1 {
		return fmt.Errorf("keep mode requires daily >= 1")
	}
	return nil
}

// Active reports whether any retention tier is configured.
func (p Policy) Active() bool {
	return p.Daily > 0 || p.Weekly > 0 || p.Monthly > 0
}

// Plan computes the deletions for a run dated today. With no active
// tier it falls back to deleting the previous day's snapshot, so a
// degenerate policy still bounds the snapshot count instead of
// silently keeping everything.
func (p Policy) Plan(today time.Time) []Deletion {
	if !p.Active() {
		return []Deletion{{Date: today.AddDate(0, 0, -1), Reason: ReasonPreviousDay}}
	}
	if p.Mode == ModeKeep {
		return p.planKeep(today)
	}
	return p.planDepth(today)
}

// planKeep promotes the previous-day snapshot when it sits exactly on
// a tier boundary and deletes an older snapshot instead, keeping the
// total count bounded without tagging snapshots on disk.
func (p Policy) planKeep(today time.Time) []Deletion {
	nbPrev := p.Daily
	day := today.Day()
	newMonthDay := 1 + nbPrev

	// The candidate was made on the 1st: it has just become this
	// month's keepsake, so last month's monthly copy goes instead.
	if p.Monthly > 0 && day == newMonthDay {
		return []Deletion{{Date: today.AddDate(0, -1, -nbPrev), Reason: ReasonNewMonth}}
	}

	if p.Weekly > 0 && isoWeekday(today) == nbPrev%7+1 {
		// The candidate was made on a Monday. Last week's Monday copy
		// would normally go, unless it is itself the monthly keepsake
		// (the candidate was made on the 8th), in which case the copy
		// from the week before goes.
		if day == 8+nbPrev {
			return []Deletion{{Date: today.AddDate(0, 0, -14-nbPrev), Reason: ReasonNewWeek}}
		}
		return []Deletion{{Date: today.AddDate(0, 0, -7-nbPrev), Reason: ReasonNewWeek}}
	}

	return []Deletion{{Date: today.AddDate(0, 0, -nbPrev), Reason: ReasonPreviousDay}}
}

// planDepth walks a cursor back by each active tier in turn. The
// cursor only crosses a tier boundary when it lands exactly on the
// start of that tier, so one snapshot per week survives past the daily
// window and one per month past the weekly window.
func (p Policy) planDepth(today time.Time) []Deletion {
	d := today
	reason := ReasonPreviousDay

	if p.Daily > 0 {
		d = d.AddDate(0, 0, -p.Daily)
	}
	if p.Weekly > 0 && d.Weekday() == p.WeekStart {
		d = d.AddDate(0, 0, -7*p.Weekly)
		reason = ReasonNewWeek
	}
	if p.Monthly > 0 && d.Day() == 1 {
		d = d.AddDate(0, -p.Monthly, 0)
		reason = ReasonNewMonth
	}

	return []Deletion{{Date: d, Reason: reason}}
}

// isoWeekday numbers Monday as 1 through Sunday as 7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
