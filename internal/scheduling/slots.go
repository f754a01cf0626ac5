// Package scheduling proposes interview slots and applies candidate responses.
package scheduling

import (
	"time"

	"github.com/jonathan/talentflow/internal/types"
)

// Options controls slot generation.
type Options struct {
	Duration time.Duration
	// DayStart and DayEnd are business hours in the scheduler location.
	DayStart int
	DayEnd   int
	Step     time.Duration
	// LeadDays is how far ahead of now the first slot may be.
	LeadDays int
	// WindowDays is how many days after the lead the search covers.
	WindowDays     int
	MeetingBaseURL string
	Location       *time.Location
}

// DefaultOptions returns 60 minute interviews on weekdays 9:00-17:00 UTC, every 30 minutes.
func DefaultOptions() Options {
	return Options{
		Duration:       60 * time.Minute,
		DayStart:       9,
		DayEnd:         17,
		Step:           30 * time.Minute,
		LeadDays:       3,
		WindowDays:     14,
		MeetingBaseURL: "https://meet.company.com/interview",
		Location:       time.UTC,
	}
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// GenerateSlots lists interview start times in [from, to) that fall on weekdays
// inside business hours and do not overlap an active booked interview.
func GenerateSlots(from, to time.Time, opts Options, booked []types.Interview) []time.Time {
	if opts.Step <= 0 || opts.Duration <= 0 || !from.Before(to) {
		return nil
	}
	loc := opts.location()
	from, to = from.In(loc), to.In(loc)

	var slots []time.Time
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	for ; day.Before(to); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		open := time.Date(day.Year(), day.Month(), day.Day(), opts.DayStart, 0, 0, 0, loc)
		closeAt := time.Date(day.Year(), day.Month(), day.Day(), opts.DayEnd, 0, 0, 0, loc)
		for slot := open; !slot.Add(opts.Duration).After(closeAt); slot = slot.Add(opts.Step) {
			if slot.Before(from) || !slot.Before(to) {
				continue
			}
			if overlapsAny(slot, opts.Duration, booked, nil) {
				continue
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

// overlapsAny reports whether [start, start+d) intersects an active interview other than skip.
func overlapsAny(start time.Time, d time.Duration, booked []types.Interview, skip *types.Interview) bool {
	end := start.Add(d)
	for i := range booked {
		b := &booked[i]
		if !b.Active() || (skip != nil && b.ID == skip.ID) {
			continue
		}
		if start.Before(b.EndsAt()) && b.ScheduledAt.Before(end) {
			return true
		}
	}
	return false
}
