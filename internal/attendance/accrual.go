// Package attendance reduces a raw check-in/check-out log to accrued time and presence.
package attendance

import (
	"slices"
	"time"

	"checkintracker/internal/domain"
)

// Summary is the result of accruing one ticket's attendance history.
type Summary struct {
	TotalMinutes int64
	IsCheckedIn  bool
	LastCheckIn  *time.Time

	// SessionOpen reports whether a check-in was still unmatched at the end of the scan.
	SessionOpen bool

	// History is the input sorted by timestamp; events with equal timestamps keep their input order.
	History []*domain.AttendanceEvent
}

// TotalHours converts the accrued minutes to hours.
func (s Summary) TotalHours() float64 {
	return float64(s.TotalMinutes) / 60
}

// Accrue pairs check-ins with check-outs and sums the matched durations.
//
// A check-in opens a session; a later check-in before any check-out replaces the
// open one, so the earlier check-in contributes nothing. A check-out closes the
// open session and adds the elapsed whole minutes when positive. Check-outs with
// no open session and non-positive durations are dropped.
//
// Presence is decided separately: the participant is checked in when the latest
// check-in is strictly later than the latest check-out (or no check-out exists).
func Accrue(events []*domain.AttendanceEvent) Summary {
	history := SortByTimestamp(events)

	var (
		total   int64
		open    *time.Time
		lastIn  *time.Time
		lastOut *time.Time
	)
	for _, e := range history {
		ts := e.Timestamp
		switch e.Kind {
		case domain.CheckIn:
			open = &ts
			lastIn = &ts
		case domain.CheckOut:
			if open != nil {
				if minutes := wholeMinutes(ts.Sub(*open)); minutes > 0 {
					total += minutes
				}
				open = nil
			}
			lastOut = &ts
		}
	}

	return Summary{
		TotalMinutes: total,
		IsCheckedIn:  lastIn != nil && (lastOut == nil || lastIn.After(*lastOut)),
		LastCheckIn:  lastIn,
		SessionOpen:  open != nil,
		History:      history,
	}
}

// SortByTimestamp returns a copy of events ordered by timestamp, ties kept in input order.
func SortByTimestamp(events []*domain.AttendanceEvent) []*domain.AttendanceEvent {
	sorted := make([]*domain.AttendanceEvent, 0, len(events))
	for _, e := range events {
		if e != nil {
			sorted = append(sorted, e)
		}
	}
	slices.SortStableFunc(sorted, func(a, b *domain.AttendanceEvent) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// wholeMinutes truncates d toward zero.
func wholeMinutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}
