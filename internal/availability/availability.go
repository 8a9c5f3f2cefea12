// Package availability derives offerable consultation slots from the firm's
// static business rules and the set of slots the booking service reports as taken.
package availability

import (
	"time"

	"github.com/julianstephens/consultbook/internal/constants"
)

// TimeSlot is a time-of-day label from the catalogue, e.g. "09:30"
type TimeSlot = string

// CandidateDate is a bookable calendar day paired with its picker label
type CandidateDate struct {
	ISO   string
	Label string
}

// catalogue is the ordered list of slots offered every working day:
// a morning window 09:00-11:30 and an afternoon window 14:00-16:30.
var catalogue = []TimeSlot{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

// DefaultBlockedDates lists days with no appointments at all (office closures
// and UK bank holidays).
var DefaultBlockedDates = []string{
	"2026-12-24", "2026-12-25", "2026-12-28", "2026-12-31",
	"2027-01-01", "2027-03-26", "2027-03-29", "2027-05-03",
	"2027-05-31", "2027-08-30", "2027-12-24", "2027-12-27",
	"2027-12-28", "2027-12-31",
}

// Catalogue returns a copy of the static slot catalogue
func Catalogue() []TimeSlot {
	out := make([]TimeSlot, len(catalogue))
	copy(out, catalogue)
	return out
}

// Calendar applies the weekday, blocklist and catalogue rules
type Calendar struct {
	catalogue []TimeSlot
	blocked   map[string]struct{}
}

// New creates a Calendar with the standard catalogue and the given blocked dates
func New(blocked []string) *Calendar {
	return NewWithCatalogue(catalogue, blocked)
}

// Default creates a Calendar using DefaultBlockedDates
func Default() *Calendar {
	return New(DefaultBlockedDates)
}

// NewWithCatalogue creates a Calendar with a custom slot catalogue
func NewWithCatalogue(slots []TimeSlot, blocked []string) *Calendar {
	c := &Calendar{
		catalogue: append([]TimeSlot(nil), slots...),
		blocked:   make(map[string]struct{}, len(blocked)),
	}
	for _, d := range blocked {
		c.blocked[d] = struct{}{}
	}
	return c
}

// Catalogue returns a copy of this calendar's slot catalogue
func (c *Calendar) Catalogue() []TimeSlot {
	return append([]TimeSlot(nil), c.catalogue...)
}

// IsBlocked reports whether the ISO date is on the blocklist
func (c *Calendar) IsBlocked(date string) bool {
	_, ok := c.blocked[date]
	return ok
}

// GenerateAvailableDates walks the BookingHorizonDays calendar days after today
// and keeps weekdays that are not blocked. Skipped days are not backfilled, so
// the result is shorter than the horizon.
func (c *Calendar) GenerateAvailableDates(today time.Time) []CandidateDate {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var dates []CandidateDate
	for i := 1; i <= constants.BookingHorizonDays; i++ {
		day := start.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		iso := day.Format(constants.DateFormat)
		if c.IsBlocked(iso) {
			continue
		}
		dates = append(dates, CandidateDate{
			ISO:   iso,
			Label: day.Format(constants.DateLabelFormat),
		})
	}
	return dates
}

// IsOfferable reports whether date is one of the candidate dates for today
func (c *Calendar) IsOfferable(date string, today time.Time) bool {
	for _, d := range c.GenerateAvailableDates(today) {
		if d.ISO == date {
			return true
		}
	}
	return false
}

// AvailableTimeSlots returns the catalogue minus the booked slots, in catalogue order
func (c *Calendar) AvailableTimeSlots(booked []TimeSlot) []TimeSlot {
	taken := make(map[TimeSlot]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	available := make([]TimeSlot, 0, len(c.catalogue))
	for _, slot := range c.catalogue {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available
}

// Contains reports whether slot is in the catalogue
func (c *Calendar) Contains(slot TimeSlot) bool {
	for _, s := range c.catalogue {
		if s == slot {
			return true
		}
	}
	return false
}

// Limit returns at most n dates, the number the picker shows
func Limit(dates []CandidateDate, n int) []CandidateDate {
	if len(dates) <= n {
		return dates
	}
	return dates[:n]
}
