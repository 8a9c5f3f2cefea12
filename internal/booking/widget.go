// Package booking owns the booking widget state and the submission flow.
package booking

import (
	"strings"
	"time"

	"github.com/julianstephens/consultbook/internal/availability"
	"github.com/julianstephens/consultbook/internal/bookingapi"
	"github.com/julianstephens/consultbook/internal/constants"
	"github.com/julianstephens/consultbook/internal/logger"
)

// Contact holds the client's details from the booking form
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// Widget is the single owner of booking widget state. Callers drive it via
// intents (Open, SelectDate, SelectTime, SetContact, BeginSubmit, Reset, Close)
// and never mutate fields directly.
type Widget struct {
	cal *availability.Calendar
	now func() time.Time

	open       bool
	dates      []availability.CandidateDate
	date       string
	slot       string
	contact    Contact
	booked     []string
	loading    bool
	seq        uint64
	submitting bool
	message    string
}

// WidgetOption configures a Widget
type WidgetOption func(*Widget)

// WithClock overrides the source of "today"
func WithClock(now func() time.Time) WidgetOption {
	return func(w *Widget) {
		w.now = now
	}
}

// NewWidget creates a closed widget over cal
func NewWidget(cal *availability.Calendar, opts ...WidgetOption) *Widget {
	w := &Widget{cal: cal, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open moves closed -> open(no-date) and computes the candidate dates fresh
func (w *Widget) Open() {
	if w.open {
		return
	}
	w.clear()
	w.open = true
	w.message = ""
	w.dates = w.cal.GenerateAvailableDates(w.now())
}

// IsOpen reports whether the widget is open
func (w *Widget) IsOpen() bool {
	return w.open
}

// Phase derives the state-machine phase from the current state
func (w *Widget) Phase() constants.WidgetPhase {
	switch {
	case !w.open:
		return constants.PhaseClosed
	case w.submitting:
		return constants.PhaseSubmitting
	case w.date == "":
		return constants.PhaseNoDate
	case w.loading:
		return constants.PhaseLoadingSlots
	case w.slot == "":
		return constants.PhaseSlotsReady
	case Validate(w.request()) == nil:
		return constants.PhaseReadyToSubmit
	default:
		return constants.PhaseTimeSelected
	}
}

// Dates returns every candidate date computed at Open
func (w *Widget) Dates() []availability.CandidateDate {
	return w.dates
}

// DisplayedDates returns the candidate dates the picker shows
func (w *Widget) DisplayedDates() []availability.CandidateDate {
	return availability.Limit(w.dates, constants.DisplayedDates)
}

// SelectDate selects a date and starts a booked-slot lookup. It returns the
// request id that the lookup result must carry back to ApplyBookedSlots.
// Blocked dates are rejected before any lookup is issued.
func (w *Widget) SelectDate(date string) (uint64, error) {
	if !w.open {
		return 0, ErrClosed
	}
	if w.submitting {
		return 0, ErrSubmitInFlight
	}
	if w.cal.IsBlocked(date) {
		return 0, ErrDateBlocked
	}
	if !w.offered(date) {
		return 0, ErrDateNotOffered
	}

	w.date = date
	w.slot = ""
	w.booked = nil
	w.loading = true
	w.seq++
	return w.seq, nil
}

func (w *Widget) offered(date string) bool {
	for _, d := range w.dates {
		if d.ISO == date {
			return true
		}
	}
	return false
}

// ApplyBookedSlots applies a lookup result. Results for a date that is no
// longer selected, or from a superseded request, are dropped and false is
// returned. A failed lookup fails open: nothing is treated as booked.
func (w *Widget) ApplyBookedSlots(date string, seq uint64, times []string, err error) bool {
	if !w.open || !w.loading || date != w.date || seq != w.seq {
		logger.Debug("Dropping stale booked slots response", "date", date, "seq", seq, "current_date", w.date, "current_seq", w.seq)
		return false
	}
	if err != nil {
		logger.Warn("Booked slots lookup failed, offering all slots", "date", date, "error", err)
		times = nil
	}
	w.booked = append([]string(nil), times...)
	w.loading = false
	return true
}

// Loading reports whether a booked-slot lookup is in flight
func (w *Widget) Loading() bool {
	return w.loading
}

// AvailableSlots returns the offerable times for the selected date, or nil
// while no date is selected or the lookup is in flight
func (w *Widget) AvailableSlots() []string {
	if w.date == "" || w.loading {
		return nil
	}
	return w.cal.AvailableTimeSlots(w.booked)
}

// SlotsState tells the view which slot-list state to present
func (w *Widget) SlotsState() constants.SlotsState {
	switch {
	case w.date == "":
		return constants.SlotsNone
	case w.loading:
		return constants.SlotsLoading
	case len(w.AvailableSlots()) == 0:
		return constants.SlotsEmpty
	default:
		return constants.SlotsAvailable
	}
}

// SelectTime selects an offerable time on the selected date
func (w *Widget) SelectTime(slot string) error {
	if !w.open {
		return ErrClosed
	}
	if w.submitting {
		return ErrSubmitInFlight
	}
	if w.date == "" {
		return ErrNoDate
	}
	if w.loading {
		return ErrSlotsLoading
	}
	for _, s := range w.AvailableSlots() {
		if s == slot {
			w.slot = slot
			return nil
		}
	}
	return ErrSlotUnavailable
}

// SetContact replaces the contact details
func (w *Widget) SetContact(c Contact) error {
	if !w.open {
		return ErrClosed
	}
	if w.submitting {
		return ErrSubmitInFlight
	}
	w.contact = c
	return nil
}

// SelectedDate returns the selected ISO date, "" if none
func (w *Widget) SelectedDate() string { return w.date }

// SelectedTime returns the selected time, "" if none
func (w *Widget) SelectedTime() string { return w.slot }

// Contact returns the current contact details
func (w *Widget) Contact() Contact { return w.contact }

// Submitting reports whether a submission is in flight
func (w *Widget) Submitting() bool { return w.submitting }

// Message returns the last user-facing status message
func (w *Widget) Message() string { return w.message }

func (w *Widget) request() bookingapi.BookingRequest {
	return bookingapi.BookingRequest{
		Name:    strings.TrimSpace(w.contact.Name),
		Email:   strings.TrimSpace(w.contact.Email),
		Phone:   strings.TrimSpace(w.contact.Phone),
		Company: strings.TrimSpace(w.contact.Company),
		Date:    w.date,
		Time:    w.slot,
	}
}

// BeginSubmit validates the form and marks a submission in flight. Only one
// submission may be in flight; a second call gets ErrSubmitInFlight.
func (w *Widget) BeginSubmit() (bookingapi.BookingRequest, error) {
	if !w.open {
		return bookingapi.BookingRequest{}, ErrClosed
	}
	if w.submitting {
		return bookingapi.BookingRequest{}, ErrSubmitInFlight
	}
	req := w.request()
	if err := Validate(req); err != nil {
		w.message = err.Error()
		return bookingapi.BookingRequest{}, err
	}
	w.submitting = true
	w.message = ""
	return req, nil
}

// FinishSubmit records the outcome, clears all form state and closes the widget
func (w *Widget) FinishSubmit(out Outcome) {
	w.clear()
	w.open = false
	w.message = out.Message
}

// AbortSubmit ends an in-flight submission that never reached the network,
// keeping the form so the user can correct it
func (w *Widget) AbortSubmit(err error) {
	w.submitting = false
	if err != nil {
		w.message = err.Error()
	}
}

// Reset returns to open(no-date) without closing. Any lookup in flight is superseded.
func (w *Widget) Reset() error {
	if !w.open {
		return ErrClosed
	}
	if w.submitting {
		return ErrSubmitInFlight
	}
	w.clear()
	w.message = ""
	return nil
}

// Close cancels the widget from any phase
func (w *Widget) Close() {
	w.clear()
	w.open = false
}

func (w *Widget) clear() {
	w.date = ""
	w.slot = ""
	w.contact = Contact{}
	w.booked = nil
	w.loading = false
	w.submitting = false
	w.seq++
}
