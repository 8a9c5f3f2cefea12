package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/consultbook/internal/availability"
	"github.com/julianstephens/consultbook/internal/booking"
	"github.com/julianstephens/consultbook/internal/bookingapi"
	"github.com/julianstephens/consultbook/internal/config"
	"github.com/julianstephens/consultbook/internal/fallback"
	"github.com/julianstephens/consultbook/internal/journal"
	"github.com/julianstephens/consultbook/internal/logger"
)

type Context struct {
	Config   config.Config
	Client   *bookingapi.Client
	Calendar *availability.Calendar
	Journal  *journal.Store
	Opener   fallback.Opener
	Out      io.Writer
	Now      func() time.Time
}

// NewContext wires the booking components from cfg
func NewContext(cfg config.Config, journalPath string) *Context {
	return &Context{
		Config: cfg,
		Client: bookingapi.NewClient(cfg.BackendURL,
			bookingapi.WithFetchTimeout(cfg.FetchTimeout),
			bookingapi.WithSubmitTimeout(cfg.SubmitTimeout),
		),
		Calendar: availability.New(cfg.BlockedDates),
		Journal:  journal.NewStore(journalPath),
		Opener:   fallback.SystemOpener{},
		Out:      os.Stdout,
		Now:      time.Now,
	}
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Today returns the current time in the business timezone
func (c *Context) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.Config.Location())
}

// NewWidget creates a closed widget using the business calendar and clock
func (c *Context) NewWidget() *booking.Widget {
	return booking.NewWidget(c.Calendar, booking.WithClock(c.Today))
}

// NewSubmitter creates a Submitter that journals every attempt
func (c *Context) NewSubmitter() *booking.Submitter {
	opts := []booking.SubmitterOption{booking.WithFallbackEmail(c.Config.FallbackEmail)}
	if c.Journal != nil {
		opts = append(opts, booking.WithRecorder(c.Journal))
	}
	return booking.NewSubmitter(c.Client, c.Opener, opts...)
}

// Close releases the journal
func (c *Context) Close() {
	if c.Journal == nil {
		return
	}
	if err := c.Journal.Close(); err != nil {
		logger.Warn("Failed to close journal", "error", err)
	}
}

// loadSlots selects date on w and applies the backend's booked times. A failed
// lookup is logged and returned, and the widget falls back to the full catalogue.
func (c *Context) loadSlots(ctx context.Context, w *booking.Widget, date string) (lookupErr error, err error) {
	seq, err := w.SelectDate(date)
	if err != nil {
		return nil, fmt.Errorf("cannot book %s: %w", date, err)
	}
	slots, lookupErr := c.Client.FetchBookedSlots(ctx, date)
	w.ApplyBookedSlots(date, seq, slots.Times, lookupErr)
	return lookupErr, nil
}

func printOutcome(w io.Writer, out *booking.Outcome) {
	if out == nil {
		fmt.Fprintln(w, "Booking cancelled.")
		return
	}

	if out.Fallback {
		fmt.Fprintln(w, "⚠ "+out.Message)
		fmt.Fprintln(w)
		fmt.Fprintln(w, fallback.Summary(out.Request))
		fmt.Fprintln(w)
		if out.OpenErr != nil {
			fmt.Fprintln(w, "Open this link to send your request:")
		} else {
			fmt.Fprintln(w, "If your mail client did not open, use this link:")
		}
		fmt.Fprintln(w, "  "+out.MailtoURL)
		return
	}

	fmt.Fprintln(w, "✓ "+out.Message)
	fmt.Fprintf(w, "  %s at %s\n", fallback.FormatAppointmentDate(out.Request.Date), out.Request.Time)
}
