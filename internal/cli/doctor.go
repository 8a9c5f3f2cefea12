package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/consultbook/internal/constants"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	w := ctx.out()
	fmt.Fprintln(w, "Running diagnostics...")
	fmt.Fprintln(w)

	hasError := false
	journalOpen := false

	// Check 1: configuration
	cfg := ctx.Config
	fmt.Fprintf(w, "✓ Configuration: OK\n")
	fmt.Fprintf(w, "   Backend: %s\n", cfg.BackendURL)
	fmt.Fprintf(w, "   Fallback email: %s\n", cfg.FallbackEmail)
	fmt.Fprintf(w, "   Timezone: %s\n", cfg.Location())
	fmt.Fprintf(w, "   Timeouts: fetch %s, submit %s\n", cfg.FetchTimeout, cfg.SubmitTimeout)

	// Check 2: backend reachable (warning only, submissions fall back to email)
	if err := checkBackend(ctx); err != nil {
		fmt.Fprintf(w, "⚠ Booking service reachable: WARNING\n")
		fmt.Fprintf(w, "   %v\n", err)
		fmt.Fprintf(w, "   Bookings will fall back to email (%s)\n", cfg.FallbackEmail)
	} else {
		fmt.Fprintf(w, "✓ Booking service reachable: OK\n")
	}

	// Check 3: journal reachable
	if err := ctx.Journal.Open(); err != nil {
		report(w, "Journal reachable", err)
		hasError = true
	} else {
		fmt.Fprintf(w, "✓ Journal reachable: OK (%s)\n", ctx.Journal.Path())
		journalOpen = true
	}

	// Check 4: journal schema (only if the journal opened)
	if journalOpen {
		if err := checkJournalSchema(ctx); err != nil {
			report(w, "Journal schema", err)
			hasError = true
		} else {
			fmt.Fprintf(w, "✓ Journal schema: OK\n")
		}
	} else {
		fmt.Fprintf(w, "⊘ Journal schema: SKIPPED (journal not reachable)\n")
	}

	// Check 5: bookable dates in the window (warning only)
	if dates := ctx.Calendar.GenerateAvailableDates(ctx.Today()); len(dates) == 0 {
		fmt.Fprintf(w, "⚠ Bookable dates: WARNING\n")
		fmt.Fprintf(w, "   no dates available in the next %d days\n", constants.BookingHorizonDays)
	} else {
		fmt.Fprintf(w, "✓ Bookable dates: OK (%d in the next %d days)\n", len(dates), constants.BookingHorizonDays)
	}

	// Check 6: clock sanity
	if err := checkClock(ctx.Today()); err != nil {
		report(w, "Clock", err)
		hasError = true
	} else {
		fmt.Fprintf(w, "✓ Clock: OK\n")
	}

	fmt.Fprintln(w)
	if hasError {
		fmt.Fprintln(w, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(w, "All diagnostics passed!")
	return nil
}

func report(w io.Writer, check string, err error) {
	fmt.Fprintf(w, "❌ %s: FAIL\n", check)
	fmt.Fprintf(w, "   Error: %v\n", err)
}

func checkBackend(ctx *Context) error {
	c, cancel := context.WithTimeout(context.Background(), ctx.Config.FetchTimeout)
	defer cancel()
	if err := ctx.Client.Ping(c); err != nil {
		return fmt.Errorf("failed to reach %s: %w", ctx.Client.BaseURL(), err)
	}
	return nil
}

func checkJournalSchema(ctx *Context) error {
	pending, err := ctx.Journal.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("migrations incomplete: %d pending", pending)
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
