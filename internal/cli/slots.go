package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/consultbook/internal/constants"
	"github.com/julianstephens/consultbook/internal/fallback"
)

type SlotsCmd struct {
	Date string `arg:"" help:"Date to check (YYYY-MM-DD)."`
}

func (c *SlotsCmd) Run(ctx *Context) error {
	w := ctx.NewWidget()
	w.Open()
	defer w.Close()

	lookupErr, err := ctx.loadSlots(context.Background(), w, c.Date)
	if err != nil {
		return err
	}

	out := ctx.out()
	fmt.Fprintf(out, "Available times for %s:\n", fallback.FormatAppointmentDate(c.Date))
	if lookupErr != nil {
		fmt.Fprintln(out, "  (could not check existing bookings, showing all times)")
	}

	if w.SlotsState() == constants.SlotsEmpty {
		fmt.Fprintln(out, "  No available slots on this date. Please choose another day.")
		return nil
	}
	for _, slot := range w.AvailableSlots() {
		fmt.Fprintf(out, "  %s\n", slot)
	}
	return nil
}
