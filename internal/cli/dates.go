package cli

import (
	"fmt"

	"github.com/julianstephens/consultbook/internal/availability"
	"github.com/julianstephens/consultbook/internal/constants"
)

type DatesCmd struct {
	All bool `help:"Show every bookable date in the window, not just the first few."`
}

func (c *DatesCmd) Run(ctx *Context) error {
	dates := ctx.Calendar.GenerateAvailableDates(ctx.Today())
	if !c.All {
		dates = availability.Limit(dates, constants.DisplayedDates)
	}

	w := ctx.out()
	if len(dates) == 0 {
		fmt.Fprintf(w, "No dates available in the next %d days\n", constants.BookingHorizonDays)
		return nil
	}

	fmt.Fprintln(w, "Available dates:")
	for _, d := range dates {
		fmt.Fprintf(w, "  %s  %s\n", d.ISO, d.Label)
	}
	return nil
}
