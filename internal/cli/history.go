package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/consultbook/internal/constants"
)

type HistoryCmd struct {
	Limit int `help:"Maximum number of entries to show (0 for all)." default:"20"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	entries, err := ctx.Journal.List(context.Background(), c.Limit)
	if err != nil {
		return err
	}

	w := ctx.out()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No booking attempts recorded")
		return nil
	}

	fmt.Fprintln(w, "Booking attempts:")
	loc := ctx.Config.Location()
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  [%s/%s] %s at %s for %s <%s>\n",
			e.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			e.Channel, e.Status,
			e.Request.Date, e.Request.Time,
			e.Request.Name, e.Request.Email)
		if e.Detail != "" && e.Status != constants.StatusSent {
			fmt.Fprintf(w, "      %s\n", e.Detail)
		}
	}
	return nil
}
