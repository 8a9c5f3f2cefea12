package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/consultbook/internal/booking"
)

type SubmitCmd struct {
	Name    string `help:"Full name." required:""`
	Email   string `help:"Email address." required:""`
	Phone   string `help:"Phone number." required:""`
	Company string `help:"Company name."`
	Date    string `help:"Appointment date (YYYY-MM-DD)." required:""`
	Time    string `help:"Appointment time (HH:MM)." required:""`
}

// Run books without the TUI. The request goes through the same widget rules,
// so blocked dates and booked times are rejected before anything is sent.
func (c *SubmitCmd) Run(ctx *Context) error {
	bg := context.Background()
	w := ctx.NewWidget()
	w.Open()
	defer w.Close()

	if _, err := ctx.loadSlots(bg, w, c.Date); err != nil {
		return err
	}
	if err := w.SelectTime(c.Time); err != nil {
		return fmt.Errorf("cannot book %s at %s: %w", c.Date, c.Time, err)
	}
	if err := w.SetContact(booking.Contact{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
	}); err != nil {
		return err
	}

	req, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	out, err := ctx.NewSubmitter().Submit(bg, req)
	if err != nil {
		w.AbortSubmit(err)
		return err
	}
	w.FinishSubmit(out)

	printOutcome(ctx.out(), &out)
	return nil
}
