// Package tui renders the booking widget as a bubbletea program.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/consultbook/internal/availability"
	"github.com/julianstephens/consultbook/internal/booking"
	"github.com/julianstephens/consultbook/internal/bookingapi"
)

// SlotFetcher looks up the booked times for a date
type SlotFetcher interface {
	FetchBookedSlots(ctx context.Context, date string) (bookingapi.BookedSlots, error)
}

// BookingSubmitter sends a validated booking request
type BookingSubmitter interface {
	Submit(ctx context.Context, req bookingapi.BookingRequest) (booking.Outcome, error)
}

type focus int

const (
	focusDates focus = iota
	focusSlots
	focusForm
)

type ContactFormModel struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

type dateItem struct {
	date availability.CandidateDate
}

func (i dateItem) Title() string       { return i.date.Label }
func (i dateItem) Description() string { return i.date.ISO }
func (i dateItem) FilterValue() string { return i.date.Label }

type Model struct {
	ctx         context.Context
	widget      *booking.Widget
	fetcher     SlotFetcher
	submitter   BookingSubmitter
	keys        KeyMap
	help        help.Model
	dateList    list.Model
	spinner     spinner.Model
	form        *huh.Form
	contactForm *ContactFormModel
	focus       focus
	slotCursor  int
	outcome     *booking.Outcome
	status      string
	quitting    bool
	width       int
	height      int
}

// NewModel opens w and builds the date picker from its candidate dates
func NewModel(ctx context.Context, w *booking.Widget, fetcher SlotFetcher, submitter BookingSubmitter) Model {
	w.Open()

	delegate := list.NewDefaultDelegate()
	dl := list.New(dateItems(w.DisplayedDates()), delegate, 0, 0)
	dl.Title = "Select a date"
	dl.SetShowHelp(false)
	dl.SetFilteringEnabled(false)
	dl.SetShowStatusBar(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		widget:    w,
		fetcher:   fetcher,
		submitter: submitter,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		dateList:  dl,
		spinner:   sp,
		focus:     focusDates,
	}
}

func dateItems(dates []availability.CandidateDate) []list.Item {
	items := make([]list.Item, len(dates))
	for i, d := range dates {
		items[i] = dateItem{date: d}
	}
	return items
}

// Outcome returns the submission result once the program has finished, or nil
// when the widget was cancelled
func (m Model) Outcome() *booking.Outcome {
	return m.outcome
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// newContactForm builds the required-field contact form
func newContactForm(fm *ContactFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Value(&fm.Name).
				Validate(required("name")),
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(func(s string) error {
					if err := required("email")(s); err != nil {
						return err
					}
					if !strings.Contains(s, "@") {
						return fmt.Errorf("email must contain @")
					}
					return nil
				}),
			huh.NewInput().
				Title("Phone").
				Value(&fm.Phone).
				Validate(required("phone")),
			huh.NewInput().
				Title("Company").
				Description("Optional").
				Value(&fm.Company),
		),
	).WithTheme(huh.ThemeDracula())
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
