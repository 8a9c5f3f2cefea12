package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/consultbook/internal/booking"
	"github.com/julianstephens/consultbook/internal/bookingapi"
)

type bookedSlotsMsg struct {
	date  string
	seq   uint64
	times []string
	err   error
}

type submitResultMsg struct {
	outcome booking.Outcome
	err     error
}

func (m Model) fetchSlotsCmd(date string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		slots, err := m.fetcher.FetchBookedSlots(m.ctx, date)
		return bookedSlotsMsg{date: date, seq: seq, times: slots.Times, err: err}
	}
}

func (m Model) submitCmd(req bookingapi.BookingRequest) tea.Cmd {
	return func() tea.Msg {
		out, err := m.submitter.Submit(m.ctx, req)
		return submitResultMsg{outcome: out, err: err}
	}
}
