package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/consultbook/internal/booking"
	"github.com/julianstephens/consultbook/internal/constants"
)

const slotColumns = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dateList.SetSize(msg.Width/3, max(msg.Height-8, 8))
		return m, nil

	case spinner.TickMsg:
		if !m.widget.Loading() && !m.widget.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case bookedSlotsMsg:
		return m.handleBookedSlots(msg)

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusForm && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleBookedSlots(msg bookedSlotsMsg) (tea.Model, tea.Cmd) {
	if !m.widget.ApplyBookedSlots(msg.date, msg.seq, msg.times, msg.err) {
		return m, nil
	}
	m.slotCursor = 0
	if m.widget.SlotsState() == constants.SlotsAvailable {
		m.focus = focusSlots
	}
	return m, nil
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.widget.AbortSubmit(msg.err)
		m.status = msg.err.Error()
		return m.openForm()
	}
	m.widget.FinishSubmit(msg.outcome)
	out := msg.outcome
	m.outcome = &out
	m.quitting = true
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.widget.Submitting() {
		return m, nil
	}

	if m.focus == focusForm {
		if key.Matches(msg, m.keys.Back) {
			m.form = nil
			m.focus = focusSlots
			return m, nil
		}
		return m.updateForm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.widget.Close()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		if err := m.widget.Reset(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.focus = focusDates
		m.slotCursor = 0
		m.status = ""
		return m, nil
	}

	if m.focus == focusSlots {
		return m.updateSlots(msg)
	}
	return m.updateDates(msg)
}

func (m Model) updateDates(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.widget.Close()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter):
		item, ok := m.dateList.SelectedItem().(dateItem)
		if !ok {
			return m, nil
		}
		return m.selectDate(item.date.ISO)
	case key.Matches(msg, m.keys.Right):
		if m.widget.SlotsState() == constants.SlotsAvailable {
			m.focus = focusSlots
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.dateList, cmd = m.dateList.Update(msg)
	return m, cmd
}

func (m Model) selectDate(date string) (Model, tea.Cmd) {
	seq, err := m.widget.SelectDate(date)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.slotCursor = 0
	return m, tea.Batch(m.fetchSlotsCmd(date, seq), m.spinner.Tick)
}

func (m Model) updateSlots(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slots := m.widget.AvailableSlots()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = focusDates
	case key.Matches(msg, m.keys.Left):
		if m.slotCursor > 0 {
			m.slotCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.slotCursor < len(slots)-1 {
			m.slotCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.slotCursor-slotColumns >= 0 {
			m.slotCursor -= slotColumns
		}
	case key.Matches(msg, m.keys.Down):
		if m.slotCursor+slotColumns < len(slots) {
			m.slotCursor += slotColumns
		}
	case key.Matches(msg, m.keys.Enter):
		if m.slotCursor >= len(slots) {
			return m, nil
		}
		if err := m.widget.SelectTime(slots[m.slotCursor]); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		return m.openForm()
	}
	return m, nil
}

// openForm shows the contact form, prefilled with whatever the widget holds
func (m Model) openForm() (Model, tea.Cmd) {
	c := m.widget.Contact()
	m.contactForm = &ContactFormModel{Name: c.Name, Email: c.Email, Phone: c.Phone, Company: c.Company}
	m.form = newContactForm(m.contactForm)
	m.focus = focusForm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.submitContact(booking.Contact{
			Name:    m.contactForm.Name,
			Email:   m.contactForm.Email,
			Phone:   m.contactForm.Phone,
			Company: m.contactForm.Company,
		})
	case huh.StateAborted:
		m.form = nil
		m.focus = focusSlots
		return m, nil
	}
	return m, cmd
}

// submitContact stores the contact details and starts the submission
func (m Model) submitContact(c booking.Contact) (Model, tea.Cmd) {
	if err := m.widget.SetContact(c); err != nil {
		m.status = err.Error()
		return m, nil
	}
	req, err := m.widget.BeginSubmit()
	if err != nil {
		m.status = err.Error()
		return m.openForm()
	}
	m.status = ""
	m.form = nil
	return m, tea.Batch(m.submitCmd(req), m.spinner.Tick)
}
