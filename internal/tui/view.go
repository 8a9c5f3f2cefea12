package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/consultbook/internal/constants"
	"github.com/julianstephens/consultbook/internal/fallback"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.widget.Submitting():
		content = fmt.Sprintf("%s Sending your booking request...", m.spinner.View())
	case m.focus == focusForm && m.form != nil:
		content = lipgloss.JoinVertical(lipgloss.Left, m.viewSelection(), m.form.View())
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.viewDates(), m.viewSlots())
	}

	parts := []string{titleStyle.Render("Book a consultation"), content}
	if m.status != "" {
		parts = append(parts, warningStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewDates() string {
	style := panelStyle
	if m.focus == focusDates {
		style = focusedPanelStyle
	}
	if len(m.dateList.Items()) == 0 {
		return style.Render(mutedStyle.Render("No dates available in the next month."))
	}
	return style.Render(m.dateList.View())
}

func (m Model) viewSlots() string {
	style := panelStyle
	if m.focus == focusSlots {
		style = focusedPanelStyle
	}

	var body string
	switch m.widget.SlotsState() {
	case constants.SlotsNone:
		body = mutedStyle.Render("Select a date to see available times.")
	case constants.SlotsLoading:
		body = fmt.Sprintf("%s Checking availability...", m.spinner.View())
	case constants.SlotsEmpty:
		body = warningStyle.Render("No available slots on this date. Please choose another day.")
	case constants.SlotsAvailable:
		body = m.viewSlotGrid()
	}

	header := "Available times"
	if d := m.widget.SelectedDate(); d != "" {
		header = fmt.Sprintf("Available times for %s", fallback.FormatAppointmentDate(d))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

func (m Model) viewSlotGrid() string {
	slots := m.widget.AvailableSlots()
	var rows []string
	for start := 0; start < len(slots); start += slotColumns {
		end := min(start+slotColumns, len(slots))
		var cells []string
		for i := start; i < end; i++ {
			if i == m.slotCursor && m.focus == focusSlots {
				cells = append(cells, selectedSlotStyle.Render(slots[i]))
			} else {
				cells = append(cells, slotStyle.Render(slots[i]))
			}
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewSelection() string {
	return summaryStyle.Render(fmt.Sprintf("%s at %s",
		fallback.FormatAppointmentDate(m.widget.SelectedDate()), m.widget.SelectedTime()))
}
