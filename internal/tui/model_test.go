package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/consultbook/internal/availability"
	"github.com/julianstephens/consultbook/internal/booking"
	"github.com/julianstephens/consultbook/internal/bookingapi"
	"github.com/julianstephens/consultbook/internal/constants"
)

var testToday = time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC) // Monday

type fakeFetcher struct {
	booked map[string][]string
	err    error
	calls  []string
}

func (f *fakeFetcher) FetchBookedSlots(_ context.Context, date string) (bookingapi.BookedSlots, error) {
	f.calls = append(f.calls, date)
	if f.err != nil {
		return bookingapi.BookedSlots{}, f.err
	}
	return bookingapi.BookedSlots{Date: date, Times: f.booked[date]}, nil
}

type fakeSubmitter struct {
	reqs []bookingapi.BookingRequest
	out  booking.Outcome
	err  error
}

func (f *fakeSubmitter) Submit(_ context.Context, req bookingapi.BookingRequest) (booking.Outcome, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return booking.Outcome{}, f.err
	}
	out := f.out
	out.Request = req
	return out, nil
}

func newTestModel(t *testing.T, fetcher *fakeFetcher, submitter *fakeSubmitter) Model {
	t.Helper()
	cal := availability.New([]string{"2025-01-15"})
	w := booking.NewWidget(cal, booking.WithClock(func() time.Time { return testToday }))
	m := NewModel(context.Background(), w, fetcher, submitter)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// collect runs cmd and flattens any batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findBookedSlots(t *testing.T, cmd tea.Cmd) bookedSlotsMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if bs, ok := msg.(bookedSlotsMsg); ok {
			return bs
		}
	}
	t.Fatal("command produced no booked slots message")
	return bookedSlotsMsg{}
}

func findSubmitResult(t *testing.T, cmd tea.Cmd) submitResultMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if res, ok := msg.(submitResultMsg); ok {
			return res
		}
	}
	t.Fatal("command produced no submit result message")
	return submitResultMsg{}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestNewModelOpensWidget(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, &fakeSubmitter{})

	if !m.widget.IsOpen() {
		t.Fatal("expected widget to be open")
	}
	items := m.dateList.Items()
	if len(items) != constants.DisplayedDates {
		t.Fatalf("expected %d dates, got %d", constants.DisplayedDates, len(items))
	}
	first := items[0].(dateItem)
	if first.date.ISO != "2025-01-14" {
		t.Errorf("expected first date 2025-01-14, got %s", first.date.ISO)
	}
	for _, it := range items {
		if it.(dateItem).date.ISO == "2025-01-15" {
			t.Error("blocked date offered in the picker")
		}
	}
}

func TestSelectDateFetchesAndShowsSlots(t *testing.T) {
	fetcher := &fakeFetcher{booked: map[string][]string{"2025-01-14": {"09:00", "14:00"}}}
	m := newTestModel(t, fetcher, &fakeSubmitter{})

	m, cmd := update(t, m, enterKey)
	if !m.widget.Loading() || m.widget.SelectedDate() != "2025-01-14" {
		t.Fatalf("expected loading 2025-01-14, got phase %s", m.widget.Phase())
	}
	if m.View() == "" {
		t.Error("expected a rendered view while loading")
	}

	msg := findBookedSlots(t, cmd)
	if len(fetcher.calls) != 1 || fetcher.calls[0] != "2025-01-14" {
		t.Fatalf("unexpected fetch calls: %v", fetcher.calls)
	}

	m, _ = update(t, m, msg)
	if m.focus != focusSlots {
		t.Errorf("expected slot focus, got %d", m.focus)
	}
	slots := m.widget.AvailableSlots()
	if len(slots) != len(availability.Catalogue())-2 {
		t.Fatalf("expected booked times removed, got %v", slots)
	}
	for _, s := range slots {
		if s == "09:00" || s == "14:00" {
			t.Errorf("booked slot %s still offered", s)
		}
	}
}

func TestStaleBookedSlotsIgnored(t *testing.T) {
	fetcher := &fakeFetcher{booked: map[string][]string{"2025-01-14": {"09:00"}}}
	m := newTestModel(t, fetcher, &fakeSubmitter{})

	m, first := update(t, m, enterKey)
	stale := findBookedSlots(t, first)

	// choose a different date before the first lookup returns
	m, _ = update(t, m, downKey)
	m, second := update(t, m, enterKey)
	fresh := findBookedSlots(t, second)
	if fresh.date == stale.date {
		t.Fatalf("expected a different date, both were %s", fresh.date)
	}

	m, _ = update(t, m, stale)
	if !m.widget.Loading() {
		t.Fatal("stale response was applied")
	}
	m, _ = update(t, m, fresh)
	if m.widget.Loading() || m.widget.SelectedDate() != fresh.date {
		t.Fatalf("fresh response not applied, phase %s", m.widget.Phase())
	}
}

func TestLookupFailureOffersFullCatalogue(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{err: errors.New("connection refused")}, &fakeSubmitter{})

	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, findBookedSlots(t, cmd))

	if got := len(m.widget.AvailableSlots()); got != len(availability.Catalogue()) {
		t.Errorf("expected full catalogue, got %d slots", got)
	}
}

func TestFullyBookedDateShowsEmptyState(t *testing.T) {
	fetcher := &fakeFetcher{booked: map[string][]string{"2025-01-14": availability.Catalogue()}}
	m := newTestModel(t, fetcher, &fakeSubmitter{})

	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, findBookedSlots(t, cmd))

	if m.widget.SlotsState() != constants.SlotsEmpty {
		t.Fatalf("expected empty slots state, got %v", m.widget.SlotsState())
	}
	if m.focus != focusDates {
		t.Errorf("expected focus to stay on dates, got %d", m.focus)
	}
}

func selectFirstSlot(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, findBookedSlots(t, cmd))
	m, _ = update(t, m, rightKey)
	m, _ = update(t, m, enterKey)
	return m
}

func TestSelectSlotOpensForm(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, &fakeSubmitter{})
	m = selectFirstSlot(t, m)

	if m.focus != focusForm || m.form == nil {
		t.Fatalf("expected contact form, focus %d", m.focus)
	}
	if got := m.widget.SelectedTime(); got != availability.Catalogue()[1] {
		t.Errorf("expected %s selected, got %s", availability.Catalogue()[1], got)
	}

	m, _ = update(t, m, escKey)
	if m.focus != focusSlots || m.form != nil {
		t.Errorf("expected esc to return to slots, focus %d", m.focus)
	}
}

func TestSubmitContactSuccess(t *testing.T) {
	sub := &fakeSubmitter{out: booking.Outcome{Channel: constants.ChannelAPI, Message: constants.DefaultConfirmation}}
	m := newTestModel(t, &fakeFetcher{}, sub)
	m = selectFirstSlot(t, m)

	m, cmd := m.submitContact(booking.Contact{Name: "Ada", Email: "ada@example.com", Phone: "0123"})
	if !m.widget.Submitting() {
		t.Fatal("expected submission in flight")
	}

	// keys are ignored while the request is in flight
	m, extra := update(t, m, enterKey)
	if extra != nil {
		t.Error("expected no command while submitting")
	}
	m, _ = update(t, m, runeKey("q"))
	if !m.widget.Submitting() {
		t.Error("quit key interrupted the submission")
	}

	res := findSubmitResult(t, cmd)
	if len(sub.reqs) != 1 {
		t.Fatalf("expected one submission, got %d", len(sub.reqs))
	}
	if sub.reqs[0].Date != "2025-01-14" || sub.reqs[0].Name != "Ada" {
		t.Errorf("unexpected request: %+v", sub.reqs[0])
	}

	m, quit := update(t, m, res)
	if quit == nil {
		t.Fatal("expected quit command after submission")
	}
	if m.Outcome() == nil || m.Outcome().Message != constants.DefaultConfirmation {
		t.Fatalf("unexpected outcome: %+v", m.Outcome())
	}
	if m.widget.IsOpen() || m.widget.SelectedDate() != "" {
		t.Error("expected widget closed and cleared")
	}
}

func TestSubmitContactValidation(t *testing.T) {
	sub := &fakeSubmitter{}
	m := newTestModel(t, &fakeFetcher{}, sub)
	m = selectFirstSlot(t, m)

	m, _ = m.submitContact(booking.Contact{Name: "Ada"})
	if m.widget.Submitting() {
		t.Fatal("invalid contact started a submission")
	}
	if m.status == "" || m.focus != focusForm {
		t.Errorf("expected validation message on the form, status %q", m.status)
	}
	if len(sub.reqs) != 0 {
		t.Errorf("expected no submission, got %d", len(sub.reqs))
	}
}

func TestSubmitErrorReopensForm(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("boom")}
	m := newTestModel(t, &fakeFetcher{}, sub)
	m = selectFirstSlot(t, m)

	m, cmd := m.submitContact(booking.Contact{Name: "Ada", Email: "ada@example.com", Phone: "0123"})
	m, _ = update(t, m, findSubmitResult(t, cmd))

	if m.widget.Submitting() {
		t.Error("expected submission to be cleared")
	}
	if m.focus != focusForm || m.contactForm.Name != "Ada" {
		t.Errorf("expected prefilled form, got focus %d", m.focus)
	}
	if m.status != "boom" {
		t.Errorf("expected error status, got %q", m.status)
	}
}

func TestResetAndQuit(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, &fakeSubmitter{})

	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, runeKey("r"))
	if m.widget.Phase() != constants.PhaseNoDate {
		t.Fatalf("expected no-date after reset, got %s", m.widget.Phase())
	}
	// the lookup issued before reset is now stale
	m, _ = update(t, m, findBookedSlots(t, cmd))
	if m.widget.SelectedDate() != "" {
		t.Error("stale lookup selected a date after reset")
	}

	m, quit := update(t, m, runeKey("q"))
	if quit == nil || m.widget.IsOpen() {
		t.Error("expected quit to close the widget")
	}
	if m.Outcome() != nil {
		t.Error("expected no outcome after cancel")
	}
	if m.View() != "" {
		t.Error("expected empty view after quitting")
	}
}
