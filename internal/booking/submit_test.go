package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julianstephens/consultbook/internal/bookingapi"
	"github.com/julianstephens/consultbook/internal/constants"
	"github.com/julianstephens/consultbook/internal/fallback"
	"github.com/julianstephens/consultbook/internal/journal"
)

type fakeSender struct {
	calls int
	resp  bookingapi.BookingResponse
	err   error
}

func (f *fakeSender) SendBooking(ctx context.Context, req bookingapi.BookingRequest) (bookingapi.BookingResponse, error) {
	f.calls++
	return f.resp, f.err
}

type fakeRecorder struct {
	entries []journal.Entry
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, e journal.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func recordingOpener(opened *[]string, err error) fallback.Opener {
	return fallback.OpenerFunc(func(u string) error {
		*opened = append(*opened, u)
		return err
	})
}

var validRequest = bookingapi.BookingRequest{
	Name:  "Ada Lovelace",
	Email: "ada@example.com",
	Phone: "020 7946 0000",
	Date:  "2025-01-14",
	Time:  "09:30",
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *bookingapi.BookingRequest)
		missing []string
	}{
		{name: "complete", mutate: func(r *bookingapi.BookingRequest) {}},
		{name: "company optional", mutate: func(r *bookingapi.BookingRequest) { r.Company = "" }},
		{name: "missing phone", mutate: func(r *bookingapi.BookingRequest) { r.Phone = "" }, missing: []string{"phone"}},
		{name: "blank name", mutate: func(r *bookingapi.BookingRequest) { r.Name = "   " }, missing: []string{"name"}},
		{
			name:    "no slot",
			mutate:  func(r *bookingapi.BookingRequest) { r.Date, r.Time = "", "" },
			missing: []string{"date", "time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest
			tt.mutate(&req)
			err := Validate(req)
			if tt.missing == nil {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if strings.Join(ve.Missing, ",") != strings.Join(tt.missing, ",") {
				t.Errorf("missing = %v, want %v", ve.Missing, tt.missing)
			}
		})
	}
}

func TestSubmitMissingFieldSendsNothing(t *testing.T) {
	sender := &fakeSender{}
	rec := &fakeRecorder{}
	var opened []string
	s := NewSubmitter(sender, recordingOpener(&opened, nil), WithRecorder(rec))

	req := validRequest
	req.Phone = ""
	if _, err := s.Submit(context.Background(), req); err == nil {
		t.Fatal("expected validation error")
	}
	if sender.calls != 0 {
		t.Errorf("expected no POST, got %d", sender.calls)
	}
	if len(opened) != 0 || len(rec.entries) != 0 {
		t.Error("validation failure must not fall back or journal")
	}
}

func TestSubmitSuccess(t *testing.T) {
	tests := []struct {
		name string
		resp bookingapi.BookingResponse
		want string
	}{
		{name: "server message", resp: bookingapi.BookingResponse{Success: true, Message: "See you soon"}, want: "See you soon"},
		{name: "generic confirmation", resp: bookingapi.BookingResponse{Success: true}, want: constants.DefaultConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{resp: tt.resp}
			rec := &fakeRecorder{}
			var opened []string
			s := NewSubmitter(sender, recordingOpener(&opened, nil), WithRecorder(rec))

			out, err := s.Submit(context.Background(), validRequest)
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if out.Message != tt.want || out.Fallback || out.Channel != constants.ChannelAPI {
				t.Errorf("unexpected outcome %+v", out)
			}
			if sender.calls != 1 {
				t.Errorf("expected exactly one POST, got %d", sender.calls)
			}
			if len(opened) != 0 {
				t.Error("mail draft opened on success")
			}
			if len(rec.entries) != 1 || rec.entries[0].Status != constants.StatusSent {
				t.Errorf("unexpected journal entries %+v", rec.entries)
			}
		})
	}
}

func TestSubmitDeferredByServer(t *testing.T) {
	sender := &fakeSender{resp: bookingapi.BookingResponse{Success: true, Fallback: true, Message: "Saved"}}
	s := NewSubmitter(sender, nil)

	out, err := s.Submit(context.Background(), validRequest)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !out.Deferred || out.Fallback {
		t.Errorf("expected deferred, non-fallback outcome, got %+v", out)
	}
}

func TestSubmitFallbackOnNetworkError(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: connection refused")}
	rec := &fakeRecorder{}
	var opened []string
	s := NewSubmitter(sender, recordingOpener(&opened, nil),
		WithRecorder(rec), WithFallbackEmail("bookings@example.com"))

	out, err := s.Submit(context.Background(), validRequest)
	if err != nil {
		t.Fatalf("fallback must not surface as an error: %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("expected no retry, got %d calls", sender.calls)
	}
	if !out.Fallback || out.Channel != constants.ChannelMailto || out.Message != constants.FallbackNotice {
		t.Errorf("unexpected outcome %+v", out)
	}
	if len(opened) != 1 || opened[0] != out.MailtoURL {
		t.Fatalf("expected the mail draft to be opened once, got %v", opened)
	}

	u, err := url.Parse(opened[0])
	if err != nil {
		t.Fatalf("bad mailto: %v", err)
	}
	if u.Scheme != "mailto" || u.Opaque != "bookings@example.com" {
		t.Errorf("unexpected recipient in %s", opened[0])
	}
	body := u.Query().Get("body")
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "020 7946 0000", "Tuesday, 14 January 2025", "09:30"} {
		if !strings.Contains(body, want) {
			t.Errorf("mail body missing %q", want)
		}
	}

	if len(rec.entries) != 1 || rec.entries[0].Status != constants.StatusFallback {
		t.Errorf("unexpected journal entries %+v", rec.entries)
	}
}

func TestSubmitFallbackOpenerFails(t *testing.T) {
	sender := &fakeSender{err: &bookingapi.StatusError{Op: "send booking", StatusCode: 500}}
	rec := &fakeRecorder{}
	var opened []string
	s := NewSubmitter(sender, recordingOpener(&opened, errors.New("no handler")), WithRecorder(rec))

	out, err := s.Submit(context.Background(), validRequest)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if out.OpenErr == nil || out.MailtoURL == "" {
		t.Errorf("expected opener error and link for manual use, got %+v", out)
	}
	if !strings.Contains(out.Message, constants.DefaultFallbackEmail) {
		t.Errorf("message should name the fallback address: %q", out.Message)
	}
	if rec.entries[0].Status != constants.StatusFallbackError {
		t.Errorf("expected fallback_error status, got %s", rec.entries[0].Status)
	}
}

func TestSubmitJournalFailureDoesNotChangeOutcome(t *testing.T) {
	sender := &fakeSender{resp: bookingapi.BookingResponse{Success: true}}
	rec := &fakeRecorder{err: errors.New("disk full")}
	s := NewSubmitter(sender, nil, WithRecorder(rec))

	out, err := s.Submit(context.Background(), validRequest)
	if err != nil || out.Fallback {
		t.Errorf("journal failure leaked into outcome: %+v, %v", out, err)
	}
}

func TestSubmitAgainstHTTPBackend(t *testing.T) {
	var posts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&posts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := bookingapi.NewClient(srv.URL, bookingapi.WithSubmitTimeout(time.Second))
	var opened []string
	s := NewSubmitter(client, recordingOpener(&opened, nil))

	w := newTestWidget(t)
	seq, _ := w.SelectDate("2025-01-14")
	w.ApplyBookedSlots("2025-01-14", seq, nil, nil)
	w.SelectTime("09:30")
	w.SetContact(readyContact())

	req, err := w.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}
	out, err := s.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	w.FinishSubmit(out)

	if atomic.LoadInt32(&posts) != 1 {
		t.Errorf("expected one POST, got %d", posts)
	}
	if !out.Fallback || len(opened) != 1 {
		t.Errorf("expected mailto fallback, got %+v", out)
	}
	if w.IsOpen() || w.SelectedDate() != "" || w.Contact() != (Contact{}) {
		t.Error("widget not cleared and closed after fallback")
	}
	if w.Message() != constants.FallbackNotice {
		t.Errorf("unexpected message %q", w.Message())
	}
}
