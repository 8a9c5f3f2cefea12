package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/consultbook/internal/bookingapi"
	"github.com/julianstephens/consultbook/internal/constants"
	"github.com/julianstephens/consultbook/internal/fallback"
	"github.com/julianstephens/consultbook/internal/journal"
	"github.com/julianstephens/consultbook/internal/logger"
)

// Sender posts booking requests to the booking service
type Sender interface {
	SendBooking(ctx context.Context, req bookingapi.BookingRequest) (bookingapi.BookingResponse, error)
}

// Recorder keeps a trail of submission attempts
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// Outcome describes how a submission ended
type Outcome struct {
	Request bookingapi.BookingRequest
	Channel string
	Message string
	// Fallback is set when the booking service failed and the mail draft was used
	Fallback bool
	// Deferred is set when the service accepted the request but could not deliver
	// it onward and will follow up manually
	Deferred  bool
	MailtoURL string
	SendErr   error
	OpenErr   error
}

// Validate checks the required booking fields; company is optional
func Validate(req bookingapi.BookingRequest) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"date", req.Date},
		{"time", req.Time},
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Submitter sends a booking and degrades to an email draft on failure
type Submitter struct {
	sender        Sender
	opener        fallback.Opener
	recorder      Recorder
	fallbackEmail string
	now           func() time.Time
}

// SubmitterOption configures a Submitter
type SubmitterOption func(*Submitter)

// WithRecorder journals every attempt
func WithRecorder(r Recorder) SubmitterOption {
	return func(s *Submitter) {
		s.recorder = r
	}
}

// WithFallbackEmail sets the address the email draft is sent to
func WithFallbackEmail(addr string) SubmitterOption {
	return func(s *Submitter) {
		s.fallbackEmail = addr
	}
}

// NewSubmitter creates a Submitter
func NewSubmitter(sender Sender, opener fallback.Opener, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		sender:        sender,
		opener:        opener,
		fallbackEmail: constants.DefaultFallbackEmail,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates req and sends it once. Validation failures return an error
// and nothing is sent. Any send failure is recovered by opening a pre-filled
// email draft; it is reported in the Outcome, not as an error.
func (s *Submitter) Submit(ctx context.Context, req bookingapi.BookingRequest) (Outcome, error) {
	if err := Validate(req); err != nil {
		return Outcome{}, err
	}

	resp, err := s.sender.SendBooking(ctx, req)
	var out Outcome
	if err == nil {
		out = s.succeeded(req, resp)
	} else {
		out = s.fellBack(req, err)
	}

	s.record(ctx, out)
	return out, nil
}

func (s *Submitter) succeeded(req bookingapi.BookingRequest, resp bookingapi.BookingResponse) Outcome {
	msg := strings.TrimSpace(resp.Message)
	if msg == "" {
		msg = constants.DefaultConfirmation
	}
	logger.Info("Booking request sent", "date", req.Date, "time", req.Time, "deferred", resp.Fallback)
	return Outcome{
		Request:  req,
		Channel:  constants.ChannelAPI,
		Message:  msg,
		Deferred: resp.Fallback,
	}
}

func (s *Submitter) fellBack(req bookingapi.BookingRequest, sendErr error) Outcome {
	logger.Warn("Booking request failed, falling back to email draft", "date", req.Date, "time", req.Time, "error", sendErr)

	link := fallback.MailtoURL(s.fallbackEmail, req)
	out := Outcome{
		Request:   req,
		Channel:   constants.ChannelMailto,
		Message:   constants.FallbackNotice,
		Fallback:  true,
		MailtoURL: link,
		SendErr:   sendErr,
	}
	if s.opener == nil {
		return out
	}
	if err := s.opener.Open(link); err != nil {
		logger.Error("Failed to open email draft", "error", err)
		out.OpenErr = err
		out.Message = "We couldn't reach the booking service or open your mail client. Please email " +
			s.fallbackEmail + " using the link below to complete your request."
	}
	return out
}

func (s *Submitter) record(ctx context.Context, out Outcome) {
	if s.recorder == nil {
		return
	}

	status := constants.StatusSent
	switch {
	case out.Fallback && out.OpenErr != nil:
		status = constants.StatusFallbackError
	case out.Fallback:
		status = constants.StatusFallback
	}
	detail := out.Message
	if out.SendErr != nil {
		detail = out.SendErr.Error()
	}

	entry := journal.Entry{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
		Request:   out.Request,
		Channel:   out.Channel,
		Status:    status,
		Detail:    detail,
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		logger.Warn("Failed to journal booking attempt", "error", err)
	}
}
