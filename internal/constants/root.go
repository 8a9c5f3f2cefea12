package constants

import "time"

const (
	AppName           = "consultbook"
	Version           = "v0.1.0"
	DefaultJournalDir = "~/.config/consultbook"
	JournalFileName   = "journal.db"

	// DateFormat is the ISO date format used on the wire and in the journal (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format of catalogue slots (HH:MM)
	TimeFormat = "15:04"

	// DateLabelFormat renders a candidate date in the picker, e.g. "Mon 2 Jan"
	DateLabelFormat = "Mon 2 Jan"

	// AppointmentDateFormat renders the appointment date in summaries, e.g. "Monday, 02 January 2006"
	AppointmentDateFormat = "Monday, 02 January 2006"

	// Backend constants
	DefaultBackendURL    = "http://localhost:8001"
	BackendURLEnv        = "CONSULTBOOK_BACKEND_URL"
	AltBackendURLEnv     = "BACKEND_URL"
	BookedSlotsPath      = "/api/booked-slots/"
	SendBookingPath      = "/api/send-booking"
	DefaultFetchTimeout  = 10 * time.Second
	DefaultSubmitTimeout = 15 * time.Second

	// Fallback channel constants
	DefaultFallbackEmail = "appointment@ingcap.co.uk"
	FallbackSubject      = "Consultation Booking Request"

	// Availability constants
	BookingHorizonDays = 30
	DisplayedDates     = 12

	// Messages
	DefaultConfirmation = "Booking request sent successfully! We will contact you shortly to confirm your appointment."
	FallbackNotice      = "We couldn't reach the booking service, so a pre-filled email has been opened instead. Please send it to complete your request."

	// Journal channels
	ChannelAPI    = "api"
	ChannelMailto = "mailto"

	// Journal statuses
	StatusSent          = "sent"
	StatusFallback      = "fallback"
	StatusFallbackError = "fallback_error"
)
