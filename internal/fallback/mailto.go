// Package fallback turns a booking request into a pre-filled email draft when
// the booking service cannot be reached.
package fallback

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/consultbook/internal/bookingapi"
	"github.com/julianstephens/consultbook/internal/constants"
)

// FormatAppointmentDate renders an ISO date as "Monday, 19 October 2026".
// Unparseable input is returned unchanged.
func FormatAppointmentDate(iso string) string {
	d, err := time.Parse(constants.DateFormat, iso)
	if err != nil {
		return iso
	}
	return d.Format(constants.AppointmentDateFormat)
}

// Summary builds the human-readable plaintext body of the fallback email
func Summary(req bookingapi.BookingRequest) string {
	company := req.Company
	if strings.TrimSpace(company) == "" {
		company = "Not specified"
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("I would like to book an investment consultation.\n\n")
	b.WriteString("Client details:\n")
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	fmt.Fprintf(&b, "Company: %s\n\n", company)
	b.WriteString("Requested appointment:\n")
	fmt.Fprintf(&b, "Date: %s\n", FormatAppointmentDate(req.Date))
	fmt.Fprintf(&b, "Time: %s\n\n", req.Time)
	b.WriteString("Please confirm this appointment or suggest an alternative time.\n\n")
	fmt.Fprintf(&b, "Kind regards,\n%s\n", req.Name)
	return b.String()
}

// Subject returns the fallback email subject line
func Subject(req bookingapi.BookingRequest) string {
	return fmt.Sprintf("%s - %s", constants.FallbackSubject, req.Name)
}

// MailtoURL builds a mailto: link addressed to `to` with the booking summary as body
func MailtoURL(to string, req bookingapi.BookingRequest) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		to, escape(Subject(req)), escape(Summary(req)))
}

// escape percent-encodes s for a mailto query; spaces become %20 since mail
// clients do not decode '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
