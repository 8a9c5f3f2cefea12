package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClosed          = errors.New("booking widget is closed")
	ErrDateBlocked     = errors.New("no appointments are offered on this date")
	ErrDateNotOffered  = errors.New("date is not one of the offered dates")
	ErrNoDate          = errors.New("select a date first")
	ErrSlotsLoading    = errors.New("available times are still loading")
	ErrSlotUnavailable = errors.New("time is not available on the selected date")
	ErrSubmitInFlight  = errors.New("a booking request is already being sent")
)

// ValidationError lists the required booking fields that are missing
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill in all required fields: %s", strings.Join(e.Missing, ", "))
}
