package constants

// WidgetPhase represents where the booking widget is in its lifecycle
type WidgetPhase int

// SlotsState describes what the slot list should present for the selected date
type SlotsState int

const (
	PhaseClosed WidgetPhase = iota
	PhaseNoDate
	PhaseLoadingSlots
	PhaseSlotsReady
	PhaseTimeSelected
	PhaseReadyToSubmit
	PhaseSubmitting
)

const (
	// SlotsNone means no date has been selected yet
	SlotsNone SlotsState = iota
	SlotsLoading
	SlotsEmpty
	SlotsAvailable
)

func (p WidgetPhase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseNoDate:
		return "open(no-date)"
	case PhaseLoadingSlots:
		return "open(date-selected,loading-slots)"
	case PhaseSlotsReady:
		return "open(date-selected,slots-ready)"
	case PhaseTimeSelected:
		return "open(time-selected)"
	case PhaseReadyToSubmit:
		return "open(ready-to-submit)"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}
