package repro

import "errors"

// EventType is the closed set of reproductive and medical events. The
// processor matches exhaustively over it; adding a type means touching the
// transition switch.
// @Enum HEAT_SIGN, INSEMINATION, PREGNANCY_CONFIRMATION, CALVING, MEDICAL_ASSESSMENT
type EventType string

const (
	EventHeatSign              EventType = "HEAT_SIGN"
	EventInsemination          EventType = "INSEMINATION"
	EventPregnancyConfirmation EventType = "PREGNANCY_CONFIRMATION"
	EventCalving               EventType = "CALVING"
	EventMedicalAssessment     EventType = "MEDICAL_ASSESSMENT"
)

func (t EventType) Valid() bool {
	switch t {
	case EventHeatSign, EventInsemination, EventPregnancyConfirmation, EventCalving, EventMedicalAssessment:
		return true
	}
	return false
}

// EventStatus marks whether the processor accepted the event. Rejected
// events stay in the trail with the reason attached.
type EventStatus string

const (
	StatusRecorded EventStatus = "recorded"
	StatusRejected EventStatus = "rejected"
)

// Reporter says who filed a medical assessment.
type Reporter string

const (
	ReporterFarmer Reporter = "farmer"
	ReporterDoctor Reporter = "doctor"
)

var (
	// ErrIllegalTransition: the event is not legal from the cow's current
	// phase. The event is still appended as rejected; the phase is unchanged.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrPreconditionFailed: a required role assignment or cow condition is
	// missing (no inseminator, no doctor, inactive cow). No state mutation.
	ErrPreconditionFailed = errors.New("precondition failed")

	ErrInvalidInput = errors.New("invalid input")

	// ErrSweepRunning: an overdue sweep is already in flight; the new run is
	// skipped, not queued.
	ErrSweepRunning = errors.New("sweep already running")
)
