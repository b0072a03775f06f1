package repro

import "time"

// Event is one reproductive or medical event for a cow. Exactly one of the
// variant pointers is set, matching Type. Events are immutable once
// appended; corrections are new events.
type Event struct {
	ID     string
	FarmID string
	CowID  string

	Type       EventType
	OccurredAt time.Time
	RecordedAt time.Time

	Status       EventStatus
	RejectReason string

	Heat         *HeatDetail
	Insemination *InseminationDetail
	Pregnancy    *PregnancyDetail
	Calving      *CalvingDetail
	Medical      *MedicalDetail
}

type HeatDetail struct {
	Signs string
}

type InseminationDetail struct {
	BullID string
	Count  int
}

type PregnancyDetail struct {
	DaysUntilCalving      int
	ServicesPerConception int
}

type CalvingDetail struct {
	CalfSex string
}

type MedicalDetail struct {
	ReportedBy          Reporter
	SicknessDescription string
	Diagnosis           string
	Treatment           string
	Notes               string
	IsCowSick           bool
}

// detail returns the variant pointer that should be set for the type, as a
// presence check during validation.
func (e Event) detail() any {
	switch e.Type {
	case EventHeatSign:
		if e.Heat == nil {
			return nil
		}
		return e.Heat
	case EventInsemination:
		if e.Insemination == nil {
			return nil
		}
		return e.Insemination
	case EventPregnancyConfirmation:
		if e.Pregnancy == nil {
			return nil
		}
		return e.Pregnancy
	case EventCalving:
		if e.Calving == nil {
			return nil
		}
		return e.Calving
	case EventMedicalAssessment:
		if e.Medical == nil {
			return nil
		}
		return e.Medical
	}
	return nil
}
