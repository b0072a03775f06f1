package cows

import "time"

// Phase is the reproductive cycle position of a cow. It is mutated only by
// the event processor; everything else reads it.
// @Enum open, heat_detected, inseminated, pregnancy_confirmed, calved
type Phase string

const (
	PhaseOpen               Phase = "open"
	PhaseHeatDetected       Phase = "heat_detected"
	PhaseInseminated        Phase = "inseminated"
	PhasePregnancyConfirmed Phase = "pregnancy_confirmed"
	PhaseCalved             Phase = "calved"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseOpen, PhaseHeatDetected, PhaseInseminated, PhasePregnancyConfirmed, PhaseCalved:
		return true
	}
	return false
}

// Sex of the animal.
// @Enum female, male
type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
)

// Cow is the herd record plus the reproductive state the event processor
// maintains. ID is the farmer's ear-tag, unique within a farm.
type Cow struct {
	FarmID string
	ID     string

	Breed     string
	Sex       Sex
	BirthDate *time.Time

	LactationNumber int
	DaysInMilk      int

	Phase                Phase
	Pregnant             bool
	LastHeatAt           *time.Time
	LastInseminationAt   *time.Time
	PregnancyConfirmedAt *time.Time
	LastCalvingAt        *time.Time
	ExpectedCalvingAt    *time.Time
	InseminationAttempts int
	LastBullID           string

	// Version is the optimistic concurrency token. Every Save checks it and
	// bumps it; a mismatch means a concurrent writer won.
	Version int64

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
