package repro

import "time"

// Domain constants. Cycle and gestation lengths are herd-level averages;
// the grace periods absorb normal biological variation before a cow is
// flagged overdue.
const (
	EstrusCycle  = 21 * 24 * time.Hour
	HeatGrace    = 3 * 24 * time.Hour
	Gestation    = 280 * 24 * time.Hour
	CalvingGrace = 7 * 24 * time.Hour
)

// ReproTimes is the timestamp view of one cow that the policy functions
// evaluate. Pure data, no repository access.
type ReproTimes struct {
	RegisteredAt time.Time

	Pregnant             bool
	InseminationAttempts int

	LastHeatAt           *time.Time
	LastInseminationAt   *time.Time
	PregnancyConfirmedAt *time.Time
	LastCalvingAt        *time.Time
	ExpectedCalvingAt    *time.Time
}

// heatReference is the moment the heat clock starts: the later of the last
// calving, the last insemination that did not lead to a pregnancy, and the
// farm registration.
func heatReference(t ReproTimes) time.Time {
	ref := t.RegisteredAt
	if t.LastCalvingAt != nil && t.LastCalvingAt.After(ref) {
		ref = *t.LastCalvingAt
	}
	if !t.Pregnant && t.InseminationAttempts > 0 && t.LastInseminationAt != nil && t.LastInseminationAt.After(ref) {
		ref = *t.LastInseminationAt
	}
	return ref
}

// HeatOverdue reports whether the cow should have shown heat by now, and if
// so for how many days the clock has been running. Pregnant cows are never
// heat-overdue, and an observed heat sign after the reference point stops
// the clock.
func HeatOverdue(t ReproTimes, now time.Time) (bool, int) {
	if t.Pregnant {
		return false, 0
	}

	ref := heatReference(t)
	if t.LastHeatAt != nil && t.LastHeatAt.After(ref) {
		return false, 0
	}

	elapsed := now.Sub(ref)
	if elapsed <= EstrusCycle+HeatGrace {
		return false, 0
	}
	return true, int(elapsed / (24 * time.Hour))
}

// dueDate is the expected calving date of an active pregnancy: the explicit
// date when the examiner supplied one, the standard gestation otherwise.
// Zero when the cow is not carrying a confirmed pregnancy.
func dueDate(t ReproTimes) time.Time {
	if !t.Pregnant || t.PregnancyConfirmedAt == nil {
		return time.Time{}
	}
	if t.LastCalvingAt != nil && t.LastCalvingAt.After(*t.PregnancyConfirmedAt) {
		return time.Time{}
	}
	if t.ExpectedCalvingAt != nil {
		return *t.ExpectedCalvingAt
	}
	return t.PregnancyConfirmedAt.Add(Gestation)
}

// CalvingOverdue reports whether a confirmed pregnancy has run past its due
// date plus grace, and by how many days. An explicit expected calving date
// takes precedence over the computed one.
func CalvingOverdue(t ReproTimes, now time.Time) (bool, int) {
	due := dueDate(t)
	if due.IsZero() {
		return false, 0
	}
	if now.Sub(due) <= CalvingGrace {
		return false, 0
	}
	return true, int(now.Sub(due) / (24 * time.Hour))
}

// CalvingMilestone identifies one advance calving reminder window.
type CalvingMilestone string

const (
	MilestoneNone      CalvingMilestone = ""
	MilestoneTwoMonths CalvingMilestone = "two_months"
	MilestoneOneMonth  CalvingMilestone = "one_month"
	MilestoneDue       CalvingMilestone = "due"
)

// UpcomingCalvingMilestone reports which advance reminder applies right now:
// start preparing at about two months out, watch closely at one month, and
// the due window itself, two days either side. The returned count is the
// days left until the due date.
func UpcomingCalvingMilestone(t ReproTimes, now time.Time) (CalvingMilestone, int) {
	due := dueDate(t)
	if due.IsZero() {
		return MilestoneNone, 0
	}

	daysLeft := int(due.Sub(now) / (24 * time.Hour))
	switch {
	case daysLeft >= 58 && daysLeft <= 62:
		return MilestoneTwoMonths, daysLeft
	case daysLeft >= 28 && daysLeft <= 32:
		return MilestoneOneMonth, daysLeft
	case daysLeft >= -2 && daysLeft <= 2:
		return MilestoneDue, daysLeft
	}
	return MilestoneNone, daysLeft
}

// ExpectedCalving computes the due date from a pregnancy confirmation. When
// the examiner supplied a days-until-calving estimate it wins; otherwise
// the standard gestation length applies.
func ExpectedCalving(confirmedAt time.Time, daysUntil int) time.Time {
	if daysUntil > 0 {
		return confirmedAt.Add(time.Duration(daysUntil) * 24 * time.Hour)
	}
	return confirmedAt.Add(Gestation)
}
