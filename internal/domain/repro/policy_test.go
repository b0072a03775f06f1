package repro

import (
	"testing"
	"time"
)

var policyNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := policyNow.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func TestHeatOverdue_CalvedTwentyFiveDaysAgo(t *testing.T) {
	// 25 days since calving, cycle 21 + grace 3: one day overdue.
	rt := ReproTimes{
		RegisteredAt:  policyNow.Add(-100 * 24 * time.Hour),
		LastCalvingAt: daysAgo(25),
	}

	overdue, days := HeatOverdue(rt, policyNow)
	if !overdue {
		t.Fatalf("expected heat overdue")
	}
	if days != 25 {
		t.Fatalf("expected 25 days on the clock, got %d", days)
	}
}

func TestHeatOverdue_WithinWindow(t *testing.T) {
	rt := ReproTimes{
		RegisteredAt:  policyNow.Add(-100 * 24 * time.Hour),
		LastCalvingAt: daysAgo(20),
	}
	if overdue, _ := HeatOverdue(rt, policyNow); overdue {
		t.Fatalf("20 days since calving is within cycle+grace")
	}
}

func TestHeatOverdue_HeatSignStopsTheClock(t *testing.T) {
	rt := ReproTimes{
		RegisteredAt:  policyNow.Add(-100 * 24 * time.Hour),
		LastCalvingAt: daysAgo(30),
		LastHeatAt:    daysAgo(2),
	}
	if overdue, _ := HeatOverdue(rt, policyNow); overdue {
		t.Fatalf("observed heat after the reference must clear the flag")
	}
}

func TestHeatOverdue_PregnantNever(t *testing.T) {
	rt := ReproTimes{
		RegisteredAt:  policyNow.Add(-400 * 24 * time.Hour),
		Pregnant:      true,
		LastCalvingAt: daysAgo(300),
	}
	if overdue, _ := HeatOverdue(rt, policyNow); overdue {
		t.Fatalf("pregnant cows are never heat-overdue")
	}
}

func TestHeatOverdue_FailedInseminationMovesReference(t *testing.T) {
	// Calving long ago, but a failed insemination 10 days ago restarts the
	// clock: not overdue yet.
	rt := ReproTimes{
		RegisteredAt:         policyNow.Add(-400 * 24 * time.Hour),
		LastCalvingAt:        daysAgo(60),
		LastInseminationAt:   daysAgo(10),
		InseminationAttempts: 1,
	}
	if overdue, _ := HeatOverdue(rt, policyNow); overdue {
		t.Fatalf("recent failed insemination should reset the heat clock")
	}
}

func TestHeatOverdue_RegistrationIsTheFallbackReference(t *testing.T) {
	// No events at all: the farm registration starts the clock.
	rt := ReproTimes{RegisteredAt: policyNow.Add(-40 * 24 * time.Hour)}
	overdue, days := HeatOverdue(rt, policyNow)
	if !overdue || days != 40 {
		t.Fatalf("expected overdue at 40 days since registration, got %v/%d", overdue, days)
	}
}

func TestCalvingOverdue(t *testing.T) {
	confirmed := policyNow.Add(-290 * 24 * time.Hour)

	rt := ReproTimes{
		RegisteredAt:         policyNow.Add(-400 * 24 * time.Hour),
		Pregnant:             true,
		PregnancyConfirmedAt: &confirmed,
	}

	// 290 days since confirmation, gestation 280 + grace 7: overdue by 10
	// days past the due date.
	overdue, days := CalvingOverdue(rt, policyNow)
	if !overdue {
		t.Fatalf("expected calving overdue")
	}
	if days != 10 {
		t.Fatalf("expected 10 days past due, got %d", days)
	}
}

func TestCalvingOverdue_ExplicitDueDateWins(t *testing.T) {
	confirmed := policyNow.Add(-285 * 24 * time.Hour)
	expected := policyNow.Add(-2 * 24 * time.Hour) // examiner said later than the default

	rt := ReproTimes{
		Pregnant:             true,
		PregnancyConfirmedAt: &confirmed,
		ExpectedCalvingAt:    &expected,
	}
	if overdue, _ := CalvingOverdue(rt, policyNow); overdue {
		t.Fatalf("2 days past the explicit due date is within grace")
	}
}

func TestCalvingOverdue_NotPregnant(t *testing.T) {
	confirmed := policyNow.Add(-300 * 24 * time.Hour)
	rt := ReproTimes{PregnancyConfirmedAt: &confirmed}
	if overdue, _ := CalvingOverdue(rt, policyNow); overdue {
		t.Fatalf("a cow that is not pregnant cannot be calving-overdue")
	}
}

func TestUpcomingCalvingMilestone_Windows(t *testing.T) {
	cases := []struct {
		name          string
		daysConfirmed int
		want          CalvingMilestone
	}{
		{"two months out", 220, MilestoneTwoMonths},
		{"one month out", 250, MilestoneOneMonth},
		{"on the due date", 280, MilestoneDue},
		{"two days past due", 282, MilestoneDue},
		{"between windows", 235, MilestoneNone},
		{"well before the first window", 100, MilestoneNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rt := ReproTimes{
				Pregnant:             true,
				PregnancyConfirmedAt: daysAgo(tc.daysConfirmed),
			}
			ms, _ := UpcomingCalvingMilestone(rt, policyNow)
			if ms != tc.want {
				t.Fatalf("confirmed %d days ago: expected %q, got %q", tc.daysConfirmed, tc.want, ms)
			}
		})
	}
}

func TestUpcomingCalvingMilestone_NotPregnant(t *testing.T) {
	rt := ReproTimes{PregnancyConfirmedAt: daysAgo(220)}
	if ms, _ := UpcomingCalvingMilestone(rt, policyNow); ms != MilestoneNone {
		t.Fatalf("a cow that is not pregnant has no calving milestone, got %q", ms)
	}
}

func TestUpcomingCalvingMilestone_ExplicitDueDateWins(t *testing.T) {
	// Confirmed long ago, but the examiner set the due date 30 days out.
	expected := policyNow.Add(30 * 24 * time.Hour)
	rt := ReproTimes{
		Pregnant:             true,
		PregnancyConfirmedAt: daysAgo(270),
		ExpectedCalvingAt:    &expected,
	}
	ms, daysLeft := UpcomingCalvingMilestone(rt, policyNow)
	if ms != MilestoneOneMonth || daysLeft != 30 {
		t.Fatalf("expected one-month milestone from the explicit date, got %q/%d", ms, daysLeft)
	}
}

func TestExpectedCalving(t *testing.T) {
	confirmed := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	if got := ExpectedCalving(confirmed, 200); got != confirmed.Add(200*24*time.Hour) {
		t.Fatalf("examiner estimate should win, got %v", got)
	}
	if got := ExpectedCalving(confirmed, 0); got != confirmed.Add(Gestation) {
		t.Fatalf("default gestation should apply, got %v", got)
	}
}
