package repro

import (
	"context"
	"errors"
	"testing"
	"time"

	"dairy-herd-manager/internal/domain/cows"
	"dairy-herd-manager/internal/domain/farms"
	"dairy-herd-manager/internal/domain/messaging"
	"dairy-herd-manager/internal/platform/logger"
)

// -------------------------
// Test doubles shared with sweep_test.go
// -------------------------

type fakeCows struct {
	byKey map[string]cows.Cow
}

func newFakeCows() *fakeCows { return &fakeCows{byKey: map[string]cows.Cow{}} }

func cowKey(farmID, id string) string { return farmID + "/" + id }

func (r *fakeCows) put(c cows.Cow) { r.byKey[cowKey(c.FarmID, c.ID)] = c }

func (r *fakeCows) Create(ctx context.Context, c cows.Cow) error {
	r.put(c)
	return nil
}

func (r *fakeCows) Get(ctx context.Context, farmID, id string) (cows.Cow, error) {
	c, ok := r.byKey[cowKey(farmID, id)]
	if !ok {
		return cows.Cow{}, cows.ErrNotFound
	}
	return c, nil
}

func (r *fakeCows) Save(ctx context.Context, c cows.Cow) error {
	cur, ok := r.byKey[cowKey(c.FarmID, c.ID)]
	if !ok {
		return cows.ErrNotFound
	}
	if cur.Version != c.Version {
		return cows.ErrVersionConflict
	}
	c.Version++
	r.put(c)
	return nil
}

func (r *fakeCows) ListByFarm(ctx context.Context, farmID string) ([]cows.Cow, error) {
	out := make([]cows.Cow, 0)
	for _, c := range r.byKey {
		if c.FarmID == farmID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCows) ListActive(ctx context.Context) ([]cows.Cow, error) {
	out := make([]cows.Cow, 0)
	for _, c := range r.byKey {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeFarms struct {
	byID map[string]farms.Farm
}

func (r *fakeFarms) Get(ctx context.Context, id string) (farms.Farm, error) {
	f, ok := r.byID[id]
	if !ok {
		return farms.Farm{}, farms.ErrNotFound
	}
	return f, nil
}

type fakeEvents struct {
	rows []Event
}

func (r *fakeEvents) Append(ctx context.Context, e Event) error {
	r.rows = append(r.rows, e)
	return nil
}

func (r *fakeEvents) ListByCow(ctx context.Context, farmID, cowID string, t EventType, limit int) ([]Event, error) {
	out := make([]Event, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		e := r.rows[i]
		if e.FarmID != farmID || e.CowID != cowID {
			continue
		}
		if t != "" && e.Type != t {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type captureNotifier struct {
	intents []messaging.Intent
}

func (n *captureNotifier) Dispatch(ctx context.Context, intents []messaging.Intent) []messaging.Message {
	n.intents = append(n.intents, intents...)
	out := make([]messaging.Message, 0, len(intents))
	for _, it := range intents {
		out = append(out, messaging.Message{
			FarmID: it.FarmID, CowID: it.CowID, Type: it.Type, Role: it.Role,
			Status: messaging.StatusSent,
		})
	}
	return out
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	cows     *fakeCows
	events   *fakeEvents
	notifier *captureNotifier
	farm     farms.Farm
}

// newFixture builds a farm with both roles assigned and one open cow C-1.
func newFixture(t *testing.T, mutate func(*farms.Farm)) *fixture {
	t.Helper()

	farm := farms.Farm{
		ID:           "f1",
		OwnerName:    "Abebe",
		Address:      "Bahir Dar",
		Phone:        "+251911223344",
		Inseminator:  &farms.Staff{ID: "s1", Name: "Kebede", Phone: "+251911000001"},
		Doctor:       &farms.Staff{ID: "s2", Name: "Tigist", Phone: "+251911000002"},
		RegisteredAt: testNow.Add(-365 * 24 * time.Hour),
		Active:       true,
	}
	if mutate != nil {
		mutate(&farm)
	}

	cowRepo := newFakeCows()
	cowRepo.put(cows.Cow{
		FarmID: "f1", ID: "C-1", Sex: cows.SexFemale,
		Phase: cows.PhaseOpen, Version: 1, Active: true,
	})

	events := &fakeEvents{}
	notifier := &captureNotifier{}
	svc := NewService(cowRepo, &fakeFarms{byID: map[string]farms.Farm{"f1": farm}}, events, notifier, logger.New(logger.Options{Level: logger.Error}))
	svc.now = func() time.Time { return testNow }

	return &fixture{svc: svc, cows: cowRepo, events: events, notifier: notifier, farm: farm}
}

func (fx *fixture) apply(t *testing.T, ev Event) Result {
	t.Helper()
	res, err := fx.svc.Apply(context.Background(), ev)
	if err != nil {
		t.Fatalf("Apply(%s) error: %v", ev.Type, err)
	}
	return res
}

func heatEvent() Event {
	return Event{FarmID: "f1", CowID: "C-1", Type: EventHeatSign, Heat: &HeatDetail{Signs: "mounting"}}
}

func inseminationEvent() Event {
	return Event{FarmID: "f1", CowID: "C-1", Type: EventInsemination, Insemination: &InseminationDetail{BullID: "B-9", Count: 1}}
}

func pregnancyEvent() Event {
	return Event{FarmID: "f1", CowID: "C-1", Type: EventPregnancyConfirmation, Pregnancy: &PregnancyDetail{DaysUntilCalving: 270}}
}

func calvingEvent() Event {
	return Event{FarmID: "f1", CowID: "C-1", Type: EventCalving, Calving: &CalvingDetail{CalfSex: "female"}}
}

// -------------------------
// Tests
// -------------------------

func TestApply_FullCycle(t *testing.T) {
	fx := newFixture(t, nil)

	steps := []struct {
		ev    Event
		phase cows.Phase
	}{
		{heatEvent(), cows.PhaseHeatDetected},
		{inseminationEvent(), cows.PhaseInseminated},
		{pregnancyEvent(), cows.PhasePregnancyConfirmed},
		{calvingEvent(), cows.PhaseCalved},
		{heatEvent(), cows.PhaseHeatDetected}, // post-partum return to cycling
	}
	for _, st := range steps {
		res := fx.apply(t, st.ev)
		if res.Cow.Phase != st.phase {
			t.Fatalf("%s: expected phase %s, got %s", st.ev.Type, st.phase, res.Cow.Phase)
		}
		if res.Event.Status != StatusRecorded {
			t.Fatalf("%s: expected recorded, got %s", st.ev.Type, res.Event.Status)
		}
	}

	if len(fx.events.rows) != len(steps) {
		t.Fatalf("expected one appended event per application, got %d", len(fx.events.rows))
	}
}

func TestApply_InseminationFromOpenIsIllegal(t *testing.T) {
	fx := newFixture(t, nil)

	_, err := fx.svc.Apply(context.Background(), inseminationEvent())
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}

	c, _ := fx.cows.Get(context.Background(), "f1", "C-1")
	if c.Phase != cows.PhaseOpen {
		t.Fatalf("phase must be unchanged, got %s", c.Phase)
	}
	// Rejected but logged in the trail.
	if len(fx.events.rows) != 1 || fx.events.rows[0].Status != StatusRejected {
		t.Fatalf("rejected event must still be appended, got %+v", fx.events.rows)
	}
	if len(fx.notifier.intents) != 0 {
		t.Fatalf("no intents for a rejected event")
	}
}

func TestApply_FailedConceptionLoop(t *testing.T) {
	fx := newFixture(t, nil)

	fx.apply(t, heatEvent())
	fx.apply(t, inseminationEvent())
	res := fx.apply(t, heatEvent()) // heat again before confirmation

	if res.Cow.Phase != cows.PhaseHeatDetected {
		t.Fatalf("failed conception must return to heat_detected, got %s", res.Cow.Phase)
	}
	if res.Cow.InseminationAttempts != 1 {
		t.Fatalf("attempt counter counts inseminations, got %d", res.Cow.InseminationAttempts)
	}

	// Second service, then confirmation: counter reaches 2 then resets.
	res = fx.apply(t, inseminationEvent())
	if res.Cow.InseminationAttempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", res.Cow.InseminationAttempts)
	}
	res = fx.apply(t, pregnancyEvent())
	if res.Cow.InseminationAttempts != 0 {
		t.Fatalf("pregnancy confirmation must reset the counter, got %d", res.Cow.InseminationAttempts)
	}
	if !res.Cow.Pregnant || res.Cow.ExpectedCalvingAt == nil {
		t.Fatalf("expected pregnant cow with a due date")
	}
}

func TestApply_HeatSignWithoutInseminator(t *testing.T) {
	fx := newFixture(t, func(f *farms.Farm) { f.Inseminator = nil })

	res := fx.apply(t, heatEvent())
	if res.Cow.Phase != cows.PhaseHeatDetected {
		t.Fatalf("phase should still advance, got %s", res.Cow.Phase)
	}
	if len(res.Messages) != 0 || len(fx.notifier.intents) != 0 {
		t.Fatalf("no messages without an inseminator, got %d", len(fx.notifier.intents))
	}
}

func TestApply_HeatSignNotifiesInseminatorAndFarmer(t *testing.T) {
	fx := newFixture(t, nil)

	fx.apply(t, heatEvent())
	if len(fx.notifier.intents) != 2 {
		t.Fatalf("expected inseminator alert + farmer ack, got %d", len(fx.notifier.intents))
	}
	if fx.notifier.intents[0].Type != messaging.TypeInseminationAlert || fx.notifier.intents[0].Role != messaging.RoleInseminator {
		t.Fatalf("first intent should page the inseminator, got %+v", fx.notifier.intents[0])
	}
	if fx.notifier.intents[1].Type != messaging.TypeHeatAck || fx.notifier.intents[1].Role != messaging.RoleFarmer {
		t.Fatalf("second intent should ack the farmer, got %+v", fx.notifier.intents[1])
	}
}

func TestApply_CalvingToleratedWithoutConfirmation(t *testing.T) {
	fx := newFixture(t, nil)

	fx.apply(t, heatEvent())
	fx.apply(t, inseminationEvent())
	res := fx.apply(t, calvingEvent()) // confirmation skipped in the field

	if res.Cow.Phase != cows.PhaseCalved {
		t.Fatalf("calving should be tolerated from inseminated, got %s", res.Cow.Phase)
	}
	if res.Cow.LactationNumber != 1 || res.Cow.Pregnant || res.Cow.InseminationAttempts != 0 {
		t.Fatalf("calving bookkeeping wrong: %+v", res.Cow)
	}
}

func TestApply_CalvingFromOpenIsIllegal(t *testing.T) {
	fx := newFixture(t, nil)

	_, err := fx.svc.Apply(context.Background(), calvingEvent())
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestApply_FarmerMedicalNeedsDoctor(t *testing.T) {
	fx := newFixture(t, func(f *farms.Farm) { f.Doctor = nil })

	_, err := fx.svc.Apply(context.Background(), Event{
		FarmID: "f1", CowID: "C-1", Type: EventMedicalAssessment,
		Medical: &MedicalDetail{ReportedBy: ReporterFarmer, SicknessDescription: "limping"},
	})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}
	if len(fx.notifier.intents) != 0 {
		t.Fatalf("no messages for a rejected report")
	}

	c, _ := fx.cows.Get(context.Background(), "f1", "C-1")
	if c.Phase != cows.PhaseOpen || c.Version != 1 {
		t.Fatalf("no state change allowed, got %+v", c)
	}
}

func TestApply_FarmerMedicalRoutesToDoctor(t *testing.T) {
	fx := newFixture(t, nil)

	res := fx.apply(t, Event{
		FarmID: "f1", CowID: "C-1", Type: EventMedicalAssessment,
		Medical: &MedicalDetail{ReportedBy: ReporterFarmer, SicknessDescription: "limping"},
	})
	if len(res.Messages) != 2 {
		t.Fatalf("expected doctor alert + farmer ack, got %d", len(res.Messages))
	}
	if fx.notifier.intents[0].Role != messaging.RoleDoctor {
		t.Fatalf("first intent should go to the doctor")
	}
	// Medical events never touch the phase.
	if res.Cow.Phase != cows.PhaseOpen {
		t.Fatalf("phase must be unchanged, got %s", res.Cow.Phase)
	}
}

func TestApply_DoctorAssessment(t *testing.T) {
	fx := newFixture(t, nil)

	// Routine all-clear: recorded, nobody paged.
	res := fx.apply(t, Event{
		FarmID: "f1", CowID: "C-1", Type: EventMedicalAssessment,
		Medical: &MedicalDetail{ReportedBy: ReporterDoctor},
	})
	if len(res.Messages) != 0 {
		t.Fatalf("routine check should not notify, got %d", len(res.Messages))
	}

	// Sick verdict pages the farmer and confirms to the doctor.
	res = fx.apply(t, Event{
		FarmID: "f1", CowID: "C-1", Type: EventMedicalAssessment,
		Medical: &MedicalDetail{ReportedBy: ReporterDoctor, IsCowSick: true, Diagnosis: "mastitis", Treatment: "antibiotics"},
	})
	if len(res.Messages) != 2 {
		t.Fatalf("expected summary + confirmation, got %d", len(res.Messages))
	}
	last := fx.notifier.intents[len(fx.notifier.intents)-2]
	if last.Type != messaging.TypeAssessmentSummary || last.Params["health_status"] != "mastitis" {
		t.Fatalf("summary should carry the diagnosis, got %+v", last)
	}
}

func TestApply_InactiveCow(t *testing.T) {
	fx := newFixture(t, nil)
	c, _ := fx.cows.Get(context.Background(), "f1", "C-1")
	c.Active = false
	fx.cows.put(c)

	_, err := fx.svc.Apply(context.Background(), heatEvent())
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed for inactive cow, got %v", err)
	}
}

func TestApply_UnknownCowAndFarm(t *testing.T) {
	fx := newFixture(t, nil)

	ev := heatEvent()
	ev.CowID = "ghost"
	if _, err := fx.svc.Apply(context.Background(), ev); !errors.Is(err, cows.ErrNotFound) {
		t.Fatalf("expected cows.ErrNotFound, got %v", err)
	}

	ev = heatEvent()
	ev.FarmID = "ghost"
	if _, err := fx.svc.Apply(context.Background(), ev); !errors.Is(err, farms.ErrNotFound) {
		t.Fatalf("expected farms.ErrNotFound, got %v", err)
	}
}

func TestApply_InvalidInput(t *testing.T) {
	fx := newFixture(t, nil)

	// Missing payload for the declared type.
	_, err := fx.svc.Apply(context.Background(), Event{FarmID: "f1", CowID: "C-1", Type: EventHeatSign})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = fx.svc.Apply(context.Background(), Event{FarmID: "f1", CowID: "C-1", Type: EventType("EXORCISM")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestListEvents_FilterAndOrder(t *testing.T) {
	fx := newFixture(t, nil)

	fx.apply(t, heatEvent())
	fx.apply(t, inseminationEvent())

	all, err := fx.svc.ListEvents(context.Background(), "f1", "C-1", "", 0)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(all) != 2 || all[0].Type != EventInsemination {
		t.Fatalf("expected newest first, got %+v", all)
	}

	heats, err := fx.svc.ListEvents(context.Background(), "f1", "C-1", EventHeatSign, 0)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(heats) != 1 || heats[0].Type != EventHeatSign {
		t.Fatalf("type filter broken, got %+v", heats)
	}
}
