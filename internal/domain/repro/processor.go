package repro

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"dairy-herd-manager/internal/domain/cows"
	"dairy-herd-manager/internal/domain/farms"
	"dairy-herd-manager/internal/domain/messaging"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/platform/metrics"
)

// Notifier is the dispatcher seen from this package. Dispatch outcomes
// never affect the event write that produced the intents.
type Notifier interface {
	Dispatch(ctx context.Context, intents []messaging.Intent) []messaging.Message
}

// FarmLookup is the slice of the farms service the processor needs.
type FarmLookup interface {
	Get(ctx context.Context, id string) (farms.Farm, error)
}

// keyedMutex serializes event application per cow. Keys live for the
// process lifetime; the herd bounds their number.
type keyedMutex struct {
	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{keys: map[string]*sync.Mutex{}}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.keys[key]
	if !ok {
		m = &sync.Mutex{}
		k.keys[key] = m
	}
	return m
}

type Service struct {
	cows     cows.Repository
	farms    FarmLookup
	events   EventRepository
	notifier Notifier

	locks *keyedMutex
	now   func() time.Time
	log   logger.Logger
}

func NewService(cowRepo cows.Repository, farmLookup FarmLookup, events EventRepository, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		cows:     cowRepo,
		farms:    farmLookup,
		events:   events,
		notifier: notifier,
		locks:    newKeyedMutex(),
		now:      time.Now,
		log:      log,
	}
}

// Result is the outcome of one applied event: the cow as saved, the event
// as appended, and the messages dispatched for it.
type Result struct {
	Cow      cows.Cow
	Event    Event
	Messages []messaging.Message
}

// transition is the outcome of the pure state computation, before any
// persistence.
type outcome struct {
	cow     cows.Cow
	changed bool
	intents []messaging.Intent
	warn    string
}

// Apply validates and applies one event to a cow, appends it to the audit
// trail (as rejected when the transition is not legal), saves the cow and
// dispatches the resulting notifications. Application is serialized per
// cow; different cows proceed in parallel.
func (s *Service) Apply(ctx context.Context, ev Event) (Result, error) {
	if ev.FarmID == "" || ev.CowID == "" {
		return Result{}, fmt.Errorf("%w: farm and cow required", ErrInvalidInput)
	}
	if !ev.Type.Valid() {
		return Result{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, ev.Type)
	}
	if ev.detail() == nil {
		return Result{}, fmt.Errorf("%w: missing %s payload", ErrInvalidInput, ev.Type)
	}

	now := s.now()
	ev.ID = uuid.NewString()
	ev.RecordedAt = now
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = now
	}

	mu := s.locks.get(ev.FarmID + "/" + ev.CowID)
	mu.Lock()
	defer mu.Unlock()

	farm, err := s.farms.Get(ctx, ev.FarmID)
	if err != nil {
		return Result{}, err
	}
	cow, err := s.cows.Get(ctx, ev.FarmID, ev.CowID)
	if err != nil {
		return Result{}, err
	}

	out, terr := transition(cow, farm, ev, now)
	if terr != nil {
		ev.Status = StatusRejected
		ev.RejectReason = terr.Error()
		if aerr := s.events.Append(ctx, ev); aerr != nil {
			return Result{}, fmt.Errorf("append rejected event: %w", aerr)
		}
		s.log.Warn("event rejected", logger.Fields{
			"farm_id": ev.FarmID, "cow_id": ev.CowID, "type": ev.Type,
			"phase": cow.Phase, "reason": terr.Error(),
		})
		metrics.EventsApplied.WithLabelValues(string(ev.Type), "rejected").Inc()
		return Result{Cow: cow, Event: ev}, terr
	}

	ev.Status = StatusRecorded
	if err := s.events.Append(ctx, ev); err != nil {
		return Result{}, fmt.Errorf("append event: %w", err)
	}
	if out.changed {
		if err := s.cows.Save(ctx, out.cow); err != nil {
			return Result{}, fmt.Errorf("save cow: %w", err)
		}
		out.cow.Version++
	}

	if out.warn != "" {
		s.log.Warn(out.warn, logger.Fields{"farm_id": ev.FarmID, "cow_id": ev.CowID, "type": ev.Type})
	}
	s.log.Info("event applied", logger.Fields{
		"farm_id": ev.FarmID, "cow_id": ev.CowID, "type": ev.Type, "phase": out.cow.Phase,
	})
	metrics.EventsApplied.WithLabelValues(string(ev.Type), "recorded").Inc()

	var msgs []messaging.Message
	if len(out.intents) > 0 {
		msgs = s.notifier.Dispatch(ctx, out.intents)
	}
	return Result{Cow: out.cow, Event: ev, Messages: msgs}, nil
}

// ListEvents reads a cow's audit trail, newest first.
func (s *Service) ListEvents(ctx context.Context, farmID, cowID string, t EventType, limit int) ([]Event, error) {
	if t != "" && !t.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, t)
	}
	if _, err := s.cows.Get(ctx, farmID, cowID); err != nil {
		return nil, err
	}
	return s.events.ListByCow(ctx, farmID, cowID, t, limit)
}

// transition computes the new cow state and the notification intents for
// one event. Pure: no clock, no repository.
func transition(c cows.Cow, f farms.Farm, ev Event, now time.Time) (outcome, error) {
	if !c.Active {
		return outcome{}, fmt.Errorf("%w: cow is inactive", ErrPreconditionFailed)
	}
	if ev.Type != EventMedicalAssessment && c.Sex != cows.SexFemale {
		return outcome{}, fmt.Errorf("%w: reproductive events require a female cow", ErrPreconditionFailed)
	}

	day := func(t time.Time) string { return t.Format("2006-01-02") }
	occurred := ev.OccurredAt

	switch ev.Type {
	case EventHeatSign:
		switch c.Phase {
		case cows.PhaseOpen, cows.PhaseInseminated, cows.PhaseCalved:
		default:
			return outcome{}, fmt.Errorf("%w: %s from phase %s", ErrIllegalTransition, ev.Type, c.Phase)
		}
		c.Phase = cows.PhaseHeatDetected
		c.LastHeatAt = &occurred
		c.UpdatedAt = now

		if f.Inseminator == nil {
			return outcome{cow: c, changed: true, warn: "heat sign with no inseminator assigned"}, nil
		}
		return outcome{cow: c, changed: true, intents: []messaging.Intent{
			{
				Type: messaging.TypeInseminationAlert, Role: messaging.RoleInseminator,
				FarmID: f.ID, CowID: c.ID,
				Params: map[string]string{
					"farm_id":    f.ID,
					"owner_name": f.OwnerName,
					"address":    f.Address,
					"farm_phone": f.Phone,
					"cow_id":     c.ID,
					"heat_signs": ev.Heat.Signs,
				},
			},
			{
				Type: messaging.TypeHeatAck, Role: messaging.RoleFarmer,
				FarmID: f.ID, CowID: c.ID,
				Params: map[string]string{
					"cow_id":           c.ID,
					"inseminator_name": f.Inseminator.Name,
				},
			},
		}}, nil

	case EventInsemination:
		if c.Phase != cows.PhaseHeatDetected {
			return outcome{}, fmt.Errorf("%w: %s from phase %s", ErrIllegalTransition, ev.Type, c.Phase)
		}
		if f.Inseminator == nil {
			return outcome{}, fmt.Errorf("%w: no inseminator assigned", ErrPreconditionFailed)
		}
		c.Phase = cows.PhaseInseminated
		c.InseminationAttempts++
		c.LastInseminationAt = &occurred
		c.LastBullID = ev.Insemination.BullID
		c.UpdatedAt = now

		return outcome{cow: c, changed: true, intents: []messaging.Intent{{
			Type: messaging.TypeInseminationRecorded, Role: messaging.RoleFarmer,
			FarmID: f.ID, CowID: c.ID,
			Params: map[string]string{
				"cow_id":            c.ID,
				"bull_id":           ev.Insemination.BullID,
				"attempt_count":     strconv.Itoa(c.InseminationAttempts),
				"insemination_date": day(occurred),
			},
		}}}, nil

	case EventPregnancyConfirmation:
		if c.Phase != cows.PhaseInseminated {
			return outcome{}, fmt.Errorf("%w: %s from phase %s", ErrIllegalTransition, ev.Type, c.Phase)
		}
		expected := ExpectedCalving(occurred, ev.Pregnancy.DaysUntilCalving)
		c.Phase = cows.PhasePregnancyConfirmed
		c.Pregnant = true
		c.InseminationAttempts = 0
		c.PregnancyConfirmedAt = &occurred
		c.ExpectedCalvingAt = &expected
		c.UpdatedAt = now

		return outcome{cow: c, changed: true, intents: []messaging.Intent{{
			Type: messaging.TypePregnancyConfirmation, Role: messaging.RoleFarmer,
			FarmID: f.ID, CowID: c.ID,
			Params: map[string]string{
				"cow_id":                c.ID,
				"pregnancy_date":        day(occurred),
				"expected_calving_date": day(expected),
				"lactation_number":      strconv.Itoa(c.LactationNumber),
			},
		}}}, nil

	case EventCalving:
		var warn string
		switch c.Phase {
		case cows.PhasePregnancyConfirmed:
		case cows.PhaseInseminated, cows.PhaseHeatDetected:
			// Field data is not always clean: a skipped confirmation does
			// not invalidate a real birth.
			warn = "calving recorded without confirmed pregnancy"
		default:
			return outcome{}, fmt.Errorf("%w: %s from phase %s", ErrIllegalTransition, ev.Type, c.Phase)
		}
		c.Phase = cows.PhaseCalved
		c.Pregnant = false
		c.LactationNumber++
		c.InseminationAttempts = 0
		c.DaysInMilk = 0
		c.LastCalvingAt = &occurred
		c.ExpectedCalvingAt = nil
		c.UpdatedAt = now

		return outcome{cow: c, changed: true, warn: warn, intents: []messaging.Intent{{
			Type: messaging.TypeBirthAlert, Role: messaging.RoleFarmer,
			FarmID: f.ID, CowID: c.ID,
			Params: map[string]string{
				"cow_id":           c.ID,
				"calving_date":     day(occurred),
				"calf_sex":         ev.Calving.CalfSex,
				"lactation_number": strconv.Itoa(c.LactationNumber),
			},
		}}}, nil

	case EventMedicalAssessment:
		return medicalOutcome(c, f, ev)
	}

	return outcome{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, ev.Type)
}

// medicalOutcome handles both reporter directions. Medical events never
// touch the reproductive phase.
func medicalOutcome(c cows.Cow, f farms.Farm, ev Event) (outcome, error) {
	d := ev.Medical
	doctorName := "-"
	if f.Doctor != nil {
		doctorName = f.Doctor.Name
	}

	switch d.ReportedBy {
	case ReporterFarmer:
		if f.Doctor == nil {
			return outcome{}, fmt.Errorf("%w: no doctor assigned", ErrPreconditionFailed)
		}
		return outcome{cow: c, intents: []messaging.Intent{
			{
				Type: messaging.TypeHealthAlert, Role: messaging.RoleDoctor,
				FarmID: f.ID, CowID: c.ID,
				Params: map[string]string{
					"cow_id":     c.ID,
					"farm_id":    f.ID,
					"owner_name": f.OwnerName,
					"sickness":   d.SicknessDescription,
				},
			},
			{
				Type: messaging.TypeMedicalReportAck, Role: messaging.RoleFarmer,
				FarmID: f.ID, CowID: c.ID,
				Params: map[string]string{
					"cow_id":      c.ID,
					"sickness":    d.SicknessDescription,
					"doctor_name": doctorName,
				},
			},
		}}, nil

	case ReporterDoctor:
		if !d.IsCowSick && d.Diagnosis == "" && d.Treatment == "" {
			// Routine all-clear check: recorded, nobody paged.
			return outcome{cow: c}, nil
		}
		status := d.Diagnosis
		if status == "" {
			status = "sick"
			if !d.IsCowSick {
				status = "healthy"
			}
		}
		notes := d.Notes
		if notes == "" {
			notes = d.Treatment
		}
		return outcome{cow: c, intents: []messaging.Intent{
			{
				Type: messaging.TypeAssessmentSummary, Role: messaging.RoleFarmer,
				FarmID: f.ID, CowID: c.ID,
				Params: map[string]string{
					"cow_id":        c.ID,
					"doctor_name":   doctorName,
					"health_status": status,
					"notes":         notes,
				},
			},
			{
				Type: messaging.TypeDoctorConfirmation, Role: messaging.RoleDoctor,
				FarmID: f.ID, CowID: c.ID,
				Params: map[string]string{
					"farm_id":       f.ID,
					"owner_name":    f.OwnerName,
					"cow_id":        c.ID,
					"health_status": status,
				},
			},
		}}, nil
	}

	return outcome{}, fmt.Errorf("%w: reported_by must be farmer or doctor", ErrInvalidInput)
}
