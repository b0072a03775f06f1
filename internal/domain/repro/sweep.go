package repro

import (
	"context"
	"strconv"
	"sync"
	"time"

	"dairy-herd-manager/internal/domain/cows"
	"dairy-herd-manager/internal/domain/farms"
	"dairy-herd-manager/internal/domain/messaging"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/platform/metrics"
)

// Sweeper scans the active herd for cows overdue for an expected event and
// pages the right person, at most once per cow, alert kind and calendar
// day.
type Sweeper struct {
	cows     cows.Repository
	farms    FarmLookup
	ledger   messaging.Repository
	notifier Notifier

	mu  sync.Mutex
	now func() time.Time
	log logger.Logger
}

func NewSweeper(cowRepo cows.Repository, farmLookup FarmLookup, ledger messaging.Repository, notifier Notifier, log logger.Logger) *Sweeper {
	return &Sweeper{
		cows:     cowRepo,
		farms:    farmLookup,
		ledger:   ledger,
		notifier: notifier,
		now:      time.Now,
		log:      log,
	}
}

// A milestone reminder fires once per window: re-runs within this span are
// suppressed even across calendar days.
const milestoneRepeatWindow = 7 * 24 * time.Hour

// SweepResult summarizes one run.
type SweepResult struct {
	Checked int `json:"checked"`
	Emitted int `json:"emitted"`
	Skipped int `json:"skipped"` // suppressed by same-day idempotence
	Errs    int `json:"errors"`
}

// RunOverdueSweep processes each active cow independently: a failing cow is
// logged and counted, never aborts the batch. Overlapping runs are skipped,
// not queued. Cancellation is honored between cows.
func (s *Sweeper) RunOverdueSweep(ctx context.Context) (SweepResult, error) {
	if !s.mu.TryLock() {
		s.log.Warn("overdue sweep still running, skipping", nil)
		metrics.SweepRuns.WithLabelValues("skipped").Inc()
		return SweepResult{}, ErrSweepRunning
	}
	defer s.mu.Unlock()

	now := s.now()
	var res SweepResult

	herd, err := s.cows.ListActive(ctx)
	if err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		return res, err
	}

	farmCache := map[string]farms.Farm{}
	for _, c := range herd {
		if err := ctx.Err(); err != nil {
			metrics.SweepRuns.WithLabelValues("canceled").Inc()
			return res, err
		}
		res.Checked++

		farm, ok := farmCache[c.FarmID]
		if !ok {
			farm, err = s.farms.Get(ctx, c.FarmID)
			if err != nil {
				s.log.Warn("sweep: farm lookup failed", logger.Fields{"farm_id": c.FarmID, "cow_id": c.ID, "err": err.Error()})
				res.Errs++
				continue
			}
			farmCache[c.FarmID] = farm
		}

		if err := s.checkCow(ctx, c, farm, now, &res); err != nil {
			s.log.Warn("sweep: cow check failed", logger.Fields{"farm_id": c.FarmID, "cow_id": c.ID, "err": err.Error()})
			res.Errs++
		}
	}

	s.log.Info("overdue sweep finished", logger.Fields{
		"checked": res.Checked, "emitted": res.Emitted, "skipped": res.Skipped, "errors": res.Errs,
	})
	metrics.SweepRuns.WithLabelValues("ok").Inc()
	return res, nil
}

func (s *Sweeper) checkCow(ctx context.Context, c cows.Cow, farm farms.Farm, now time.Time, res *SweepResult) error {
	t := ReproTimes{
		RegisteredAt:         farm.RegisteredAt,
		Pregnant:             c.Pregnant,
		InseminationAttempts: c.InseminationAttempts,
		LastHeatAt:           c.LastHeatAt,
		LastInseminationAt:   c.LastInseminationAt,
		PregnancyConfirmedAt: c.PregnancyConfirmedAt,
		LastCalvingAt:        c.LastCalvingAt,
		ExpectedCalvingAt:    c.ExpectedCalvingAt,
	}

	if overdue, days := HeatOverdue(t, now); overdue {
		sent, err := s.ledger.HasSentToday(ctx, c.FarmID, c.ID, messaging.TypeHeatOverdueReminder, now)
		if err != nil {
			return err
		}
		if sent {
			res.Skipped++
		} else {
			s.notifier.Dispatch(ctx, []messaging.Intent{{
				Type: messaging.TypeHeatOverdueReminder, Role: messaging.RoleInseminator,
				FarmID: c.FarmID, CowID: c.ID,
				Params: map[string]string{
					"farm_id": c.FarmID,
					"cow_id":  c.ID,
					"days":    strconv.Itoa(days),
				},
			}})
			res.Emitted++
			metrics.SweepAlerts.WithLabelValues("heat_overdue").Inc()
		}
	}

	if ms, _ := UpcomingCalvingMilestone(t, now); ms != MilestoneNone {
		mt := milestoneMessageType(ms)
		sent, err := s.ledger.HasSentSince(ctx, c.FarmID, c.ID, mt, now.Add(-milestoneRepeatWindow))
		if err != nil {
			return err
		}
		if sent {
			res.Skipped++
		} else {
			s.notifier.Dispatch(ctx, []messaging.Intent{{
				Type: mt, Role: messaging.RoleFarmer,
				FarmID: c.FarmID, CowID: c.ID,
				Params: map[string]string{
					"cow_id":                c.ID,
					"expected_calving_date": expectedCalvingDay(c),
					"lactation_number":      strconv.Itoa(c.LactationNumber),
				},
			}})
			res.Emitted++
			metrics.SweepAlerts.WithLabelValues("calving_" + string(ms)).Inc()
		}
	}

	if overdue, days := CalvingOverdue(t, now); overdue {
		sent, err := s.ledger.HasSentToday(ctx, c.FarmID, c.ID, messaging.TypeCalvingOverdueReminder, now)
		if err != nil {
			return err
		}
		if sent {
			res.Skipped++
		} else {
			expected := expectedCalvingDay(c)
			s.notifier.Dispatch(ctx, []messaging.Intent{{
				Type: messaging.TypeCalvingOverdueReminder, Role: messaging.RoleFarmer,
				FarmID: c.FarmID, CowID: c.ID,
				Params: map[string]string{
					"cow_id":                c.ID,
					"expected_calving_date": expected,
					"days":                  strconv.Itoa(days),
				},
			}})
			res.Emitted++
			metrics.SweepAlerts.WithLabelValues("calving_overdue").Inc()
		}
	}

	return nil
}

func milestoneMessageType(ms CalvingMilestone) messaging.MessageType {
	switch ms {
	case MilestoneTwoMonths:
		return messaging.TypeCalvingTwoMonthAlert
	case MilestoneOneMonth:
		return messaging.TypeCalvingOneMonthAlert
	default:
		return messaging.TypeCalvingDueAlert
	}
}

func expectedCalvingDay(c cows.Cow) string {
	if c.ExpectedCalvingAt != nil {
		return c.ExpectedCalvingAt.Format("2006-01-02")
	}
	if c.PregnancyConfirmedAt != nil {
		return c.PregnancyConfirmedAt.Add(Gestation).Format("2006-01-02")
	}
	return ""
}
