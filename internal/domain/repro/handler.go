package repro

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dairy-herd-manager/internal/domain/cows"
	"dairy-herd-manager/internal/domain/farms"
)

func RegisterRoutes(r chi.Router, svc *Service, sweeper *Sweeper) {
	r.Post("/farms/{farmID}/cows/{cowID}/events", recordEventHandler(svc))
	r.Get("/farms/{farmID}/cows/{cowID}/events", listEventsHandler(svc))
	r.Post("/sweep/run", runSweepHandler(sweeper))
}

type recordEventRequest struct {
	Type       string `json:"type"`
	OccurredAt string `json:"occurred_at"` // RFC3339 or YYYY-MM-DD, optional

	// HEAT_SIGN
	HeatSigns string `json:"heat_signs,omitempty"`

	// INSEMINATION
	BullID string `json:"bull_id,omitempty"`
	Count  int    `json:"count,omitempty"`

	// PREGNANCY_CONFIRMATION
	DaysUntilCalving      int `json:"days_until_calving,omitempty"`
	ServicesPerConception int `json:"services_per_conception,omitempty"`

	// CALVING
	CalfSex string `json:"calf_sex,omitempty"`

	// MEDICAL_ASSESSMENT
	ReportedBy string `json:"reported_by,omitempty"`
	Sickness   string `json:"sickness,omitempty"`
	Diagnosis  string `json:"diagnosis,omitempty"`
	Treatment  string `json:"treatment,omitempty"`
	Notes      string `json:"notes,omitempty"`
	IsCowSick  bool   `json:"is_cow_sick,omitempty"`
}

type eventResponse struct {
	ID     string `json:"id"`
	FarmID string `json:"farm_id"`
	CowID  string `json:"cow_id"`

	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`

	Status       string `json:"status"`
	RejectReason string `json:"reject_reason,omitempty"`

	Detail any `json:"detail,omitempty"`
}

type applyEventResponse struct {
	Event      eventResponse `json:"event"`
	Phase      string        `json:"phase"`
	Dispatched int           `json:"messages_dispatched"`
}

// recordEventHandler godoc
// @Summary Record a reproductive or medical event
// @Description Applies one event to the cow's state machine. Rejected events are kept in the audit trail with the reason.
// @Tags events
// @Accept json
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param cowID path string true "Cow ID"
// @Param request body recordEventRequest true "Event"
// @Success 201 {object} applyEventResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "farm or cow not found"
// @Failure 409 {string} string "illegal transition"
// @Failure 422 {string} string "precondition failed"
// @Router /farms/{farmID}/cows/{cowID}/events [post]
func recordEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ev, err := buildEvent(chi.URLParam(r, "farmID"), chi.URLParam(r, "cowID"), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		res, err := svc.Apply(r.Context(), ev)
		if err != nil {
			switch {
			case errors.Is(err, ErrIllegalTransition):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrPreconditionFailed):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, cows.ErrNotFound):
				http.Error(w, "cow not found", http.StatusNotFound)
			case errors.Is(err, farms.ErrNotFound):
				http.Error(w, "farm not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, applyEventResponse{
			Event:      toEventResponse(res.Event),
			Phase:      string(res.Cow.Phase),
			Dispatched: len(res.Messages),
		})
	}
}

// listEventsHandler godoc
// @Summary List a cow's event trail
// @Description Returns the cow's events newest first, rejected ones included.
// @Tags events
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param cowID path string true "Cow ID"
// @Param type query string false "Event type filter"
// @Param limit query int false "Maximum rows to return (1-200, default 50)"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "cow not found"
// @Router /farms/{farmID}/cows/{cowID}/events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}
		t := EventType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))

		items, err := svc.ListEvents(r.Context(), chi.URLParam(r, "farmID"), chi.URLParam(r, "cowID"), t, limit)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, cows.ErrNotFound):
				http.Error(w, "cow not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// runSweepHandler godoc
// @Summary Run the overdue sweep now
// @Description Triggers the same scan the scheduler runs. A run already in flight is skipped.
// @Tags sweep
// @Produce json
// @Success 200 {object} SweepResult
// @Failure 409 {string} string "sweep already running"
// @Router /sweep/run [post]
func runSweepHandler(sweeper *Sweeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := sweeper.RunOverdueSweep(r.Context())
		if err != nil {
			if errors.Is(err, ErrSweepRunning) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func buildEvent(farmID, cowID string, req recordEventRequest) (Event, error) {
	ev := Event{
		FarmID: farmID,
		CowID:  cowID,
		Type:   EventType(strings.ToUpper(strings.TrimSpace(req.Type))),
	}

	if s := strings.TrimSpace(req.OccurredAt); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = time.Parse("2006-01-02", s)
		}
		if err != nil {
			return Event{}, errors.New("occurred_at must be RFC3339 or YYYY-MM-DD")
		}
		ev.OccurredAt = t
	}

	switch ev.Type {
	case EventHeatSign:
		ev.Heat = &HeatDetail{Signs: strings.TrimSpace(req.HeatSigns)}
	case EventInsemination:
		ev.Insemination = &InseminationDetail{BullID: strings.TrimSpace(req.BullID), Count: req.Count}
	case EventPregnancyConfirmation:
		ev.Pregnancy = &PregnancyDetail{
			DaysUntilCalving:      req.DaysUntilCalving,
			ServicesPerConception: req.ServicesPerConception,
		}
	case EventCalving:
		ev.Calving = &CalvingDetail{CalfSex: strings.TrimSpace(req.CalfSex)}
	case EventMedicalAssessment:
		ev.Medical = &MedicalDetail{
			ReportedBy:          Reporter(strings.ToLower(strings.TrimSpace(req.ReportedBy))),
			SicknessDescription: strings.TrimSpace(req.Sickness),
			Diagnosis:           strings.TrimSpace(req.Diagnosis),
			Treatment:           strings.TrimSpace(req.Treatment),
			Notes:               strings.TrimSpace(req.Notes),
			IsCowSick:           req.IsCowSick,
		}
	default:
		return Event{}, errors.New("unknown event type")
	}

	return ev, nil
}

func toEventResponse(e Event) eventResponse {
	resp := eventResponse{
		ID:           e.ID,
		FarmID:       e.FarmID,
		CowID:        e.CowID,
		Type:         string(e.Type),
		OccurredAt:   e.OccurredAt,
		RecordedAt:   e.RecordedAt,
		Status:       string(e.Status),
		RejectReason: e.RejectReason,
	}
	switch {
	case e.Heat != nil:
		resp.Detail = e.Heat
	case e.Insemination != nil:
		resp.Detail = e.Insemination
	case e.Pregnancy != nil:
		resp.Detail = e.Pregnancy
	case e.Calving != nil:
		resp.Detail = e.Calving
	case e.Medical != nil:
		resp.Detail = e.Medical
	}
	return resp
}

// writeJSON is duplicated across module handlers on purpose, matching the
// rest of the codebase: no shared helper package until it earns its keep.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
