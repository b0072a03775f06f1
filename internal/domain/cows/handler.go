package cows

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dairy-herd-manager/internal/domain/farms"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, farmsSvc *farms.Service) {
	r.Route("/farms/{farmID}/cows", func(cr chi.Router) {
		cr.Post("/", registerCowHandler(svc, farmsSvc))
		cr.Get("/", listCowsHandler(svc, farmsSvc))
		cr.Get("/{cowID}", getCowHandler(svc))
		cr.Delete("/{cowID}", deactivateCowHandler(svc))
	})
}

type registerCowRequest struct {
	ID              string `json:"id"`
	Breed           string `json:"breed"`
	Sex             string `json:"sex"`
	BirthDate       string `json:"birth_date"` // YYYY-MM-DD, optional
	LactationNumber int    `json:"lactation_number"`
	DaysInMilk      int    `json:"days_in_milk"`
}

type cowResponse struct {
	FarmID string `json:"farm_id"`
	ID     string `json:"id"`

	Breed     string     `json:"breed"`
	Sex       string     `json:"sex"`
	BirthDate *time.Time `json:"birth_date,omitempty"`

	LactationNumber int `json:"lactation_number"`
	DaysInMilk      int `json:"days_in_milk"`

	Phase                string     `json:"phase"`
	Pregnant             bool       `json:"pregnant"`
	LastHeatAt           *time.Time `json:"last_heat_at,omitempty"`
	LastInseminationAt   *time.Time `json:"last_insemination_at,omitempty"`
	PregnancyConfirmedAt *time.Time `json:"pregnancy_confirmed_at,omitempty"`
	LastCalvingAt        *time.Time `json:"last_calving_at,omitempty"`
	ExpectedCalvingAt    *time.Time `json:"expected_calving_at,omitempty"`
	InseminationAttempts int        `json:"insemination_attempts"`
	LastBullID           string     `json:"last_bull_id,omitempty"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// registerCowHandler godoc
// @Summary Register a cow
// @Description Adds a cow to a farm. The id is the farmer's ear-tag, unique within the farm.
// @Tags cows
// @Accept json
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param request body registerCowRequest true "Cow"
// @Success 201 {object} cowResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "farm not found"
// @Failure 409 {string} string "cow already exists"
// @Router /farms/{farmID}/cows [post]
func registerCowHandler(svc *Service, farmsSvc *farms.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID := chi.URLParam(r, "farmID")
		if _, err := farmsSvc.Get(r.Context(), farmID); err != nil {
			http.Error(w, "farm not found", http.StatusNotFound)
			return
		}

		var req registerCowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		c, err := svc.Register(r.Context(), farmID, RegisterInput{
			ID:              req.ID,
			Breed:           req.Breed,
			Sex:             req.Sex,
			BirthDate:       bd,
			LactationNumber: req.LactationNumber,
			DaysInMilk:      req.DaysInMilk,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrAlreadyExists):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toCowResponse(c))
	}
}

// listCowsHandler godoc
// @Summary List a farm's cows
// @Tags cows
// @Produce json
// @Param farmID path string true "Farm ID"
// @Success 200 {array} cowResponse
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID}/cows [get]
func listCowsHandler(svc *Service, farmsSvc *farms.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID := chi.URLParam(r, "farmID")
		if _, err := farmsSvc.Get(r.Context(), farmID); err != nil {
			http.Error(w, "farm not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByFarm(r.Context(), farmID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]cowResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCowResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getCowHandler godoc
// @Summary Get a cow with its reproductive state
// @Tags cows
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param cowID path string true "Cow ID"
// @Success 200 {object} cowResponse
// @Failure 404 {string} string "cow not found"
// @Router /farms/{farmID}/cows/{cowID} [get]
func getCowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Get(r.Context(), chi.URLParam(r, "farmID"), chi.URLParam(r, "cowID"))
		if err != nil {
			http.Error(w, "cow not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toCowResponse(c))
	}
}

// deactivateCowHandler godoc
// @Summary Deactivate a cow
// @Description Soft delete: the cow leaves the active herd but its event and message history stays readable.
// @Tags cows
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param cowID path string true "Cow ID"
// @Success 200 {object} cowResponse
// @Failure 404 {string} string "cow not found"
// @Router /farms/{farmID}/cows/{cowID} [delete]
func deactivateCowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Deactivate(r.Context(), chi.URLParam(r, "farmID"), chi.URLParam(r, "cowID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "cow not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCowResponse(c))
	}
}

func toCowResponse(c Cow) cowResponse {
	return cowResponse{
		FarmID:               c.FarmID,
		ID:                   c.ID,
		Breed:                c.Breed,
		Sex:                  string(c.Sex),
		BirthDate:            c.BirthDate,
		LactationNumber:      c.LactationNumber,
		DaysInMilk:           c.DaysInMilk,
		Phase:                string(c.Phase),
		Pregnant:             c.Pregnant,
		LastHeatAt:           c.LastHeatAt,
		LastInseminationAt:   c.LastInseminationAt,
		PregnancyConfirmedAt: c.PregnancyConfirmedAt,
		LastCalvingAt:        c.LastCalvingAt,
		ExpectedCalvingAt:    c.ExpectedCalvingAt,
		InseminationAttempts: c.InseminationAttempts,
		LastBullID:           c.LastBullID,
		Active:               c.Active,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

// writeJSON is duplicated across module handlers on purpose, matching the
// rest of the codebase: no shared helper package until it earns its keep.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
