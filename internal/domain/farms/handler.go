package farms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/farms", func(fr chi.Router) {
		fr.Post("/", registerFarmHandler(svc))
		fr.Get("/", listFarmsHandler(svc))
		fr.Get("/{farmID}", getFarmHandler(svc))

		fr.Put("/{farmID}/inseminator", assignStaffHandler(svc.AssignInseminator))
		fr.Delete("/{farmID}/inseminator", unassignStaffHandler(svc.UnassignInseminator))
		fr.Put("/{farmID}/doctor", assignStaffHandler(svc.AssignDoctor))
		fr.Delete("/{farmID}/doctor", unassignStaffHandler(svc.UnassignDoctor))
	})
}

type registerFarmRequest struct {
	OwnerName string `json:"owner_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type staffRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type staffResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type farmResponse struct {
	ID        string `json:"id"`
	OwnerName string `json:"owner_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`

	Inseminator *staffResponse `json:"inseminator,omitempty"`
	Doctor      *staffResponse `json:"doctor,omitempty"`

	RegisteredAt time.Time `json:"registered_at"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// registerFarmHandler godoc
// @Summary Register a farm
// @Description Creates a farm. The phone number is normalized to +251 form.
// @Tags farms
// @Accept json
// @Produce json
// @Param request body registerFarmRequest true "Farm"
// @Success 201 {object} farmResponse
// @Failure 400 {string} string "invalid input"
// @Router /farms [post]
func registerFarmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerFarmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f, err := svc.Register(r.Context(), RegisterInput{
			OwnerName: req.OwnerName,
			Address:   req.Address,
			Phone:     req.Phone,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toFarmResponse(f))
	}
}

// listFarmsHandler godoc
// @Summary List farms
// @Tags farms
// @Produce json
// @Success 200 {array} farmResponse
// @Router /farms [get]
func listFarmsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]farmResponse, 0, len(items))
		for _, f := range items {
			out = append(out, toFarmResponse(f))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getFarmHandler godoc
// @Summary Get a farm
// @Tags farms
// @Produce json
// @Param farmID path string true "Farm ID"
// @Success 200 {object} farmResponse
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID} [get]
func getFarmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.Get(r.Context(), chi.URLParam(r, "farmID"))
		if err != nil {
			http.Error(w, "farm not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toFarmResponse(f))
	}
}

// assignStaffHandler godoc
// @Summary Assign an inseminator or doctor to a farm
// @Description The new staff member is notified by SMS; a previously assigned one gets an unassignment notice.
// @Tags farms
// @Accept json
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param request body staffRequest true "Staff member"
// @Success 200 {object} farmResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID}/inseminator [put]
func assignStaffHandler(assign func(ctx context.Context, farmID string, in StaffInput) (Farm, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req staffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f, err := assign(r.Context(), chi.URLParam(r, "farmID"), StaffInput{Name: req.Name, Phone: req.Phone})
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "farm not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toFarmResponse(f))
	}
}

// unassignStaffHandler godoc
// @Summary Detach an inseminator or doctor from a farm
// @Tags farms
// @Produce json
// @Param farmID path string true "Farm ID"
// @Success 200 {object} farmResponse
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID}/inseminator [delete]
func unassignStaffHandler(unassign func(ctx context.Context, farmID string) (Farm, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := unassign(r.Context(), chi.URLParam(r, "farmID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "farm not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toFarmResponse(f))
	}
}

func toFarmResponse(f Farm) farmResponse {
	resp := farmResponse{
		ID:           f.ID,
		OwnerName:    f.OwnerName,
		Address:      f.Address,
		Phone:        f.Phone,
		RegisteredAt: f.RegisteredAt,
		Active:       f.Active,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	if f.Inseminator != nil {
		resp.Inseminator = &staffResponse{ID: f.Inseminator.ID, Name: f.Inseminator.Name, Phone: f.Inseminator.Phone}
	}
	if f.Doctor != nil {
		resp.Doctor = &staffResponse{ID: f.Doctor.ID, Name: f.Doctor.Name, Phone: f.Doctor.Phone}
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
