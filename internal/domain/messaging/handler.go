package messaging

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, ledger Repository) {
	r.Get("/farms/{farmID}/messages", listFarmMessagesHandler(ledger))
	r.Get("/farms/{farmID}/cows/{cowID}/messages", listCowMessagesHandler(ledger))
}

// messageResponse is one ledger row as returned by the API.
type messageResponse struct {
	ID          string    `json:"id"`
	FarmID      string    `json:"farm_id"`
	CowID       string    `json:"cow_id,omitempty"`
	Type        string    `json:"type"`
	Role        string    `json:"role"`
	Recipient   string    `json:"recipient"`
	Body        string    `json:"body"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	ProviderRef string    `json:"provider_ref,omitempty"`
	ResendOf    string    `json:"resend_of,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// listFarmMessagesHandler godoc
// @Summary List a farm's notification history
// @Description Returns the message ledger rows for a farm, newest first.
// @Tags messages
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param limit query int false "Maximum rows to return (1-200, default 50)"
// @Success 200 {array} messageResponse
// @Failure 500 {string} string "internal error"
// @Router /farms/{farmID}/messages [get]
func listFarmMessagesHandler(ledger Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID := chi.URLParam(r, "farmID")

		items, err := ledger.ListByFarm(r.Context(), farmID, parseLimit(r))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// listCowMessagesHandler godoc
// @Summary List a cow's notification history
// @Description Returns the message ledger rows referencing a cow, newest first. The history survives cow deactivation.
// @Tags messages
// @Produce json
// @Param farmID path string true "Farm ID"
// @Param cowID path string true "Cow ID"
// @Param limit query int false "Maximum rows to return (1-200, default 50)"
// @Success 200 {array} messageResponse
// @Failure 500 {string} string "internal error"
// @Router /farms/{farmID}/cows/{cowID}/messages [get]
func listCowMessagesHandler(ledger Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID := chi.URLParam(r, "farmID")
		cowID := chi.URLParam(r, "cowID")

		items, err := ledger.ListByCow(r.Context(), farmID, cowID, parseLimit(r))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func parseLimit(r *http.Request) int {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return limit
}

func toResponses(items []Message) []messageResponse {
	out := make([]messageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, messageResponse{
			ID:          m.ID,
			FarmID:      m.FarmID,
			CowID:       m.CowID,
			Type:        string(m.Type),
			Role:        string(m.Role),
			Recipient:   m.Recipient,
			Body:        m.Body,
			Status:      string(m.Status),
			Error:       m.Error,
			ProviderRef: m.ProviderRef,
			ResendOf:    m.ResendOf,
			SentAt:      m.SentAt,
		})
	}
	return out
}

// writeJSON is duplicated across module handlers on purpose, matching the
// rest of the codebase: no shared helper package until it earns its keep.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
