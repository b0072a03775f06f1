package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := router.NewRouter(router.Options{
		Log: logger.New(logger.Options{Level: logger.Error}),
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_ReproductiveCycle(t *testing.T) {
	ts := newTestServer(t)

	// 1) Register a farm
	farmID := createFarm(t, ts.URL, map[string]any{
		"owner_name": "Abebe",
		"address":    "Bahir Dar",
		"phone":      "0911223344",
	})

	// 2) Assign the inseminator and the doctor
	{
		st, body := doReq(t, ts.URL, "PUT", "/farms/"+farmID+"/inseminator", map[string]any{
			"name":  "Kebede",
			"phone": "0911000001",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 assign inseminator, got %d body=%s", st, string(body))
		}
		var resp struct {
			Inseminator *struct {
				Phone string `json:"phone"`
			} `json:"inseminator"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Inseminator == nil || resp.Inseminator.Phone != "+251911000001" {
			t.Fatalf("inseminator not assigned or phone not normalized: %s", string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "PUT", "/farms/"+farmID+"/doctor", map[string]any{
			"name":  "Tigist",
			"phone": "0911000002",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 assign doctor, got %d body=%s", st, string(body))
		}
	}

	// 3) Register a cow
	{
		st, body := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows", map[string]any{
			"id":    "C-001",
			"breed": "holstein",
			"sex":   "female",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create cow, got %d body=%s", st, string(body))
		}
	}

	// 4) Heat sign moves the cow to heat_detected and pages two people
	{
		st, body := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows/C-001/events", map[string]any{
			"type":       "HEAT_SIGN",
			"heat_signs": "mounting, restless",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 heat sign, got %d body=%s", st, string(body))
		}
		var resp struct {
			Phase      string `json:"phase"`
			Dispatched int    `json:"messages_dispatched"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Phase != "heat_detected" {
			t.Fatalf("expected phase heat_detected, got %q", resp.Phase)
		}
		if resp.Dispatched != 2 {
			t.Fatalf("expected 2 messages (inseminator + farmer), got %d", resp.Dispatched)
		}
	}

	// 5) Insemination
	{
		st, body := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows/C-001/events", map[string]any{
			"type":    "INSEMINATION",
			"bull_id": "B-7",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 insemination, got %d body=%s", st, string(body))
		}
		var resp struct {
			Phase string `json:"phase"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Phase != "inseminated" {
			t.Fatalf("expected phase inseminated, got %q", resp.Phase)
		}
	}

	// 6) A second insemination without heat is illegal => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows/C-001/events", map[string]any{
			"type":    "INSEMINATION",
			"bull_id": "B-7",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 repeat insemination, got %d", st)
		}
	}

	// 7) Pregnancy confirmation
	{
		st, body := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows/C-001/events", map[string]any{
			"type":               "PREGNANCY_CONFIRMATION",
			"days_until_calving": 280,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 pregnancy confirmation, got %d body=%s", st, string(body))
		}
		var resp struct {
			Phase string `json:"phase"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Phase != "pregnancy_confirmed" {
			t.Fatalf("expected phase pregnancy_confirmed, got %q", resp.Phase)
		}
	}

	// 8) The trail holds the rejected attempt too, newest first
	{
		st, body := doReq(t, ts.URL, "GET", "/farms/"+farmID+"/cows/C-001/events", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list events, got %d body=%s", st, string(body))
		}
		var items []struct {
			Type   string `json:"type"`
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 4 {
			t.Fatalf("expected 4 events in the trail, got %d body=%s", len(items), string(body))
		}
		rejected := 0
		for _, it := range items {
			if it.Status == "rejected" {
				rejected++
			}
		}
		if rejected != 1 {
			t.Fatalf("expected exactly 1 rejected event, got %d", rejected)
		}
	}

	// 9) The ledger recorded every notification as sent (dev gateway)
	{
		st, body := doReq(t, ts.URL, "GET", "/farms/"+farmID+"/messages", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list messages, got %d body=%s", st, string(body))
		}
		var items []struct {
			Status    string `json:"status"`
			Recipient string `json:"recipient"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) == 0 {
			t.Fatalf("expected ledger rows, got none body=%s", string(body))
		}
		for _, m := range items {
			if m.Status != "sent" {
				t.Fatalf("expected every message sent in dev mode, got %q body=%s", m.Status, string(body))
			}
			if m.Recipient == "" {
				t.Fatalf("expected resolved recipient, got empty body=%s", string(body))
			}
		}
	}

	// 10) Manual sweep runs clean: nothing is overdue yet
	{
		st, body := doReq(t, ts.URL, "POST", "/sweep/run", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 sweep run, got %d body=%s", st, string(body))
		}
		var resp struct {
			Checked int `json:"checked"`
			Emitted int `json:"emitted"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Checked != 1 || resp.Emitted != 0 {
			t.Fatalf("expected checked=1 emitted=0, got %+v", resp)
		}
	}
}

func TestHTTP_RecordEvent_Validation(t *testing.T) {
	ts := newTestServer(t)

	farmID := createFarm(t, ts.URL, map[string]any{
		"owner_name": "Almaz",
		"phone":      "0922334455",
	})

	// Cow on an unknown farm => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/farms/nope/cows", map[string]any{
			"id": "C-001", "sex": "female",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 cow on unknown farm, got %d", st)
		}
	}

	{
		st, body := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows", map[string]any{
			"id": "C-001", "sex": "female",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create cow, got %d body=%s", st, string(body))
		}
	}

	// Unknown event type => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows/C-001/events", map[string]any{
			"type": "VACCINATION",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 unknown event type, got %d", st)
		}
	}

	// Insemination with no prior heat => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows/C-001/events", map[string]any{
			"type":    "INSEMINATION",
			"bull_id": "B-1",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 insemination from open, got %d", st)
		}
	}

	// Farmer-reported sickness with no doctor assigned => 422
	{
		st, _ := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows/C-001/events", map[string]any{
			"type":        "MEDICAL_ASSESSMENT",
			"reported_by": "farmer",
			"sickness":    "limping",
		})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 sickness report with no doctor, got %d", st)
		}
	}

	// Duplicate ear tag on the same farm => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/farms/"+farmID+"/cows", map[string]any{
			"id": "C-001", "sex": "female",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate ear tag, got %d", st)
		}
	}
}

func createFarm(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/farms", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create farm, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create farm: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
