// Package main walks the booking wizard end to end against a running API.
//
// Scenarios:
//   - service-first happy path through submission
//   - doctor-first happy path through submission
//   - invalid phone number stays on the contact step
//   - leave: deleting a session discards the draft
//
// Usage:
//
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go              # runs all
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go doctor-first # runs one
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

var (
	apiBase = "http://localhost:8080"
	client  = &http.Client{Timeout: 30 * time.Second}
)

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

type view struct {
	SessionID string `json:"session_id"`
	Step      string `json:"step"`
	Error     string `json:"error"`
	Doctors   *struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	} `json:"doctors"`
	Services *struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	} `json:"services"`
	Slots *struct {
		Dates []string `json:"dates"`
		Slots []struct {
			SlotID          string `json:"slot_id"`
			Active          bool   `json:"is_active"`
			CurrentBookings int    `json:"current_bookings"`
			MaxBookings     int    `json:"max_bookings"`
		} `json:"slots"`
	} `json:"slots"`
	Confirmation *struct {
		Success       bool   `json:"success"`
		AppointmentID string `json:"appointment_id"`
		Message       string `json:"message"`
	} `json:"confirmation"`
}

func call(method, path string, body any) (*view, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}
	req, err := http.NewRequest(method, apiBase+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.StatusCode, nil
	}
	var v view
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, resp.StatusCode, err
	}
	return &v, resp.StatusCode, nil
}

func session(id string) string { return "/wizard/sessions/" + id }

func start(t *T, path string) *view {
	v, _, err := call(http.MethodPost, "/wizard/sessions", nil)
	if err != nil {
		t.fatalf("create session: %v", err)
		return nil
	}
	t.check("new session starts at choose_type", v.Step == "choose_type")
	v, _, err = call(http.MethodPost, session(v.SessionID)+"/type", map[string]string{"type": path})
	if err != nil {
		t.fatalf("choose type: %v", err)
		return nil
	}
	t.check("type choice lands on contact_info", v.Step == "contact_info")
	return v
}

func fillContact(t *T, id string) *view {
	if _, _, err := call(http.MethodPut, session(id)+"/phone-region", map[string]string{"code": "VN"}); err != nil {
		t.fatalf("phone region: %v", err)
		return nil
	}
	_, _, err := call(http.MethodPut, session(id)+"/contact", map[string]string{
		"fullName": "E2E Patient",
		"email":    "e2e@example.com",
		"phone":    "0912345678",
		"message":  "Smoke test booking",
	})
	if err != nil {
		t.fatalf("contact: %v", err)
		return nil
	}
	v, _, err := call(http.MethodPost, session(id)+"/advance", nil)
	if err != nil {
		t.fatalf("advance from contact: %v", err)
		return nil
	}
	return v
}

func pickService(t *T, v *view) *view {
	if v.Services == nil || len(v.Services.Items) == 0 {
		t.fatalf("no services listed at %s", v.Step)
		return nil
	}
	if _, _, err := call(http.MethodPut, session(v.SessionID)+"/service", map[string]string{"service_id": v.Services.Items[0].ID}); err != nil {
		t.fatalf("select service: %v", err)
		return nil
	}
	next, _, err := call(http.MethodPost, session(v.SessionID)+"/advance", nil)
	if err != nil {
		t.fatalf("advance from service: %v", err)
		return nil
	}
	return next
}

func pickDoctor(t *T, v *view) *view {
	if v.Doctors == nil || len(v.Doctors.Items) == 0 {
		t.fatalf("no doctors listed at %s", v.Step)
		return nil
	}
	if _, _, err := call(http.MethodPut, session(v.SessionID)+"/doctor", map[string]string{"doctor_id": v.Doctors.Items[0].ID}); err != nil {
		t.fatalf("select doctor: %v", err)
		return nil
	}
	next, _, err := call(http.MethodPost, session(v.SessionID)+"/advance", nil)
	if err != nil {
		t.fatalf("advance from doctor: %v", err)
		return nil
	}
	return next
}

func pickSlotAndSubmit(t *T, v *view) {
	t.check("reached select_slot", v.Step == "select_slot")
	if v.Slots == nil || len(v.Slots.Dates) == 0 {
		t.fatalf("no slot dates offered")
		return
	}
	v, _, err := call(http.MethodPut, session(v.SessionID)+"/date", map[string]string{"date": v.Slots.Dates[0]})
	if err != nil || v.Slots == nil {
		t.fatalf("select date: %v", err)
		return
	}
	slotID := ""
	for _, s := range v.Slots.Slots {
		if s.Active && s.CurrentBookings < s.MaxBookings {
			slotID = s.SlotID
			break
		}
	}
	if slotID == "" {
		t.fatalf("no selectable slot on %s", v.Slots.Dates[0])
		return
	}
	if _, _, err := call(http.MethodPut, session(v.SessionID)+"/slot", map[string]string{"slot_id": slotID}); err != nil {
		t.fatalf("select slot: %v", err)
		return
	}
	v, _, err = call(http.MethodPost, session(v.SessionID)+"/submit", nil)
	if err != nil {
		t.fatalf("submit: %v", err)
		return
	}
	t.check("submission confirmed", v.Step == "submitted" && v.Confirmation != nil && v.Confirmation.Success)
	if v.Confirmation != nil {
		fmt.Printf("    appointment: %s\n", v.Confirmation.AppointmentID)
	}
}

func scenarioServiceFirst(t *T) {
	v := start(t, "serfirst")
	if v == nil {
		return
	}
	if v = fillContact(t, v.SessionID); v == nil {
		return
	}
	t.check("contact accepted", v.Step == "select_service" && v.Error == "")
	if v = pickService(t, v); v == nil {
		return
	}
	t.check("service leads to doctor", v.Step == "select_doctor")
	if v = pickDoctor(t, v); v == nil {
		return
	}
	pickSlotAndSubmit(t, v)
}

func scenarioDoctorFirst(t *T) {
	v := start(t, "docfirst")
	if v == nil {
		return
	}
	if v = fillContact(t, v.SessionID); v == nil {
		return
	}
	t.check("contact accepted", v.Step == "select_doctor" && v.Error == "")
	if v = pickDoctor(t, v); v == nil {
		return
	}
	t.check("doctor leads to service", v.Step == "select_service")
	if v = pickService(t, v); v == nil {
		return
	}
	pickSlotAndSubmit(t, v)
}

func scenarioInvalidPhone(t *T) {
	v := start(t, "docfirst")
	if v == nil {
		return
	}
	id := v.SessionID
	_, _, err := call(http.MethodPut, session(id)+"/contact", map[string]string{
		"fullName": "E2E Patient",
		"phone":    "12345",
		"message":  "Bad phone",
	})
	if err != nil {
		t.fatalf("contact: %v", err)
		return
	}
	v, _, err = call(http.MethodPost, session(id)+"/advance", nil)
	if err != nil {
		t.fatalf("advance: %v", err)
		return
	}
	t.check("stays on contact_info", v.Step == "contact_info")
	t.check("reports an error", v.Error != "")
}

func scenarioLeave(t *T) {
	v := start(t, "serfirst")
	if v == nil {
		return
	}
	_, status, err := call(http.MethodDelete, session(v.SessionID), nil)
	if err != nil {
		t.fatalf("delete: %v", err)
		return
	}
	t.check("delete returns 204", status == http.StatusNoContent)
	_, status, _ = call(http.MethodGet, session(v.SessionID), nil)
	t.check("deleted session is gone", status == http.StatusNotFound)
}

func main() {
	if base := os.Getenv("API_BASE_URL"); base != "" {
		apiBase = base
	}

	scenarios := []scenario{
		{"service-first", scenarioServiceFirst},
		{"doctor-first", scenarioDoctorFirst},
		{"invalid-phone", scenarioInvalidPhone},
		{"leave", scenarioLeave},
	}

	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed, totalFailed := 0, 0
	for _, sc := range scenarios {
		if filter != "" && sc.Name != filter {
			continue
		}
		fmt.Printf("=== %s\n", sc.Name)
		t := &T{}
		sc.Fn(t)
		totalPassed += t.passed
		totalFailed += t.failed
	}

	fmt.Printf("\n%d passed, %d failed\n", totalPassed, totalFailed)
	if totalFailed > 0 {
		os.Exit(1)
	}
}
