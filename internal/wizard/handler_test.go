package wizard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-booking/internal/booking"
)

type viewResponse struct {
	SessionID string `json:"session_id"`
	Step      string `json:"step"`
	Error     string `json:"error"`
	Draft     Draft  `json:"draft"`
	Slots     *struct {
		Dates []string `json:"dates"`
		Slots []struct {
			SlotID string `json:"slot_id"`
		} `json:"slots"`
	} `json:"slots"`
	Confirmation *booking.Result `json:"confirmation"`
}

func newTestServer(t *testing.T, sub booking.Submitter) *httptest.Server {
	t.Helper()
	m := newTestManager(NewMemoryStore(), &clock{now: fixedNow}, 0)
	m.deps.Submitter = sub
	r := chi.NewRouter()
	NewHandler(m, nil).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, viewResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var view viewResponse
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&view)
	}
	return resp.StatusCode, view
}

func TestHandlerBookingFlow(t *testing.T) {
	sub := &stubSubmitter{result: &booking.Result{Success: true, AppointmentID: "apt-77"}}
	srv := newTestServer(t, sub)

	status, view := call(t, srv, http.MethodPost, "/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "choose_type", view.Step)
	base := "/wizard/sessions/" + view.SessionID

	_, view = call(t, srv, http.MethodPost, base+"/type", map[string]string{"type": "serfirst"})
	assert.Equal(t, "contact_info", view.Step)

	_, view = call(t, srv, http.MethodPut, base+"/contact", ContactInput{
		FullName: "Lan Nguyen", Phone: "+84 901 234 567", Message: "Checkup",
	})
	assert.Equal(t, "901 234 567", view.Draft.Phone)

	_, view = call(t, srv, http.MethodPost, base+"/advance", nil)
	require.Equal(t, "select_service", view.Step, view.Error)
	call(t, srv, http.MethodPut, base+"/service", map[string]string{"service_id": "svc-cardio"})
	_, view = call(t, srv, http.MethodPost, base+"/advance", nil)
	require.Equal(t, "select_doctor", view.Step, view.Error)
	call(t, srv, http.MethodPut, base+"/doctor", map[string]string{"doctor_id": "doc-an"})
	_, view = call(t, srv, http.MethodPost, base+"/advance", nil)
	require.Equal(t, "select_slot", view.Step, view.Error)
	require.NotNil(t, view.Slots)
	assert.Equal(t, []string{"2026-10-20", "2026-10-21"}, view.Slots.Dates)

	_, view = call(t, srv, http.MethodPut, base+"/slot", map[string]string{"slot_id": "a2"})
	assert.Equal(t, "a2", view.Draft.PreferredSlotID)

	_, view = call(t, srv, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, "submitted", view.Step)
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, "apt-77", view.Confirmation.AppointmentID)
}

func TestHandlerValidationFailureIsOK(t *testing.T) {
	srv := newTestServer(t, &stubSubmitter{})
	_, view := call(t, srv, http.MethodPost, "/wizard/sessions", nil)
	base := "/wizard/sessions/" + view.SessionID

	call(t, srv, http.MethodPost, base+"/type", map[string]string{"type": "docfirst"})
	status, view := call(t, srv, http.MethodPost, base+"/advance", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "contact_info", view.Step)
	assert.Equal(t, msgFullNameRequired, view.Error)
}

func TestHandlerErrors(t *testing.T) {
	srv := newTestServer(t, &stubSubmitter{})

	status, _ := call(t, srv, http.MethodGet, "/wizard/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, view := call(t, srv, http.MethodPost, "/wizard/sessions", nil)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/wizard/sessions/"+view.SessionID+"/contact", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, _ = call(t, srv, http.MethodDelete, "/wizard/sessions/"+view.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, srv, http.MethodGet, "/wizard/sessions/"+view.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandlerCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubSubmitter{})

	resp, err := srv.Client().Get(srv.URL + "/catalog/doctors?service_id=svc-cardio&page_size=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	var doctors struct {
		Page struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
			TotalPages int `json:"total_pages"`
		} `json:"page"`
		Summary struct {
			Shown int `json:"shown"`
			Total int `json:"total"`
		} `json:"summary"`
		Demo bool `json:"demo"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doctors))
	assert.Len(t, doctors.Page.Items, 1)
	assert.Equal(t, 2, doctors.Page.TotalPages)
	assert.Equal(t, 2, doctors.Summary.Total)
	assert.True(t, doctors.Demo)

	resp2, err := srv.Client().Get(srv.URL + "/catalog/services?doctor_id=unknown")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	resp3, err := srv.Client().Get(srv.URL + "/phone-regions")
	require.NoError(t, err)
	defer resp3.Body.Close()
	var regions struct {
		Default string `json:"default"`
		Regions []struct {
			Code string `json:"code"`
		} `json:"regions"`
	}
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&regions))
	assert.Equal(t, "VN", regions.Default)
	assert.Len(t, regions.Regions, 5)
}
