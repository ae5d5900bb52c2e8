package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/workflow-agent/internal/actions"
	"github.com/clinicops/workflow-agent/internal/agent"
	"github.com/clinicops/workflow-agent/internal/audit"
	"github.com/clinicops/workflow-agent/internal/store"
	"github.com/clinicops/workflow-agent/pkg/logging"
)

var seedStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store, *audit.Recorder) {
	t.Helper()

	logger := logging.NewWithWriter("error", "text", io.Discard)
	st := store.NewSeeded(store.SeedConfig{Seed: 42, HorizonDays: 28, Start: seedStart})
	recorder := audit.NewRecorder()
	registry := actions.NewRegistry(st, logger)
	a := agent.New(registry, recorder, logger, agent.WithClock(func() time.Time { return seedStart }))

	reg := prometheus.NewRegistry()
	h := NewHandler(a, st, recorder, logger)
	srv := httptest.NewServer(NewRouter(h, logger, reg))
	t.Cleanup(srv.Close)
	return srv, st, recorder
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) agent.Result {
	t.Helper()
	defer resp.Body.Close()
	var res agent.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestProcessRequestEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/requests", `{"text": "Find patient Ravi Kumar"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeResult(t, resp)
	assert.Equal(t, agent.StatusSuccess, res.Status)
	assert.NotEmpty(t, res.RequestID)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, actions.ActionSearchPatient, res.Steps[0].Action)
}

func TestProcessRequestRefusal(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/requests", `{"text": "What medication should I take for my headache?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeResult(t, resp)
	assert.Equal(t, agent.StatusRefused, res.Status)
	assert.Empty(t, res.Steps)
}

func TestProcessRequestDryRunDoesNotMutate(t *testing.T) {
	srv, st, _ := newTestServer(t)
	before := len(st.Appointments())

	resp := postJSON(t, srv.URL+"/v1/requests",
		`{"text": "Book a cardiology appointment for patient Ravi Kumar", "dry_run": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeResult(t, resp)
	assert.True(t, res.DryRun)
	assert.Equal(t, agent.StatusSuccess, res.Status)
	assert.Len(t, st.Appointments(), before)
}

func TestProcessRequestBadInput(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty text", `{"text": "   "}`},
		{"missing text", `{}`},
		{"malformed JSON", `{"text": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/v1/requests", tt.body)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSchemasEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/schemas")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var schemas []actions.Schema
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&schemas))
	require.Len(t, schemas, 4)
	assert.Equal(t, actions.ActionSearchPatient, schemas[0].Name)
}

func TestReadOnlyEndpoints(t *testing.T) {
	srv, st, _ := newTestServer(t)

	t.Run("patients", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/patients")
		require.NoError(t, err)
		defer resp.Body.Close()
		var patients []store.Patient
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&patients))
		assert.Len(t, patients, len(st.Patients()))
	})

	t.Run("slots", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/slots")
		require.NoError(t, err)
		defer resp.Body.Close()
		var slots []store.Slot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&slots))
		assert.NotEmpty(t, slots)
	})

	t.Run("appointments empty at start", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/appointments")
		require.NoError(t, err)
		defer resp.Body.Close()
		var appts []store.Appointment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&appts))
		assert.Empty(t, appts)
	})
}

func TestAuditEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	postJSON(t, srv.URL+"/v1/requests", `{"text": "Find patient Ravi Kumar"}`).Body.Close()

	resp, err := http.Get(srv.URL + "/v1/audit?action=search_patient")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []audit.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "search_patient", e.Action)
	}
}

func TestAuditEndpointCSV(t *testing.T) {
	srv, _, _ := newTestServer(t)

	postJSON(t, srv.URL+"/v1/requests", `{"text": "Find patient Ravi Kumar"}`).Body.Close()

	resp, err := http.Get(srv.URL + "/v1/audit?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, "id,timestamp,request_id,action,input,outcome,detail", lines[0])
	assert.Greater(t, len(lines), 1)
}

func TestAuditEndpointBadLimit(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/audit?limit=abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
