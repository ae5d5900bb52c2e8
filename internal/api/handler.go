// Package api exposes the agent over HTTP. The API is packaging glue: it
// forwards request text to the orchestrator and serves read-only views of
// the store, schemas, and audit log.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/clinicops/workflow-agent/internal/actions"
	"github.com/clinicops/workflow-agent/internal/agent"
	"github.com/clinicops/workflow-agent/internal/audit"
	"github.com/clinicops/workflow-agent/internal/store"
	"github.com/clinicops/workflow-agent/pkg/logging"
)

// Handler serves the workflow API.
type Handler struct {
	agent    *agent.Agent
	store    *store.Store
	recorder *audit.Recorder
	logger   *logging.Logger
}

// NewHandler creates the API handler.
func NewHandler(a *agent.Agent, st *store.Store, recorder *audit.Recorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{agent: a, store: st, recorder: recorder, logger: logger}
}

type processRequestBody struct {
	Text   string `json:"text"`
	DryRun bool   `json:"dry_run"`
}

// ProcessRequest handles POST /v1/requests.
func (h *Handler) ProcessRequest(w http.ResponseWriter, r *http.Request) {
	var body processRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	res := h.agent.ProcessRequest(r.Context(), body.Text, body.DryRun)
	writeJSON(w, http.StatusOK, res)
}

// Schemas handles GET /v1/schemas.
func (h *Handler) Schemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, actions.Schemas())
}

// Patients handles GET /v1/patients.
func (h *Handler) Patients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Patients())
}

// Slots handles GET /v1/slots.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Slots())
}

// Appointments handles GET /v1/appointments.
func (h *Handler) Appointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Appointments())
}

// AuditLog handles GET /v1/audit. Filters come from query parameters;
// format=csv switches the export encoding.
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		RequestID: q.Get("request_id"),
		Action:    q.Get("action"),
		Outcome:   audit.Outcome(q.Get("outcome")),
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	if q.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="audit_log.csv"`)
		if err := h.recorder.ExportCSV(w, filter); err != nil {
			h.logger.Error("audit CSV export failed", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := h.recorder.ExportJSON(w, filter); err != nil {
		h.logger.Error("audit JSON export failed", "error", err)
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
