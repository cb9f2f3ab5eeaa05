package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sentinel/pkg/sentinel"
)

const (
	serviceName    = "Sentinel AI Stock Analysis"
	serviceVersion = "1.0.0"
)

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	reasoning := "fallback_mode"
	if h.core.AIAvailable() {
		reasoning = "active"
	}
	writeJSON(w, http.StatusOK, serviceInfo{
		Service: serviceName,
		Version: serviceVersion,
		Status:  "operational",
		Agents: map[string]string{
			"data_collection": "active",
			"ai_reasoning":    reasoning,
			"orchestration":   "active",
		},
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status:      "healthy",
		Timestamp:   time.Now().Format(time.RFC3339),
		AIAvailable: h.core.AIAvailable(),
	})
}

func (h *handler) generateReport(w http.ResponseWriter, r *http.Request) {
	var payload generateReportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "company_name and a valid email are required")
		return
	}

	result := h.core.GenerateReport(r.Context(), sentinel.ReportRequest{
		CompanyName: payload.CompanyName,
		Email:       payload.Email,
	})
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) verifyPrice(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	writeJSON(w, http.StatusOK, h.core.VerifyPrice(r.Context(), ticker))
}
