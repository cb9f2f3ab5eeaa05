package api

// generateReportPayload is the request body for POST /api/generate-report.
// CompanyName carries the ticker symbol; the field name is kept for
// client compatibility.
type generateReportPayload struct {
	CompanyName string `json:"company_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

// serviceInfo is the GET / response.
type serviceInfo struct {
	Service string            `json:"service"`
	Version string            `json:"version"`
	Status  string            `json:"status"`
	Agents  map[string]string `json:"agents"`
}

// healthStatus is the GET /health response.
type healthStatus struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	AIAvailable bool   `json:"ai_available"`
}
