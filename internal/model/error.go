package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Address string `json:"address"`
}
