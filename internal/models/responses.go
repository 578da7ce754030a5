package models

import "time"

// StatusResponse is the backend's generic acknowledgement
// @Description Generic status response
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty" example:"Email sent successfully"`
}

// OK reports whether the backend acknowledged the operation
func (s StatusResponse) OK() bool {
	return s.Status == "success"
}

// ErrorResponse is returned by the dashboard for failed actions
// @Description Error response
type ErrorResponse struct {
	Error string `json:"error" example:"Backend unavailable"`
}

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// BackendHealthResponse represents a backend health check response
// @Description Backend health check response
type BackendHealthResponse struct {
	Status    string        `json:"status" example:"healthy"`
	Timestamp time.Time     `json:"timestamp" example:"2023-01-01T00:00:00Z"`
	Reachable bool          `json:"reachable" example:"true"`
	Latency   time.Duration `json:"latency" swaggertype:"string" example:"1ms"`
	Error     string        `json:"error,omitempty" example:""`
}

// StoreHealthResponse represents a session store health check response
// @Description Session store health check response
type StoreHealthResponse struct {
	Status    string        `json:"status" example:"healthy"`
	Store     string        `json:"store" example:"sql"`
	Timestamp time.Time     `json:"timestamp" example:"2023-01-01T00:00:00Z"`
	Latency   time.Duration `json:"latency" swaggertype:"string" example:"1ms"`
	Error     string        `json:"error,omitempty" example:""`
}

// GmailStatusResponse reports whether a Gmail account is connected
// @Description Gmail connection status
type GmailStatusResponse struct {
	Connected bool   `json:"connected" example:"true"`
	Degraded  bool   `json:"degraded,omitempty"`
	Error     string `json:"error,omitempty"`
}
