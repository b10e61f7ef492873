// Package health tracks per-component health and aggregates it into a
// single system status for the health endpoint.
package health

import "time"

// Component status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Status is the health state of one component or of the whole system.
type Status struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
}

// IsHealthy reports whether the status is healthy.
func (s Status) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// IsDegraded reports whether the status is degraded.
func (s Status) IsDegraded() bool {
	return s.Status == StatusDegraded
}

// NewHealthy builds a healthy status for a component.
func NewHealthy(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   true,
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewDegraded builds a degraded status for a component.
func NewDegraded(component, message string) Status {
	return Status{
		Component: component,
		Status:    StatusDegraded,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnhealthy builds an unhealthy status for a component.
func NewUnhealthy(component, message string) Status {
	return Status{
		Component: component,
		Status:    StatusUnhealthy,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
