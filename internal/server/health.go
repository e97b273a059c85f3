package server

import (
	"errors"
	"net/http"
	"time"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp       ComponentStatus = "up"
	ComponentStatusDown     ComponentStatus = "down"
	ComponentStatusDegraded ComponentStatus = "degraded"
)

// Health represents the complete health check response
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single system component
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
}

// HandleHealth provides a detailed health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth()

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, health)
}

// HandleLive provides a liveness probe (is the process running?)
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// checkHealth performs health checks on the metadata and blob stores
func (s *Server) checkHealth() Health {
	health := Health{
		Timestamp:  time.Now(),
		Version:    s.cfg.Build.Version,
		Components: make(map[string]ComponentHealth),
	}

	health.Components["metadata_store"] = s.checkMetadataHealth()
	health.Components["blob_store"] = s.checkBlobHealth()
	health.Status = determineOverallHealth(health.Components)

	return health
}

// checkMetadataHealth verifies the history document is readable
func (s *Server) checkMetadataHealth() ComponentHealth {
	start := time.Now()

	_, err := s.store.List()
	if err != nil {
		if errors.Is(err, ErrCorruptStore) {
			return ComponentHealth{
				Status:  ComponentStatusDown,
				Message: "metadata document is corrupt",
			}
		}
		return ComponentHealth{
			Status:  ComponentStatusDown,
			Message: "metadata read failed: " + err.Error(),
		}
	}

	latency := time.Since(start).Milliseconds()

	status := ComponentStatusUp
	message := "metadata healthy"
	if latency > 1000 {
		status = ComponentStatusDegraded
		message = "metadata read latency high"
	}

	return ComponentHealth{
		Status:    status,
		Message:   message,
		LatencyMs: float64(latency),
	}
}

// checkBlobHealth round-trips a probe blob through the store
func (s *Server) checkBlobHealth() ComponentHealth {
	start := time.Now()

	const probeKey = "healthcheck.probe"
	if err := s.blobs.Put(probeKey, []byte("ok")); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDown,
			Message: "blob write failed: " + err.Error(),
		}
	}
	if _, err := s.blobs.Get(probeKey); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDown,
			Message: "blob read failed: " + err.Error(),
		}
	}
	// The probe shares the namespace served by /download/, so it is
	// removed as soon as the round trip succeeds.
	if err := s.blobs.Delete(probeKey); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDegraded,
			Message: "probe cleanup failed: " + err.Error(),
		}
	}

	latency := time.Since(start).Milliseconds()

	status := ComponentStatusUp
	message := "blob store healthy"
	if latency > 2000 {
		status = ComponentStatusDegraded
		message = "blob store latency high"
	}

	return ComponentHealth{
		Status:    status,
		Message:   message,
		LatencyMs: float64(latency),
	}
}

// determineOverallHealth calculates overall health from component statuses
func determineOverallHealth(components map[string]ComponentHealth) HealthStatus {
	var (
		downCount     int
		degradedCount int
	)

	for _, component := range components {
		switch component.Status {
		case ComponentStatusDown:
			downCount++
		case ComponentStatusDegraded:
			degradedCount++
		}
	}

	if downCount > 0 {
		return HealthStatusUnhealthy
	}
	if degradedCount > 0 {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}
