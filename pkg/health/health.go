// Package health provides liveness and readiness probes for the simulation
// driver: HTTP endpoints aggregating pluggable checks over the swarm and the
// process.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Check is one component's health probe.
type Check interface {
	// Name returns the unique name of this check
	Name() string
	// Check returns an error if the component is unhealthy
	Check(ctx context.Context) error
}

// Status is the aggregated health of the application.
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the health of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker manages and executes the registered health checks.
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates an empty health checker.
func NewChecker() *Checker {
	return &Checker{
		checks: make(map[string]Check),
	}
}

// AddCheck registers a check, replacing any existing check with the same name.
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// CheckHealth executes all registered checks. The overall status is
// "healthy" only if every individual check passes.
func (c *Checker) CheckHealth(ctx context.Context) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := Status{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range c.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{Status: "healthy"}
		}
	}

	return status
}

// LivenessHandler returns 200 OK while the process is able to serve requests.
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler executes all checks and returns 200 OK when healthy or
// 503 Service Unavailable when any check fails.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := c.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// SwarmCheck reports unhealthy when the swarm's agent loops are not running.
type SwarmCheck struct {
	running func() bool
}

// NewSwarmCheck creates a check over the swarm lifecycle state.
func NewSwarmCheck(running func() bool) *SwarmCheck {
	return &SwarmCheck{running: running}
}

// Name returns the name of this check.
func (s *SwarmCheck) Name() string {
	return "swarm"
}

// Check verifies the swarm is running.
func (s *SwarmCheck) Check(ctx context.Context) error {
	if !s.running() {
		return fmt.Errorf("swarm is not running")
	}
	return nil
}

// MemoryCheck reports unhealthy when process memory exceeds a ceiling.
type MemoryCheck struct {
	limitMB   int64
	currentMB func() int64
}

// NewMemoryCheck creates a memory ceiling check.
func NewMemoryCheck(limitMB int64, currentMB func() int64) *MemoryCheck {
	return &MemoryCheck{limitMB: limitMB, currentMB: currentMB}
}

// Name returns the name of this check.
func (m *MemoryCheck) Name() string {
	return "memory"
}

// Check verifies memory usage is within the ceiling.
func (m *MemoryCheck) Check(ctx context.Context) error {
	if current := m.currentMB(); current > m.limitMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", current, m.limitMB)
	}
	return nil
}

// GoroutineCheck reports unhealthy when the process goroutine count exceeds
// a ceiling, which for this simulator usually means leaked agent loops.
type GoroutineCheck struct {
	limit int
	count func() int
}

// NewGoroutineCheck creates a goroutine ceiling check.
func NewGoroutineCheck(limit int, count func() int) *GoroutineCheck {
	return &GoroutineCheck{limit: limit, count: count}
}

// Name returns the name of this check.
func (g *GoroutineCheck) Name() string {
	return "goroutines"
}

// Check verifies the goroutine count is within the ceiling.
func (g *GoroutineCheck) Check(ctx context.Context) error {
	if current := g.count(); current > g.limit {
		return fmt.Errorf("goroutine count %d exceeds limit %d", current, g.limit)
	}
	return nil
}
