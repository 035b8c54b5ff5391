package monitor

import (
	"context"
	"sync"
	"time"
)

// Status represents a health status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
	Error     string        `json:"error,omitempty"`
}

// OverallHealth aggregates every registered check.
type OverallHealth struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines the interface for health checks.
type Checker interface {
	Check(ctx context.Context) CheckResult
	Name() string
}

// Registry manages health checks.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewRegistry creates an empty health check registry.
func NewRegistry() *Registry {
	return &Registry{checkers: make(map[string]Checker)}
}

// Register adds a health checker, replacing any previous one of the same
// name.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Unregister removes a health checker.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// Check executes all registered checks and reports the worst status.
func (r *Registry) Check(ctx context.Context) OverallHealth {
	start := time.Now()

	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	overall := OverallHealth{
		Status:    StatusHealthy,
		Timestamp: start,
		Checks:    make(map[string]CheckResult, len(checkers)),
	}

	for _, checker := range checkers {
		result := checker.Check(ctx)
		overall.Checks[result.Name] = result
		if result.Status != StatusHealthy {
			overall.Status = StatusUnhealthy
		}
	}

	overall.Duration = time.Since(start)
	return overall
}

// Pinger is the view of a connection the health checker needs. Implemented
// by *sqlbridge.Conn.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionChecker verifies the bridged connection answers a round trip
// through the queue.
type ConnectionChecker struct {
	name string
	conn Pinger
}

// NewConnectionChecker creates a checker that pings conn.
func NewConnectionChecker(name string, conn Pinger) *ConnectionChecker {
	return &ConnectionChecker{name: name, conn: conn}
}

// Name implements Checker.
func (c *ConnectionChecker) Name() string {
	return c.name
}

// Check implements Checker.
func (c *ConnectionChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      c.name,
		Timestamp: start,
	}

	if err := c.conn.Ping(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Message = "ping failed"
		result.Error = err.Error()
	} else {
		result.Status = StatusHealthy
	}

	result.Duration = time.Since(start)
	return result
}
