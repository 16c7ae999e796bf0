// Package health runs named readiness checks concurrently and serves the
// aggregate as JSON. The CLI registers a check for the on-disk index so the
// metrics listener can report whether searches would succeed.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
)

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check probes one component. A nil error means the component is up.
type Check func(ctx context.Context) (detail string, err error)

type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Latency string `json:"latency"`
}

type Report struct {
	Status     Status            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Timestamp  string            `json:"timestamp"`
}

type Checker struct {
	mu      sync.RWMutex
	checks  map[string]Check
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{checks: make(map[string]Check), timeout: timeout}
}

func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Run executes every check in parallel. The report is down if any check
// failed; components are sorted by name.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	checks := make([]Check, len(names))
	sort.Strings(names)
	for i, name := range names {
		checks[i] = c.checks[name]
	}
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	components := make([]ComponentHealth, len(names))
	var g errgroup.Group
	for i := range names {
		i := i
		g.Go(func() error {
			start := time.Now()
			detail, err := checks[i](ctx)
			comp := ComponentHealth{Name: names[i], Status: StatusUp, Detail: detail}
			if err != nil {
				comp.Status = StatusDown
				comp.Detail = err.Error()
			}
			comp.Latency = time.Since(start).Round(time.Microsecond).String()
			components[i] = comp
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Status:     StatusUp,
		Components: components,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, comp := range components {
		if comp.Status == StatusDown {
			report.Status = StatusDown
			logger.WithComponent("health").Warn("check failed", "check", comp.Name, "detail", comp.Detail)
		}
	}
	return report
}

// Handler serves the report with 200 when up and 503 otherwise.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Run(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if report.Status != StatusUp {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	}
}
