// Package handlers contains the health report and reusable middleware for the
// HTTP API.
package handlers

import (
	"context"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH REPORT
// ══════════════════════════════════════════════════════════════════════════════

// Overall health states.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded" // cache unreachable, records still served from the store
	StatusDown     = "down"
)

const checkTimeout = 2 * time.Second

// Pinger is implemented by both store drivers and the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Reporter builds the /health payload.
type Reporter interface {
	Report(ctx context.Context) Report
}

// Report is the /health payload.
type Report struct {
	Status    string      `json:"status"`
	Version   string      `json:"version,omitempty"`
	Uptime    string      `json:"uptime"`
	Timestamp time.Time   `json:"timestamp"`
	Store     *Dependency `json:"store,omitempty"`
	Schema    *Schema     `json:"schema,omitempty"`
	Cache     *Dependency `json:"cache,omitempty"`
}

// Dependency is the state of one backing service.
type Dependency struct {
	Driver  string `json:"driver"`
	Up      bool   `json:"up"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// Schema is the result of matching the record mappings against the live
// tables.
type Schema struct {
	Matches bool   `json:"matches"`
	Error   string `json:"error,omitempty"`
}

// HealthConfig wires the backing services into a ServiceHealth. Nil fields
// are left out of the report.
type HealthConfig struct {
	Version string

	Store       Pinger
	StoreDriver string

	// Mappings re-checks the record mappings against the store's tables.
	Mappings func(ctx context.Context) error

	Cache Pinger
}

// ServiceHealth reports on the record store, its schema and the optional
// Redis cache.
type ServiceHealth struct {
	cfg     HealthConfig
	started time.Time
}

// NewServiceHealth creates a ServiceHealth.
func NewServiceHealth(cfg HealthConfig) *ServiceHealth {
	return &ServiceHealth{cfg: cfg, started: time.Now()}
}

// Report pings the store and the cache concurrently, then checks the schema
// when the store is up.
func (h *ServiceHealth) Report(ctx context.Context) Report {
	report := Report{
		Status:    StatusOK,
		Version:   h.cfg.Version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}

	var wg sync.WaitGroup
	if h.cfg.Store != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Store = ping(ctx, h.cfg.StoreDriver, h.cfg.Store)
		}()
	}
	if h.cfg.Cache != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Cache = ping(ctx, "redis", h.cfg.Cache)
		}()
	}
	wg.Wait()

	if h.cfg.Mappings != nil && (report.Store == nil || report.Store.Up) {
		report.Schema = h.schema(ctx)
	}

	switch {
	case report.Store != nil && !report.Store.Up,
		report.Schema != nil && !report.Schema.Matches:
		report.Status = StatusDown
	case report.Cache != nil && !report.Cache.Up:
		report.Status = StatusDegraded
	}
	return report
}

func (h *ServiceHealth) schema(ctx context.Context) *Schema {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := h.cfg.Mappings(ctx); err != nil {
		return &Schema{Error: err.Error()}
	}
	return &Schema{Matches: true}
}

func ping(ctx context.Context, driver string, p Pinger) *Dependency {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	dep := &Dependency{
		Driver:  driver,
		Up:      err == nil,
		Latency: time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		dep.Error = err.Error()
	}
	return dep
}
