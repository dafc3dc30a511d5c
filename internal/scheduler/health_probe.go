// Package scheduler runs the periodic storage health probe.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"estante/internal/config"
	"estante/internal/database"
)

const probeTimeout = 5 * time.Second

// HealthProbe pings the storage backend on a fixed interval and logs the
// result. A failed ping is reported and retried on the next tick; it
// never crashes the process or blocks request handling.
type HealthProbe struct {
	db     *database.Database
	config config.Probe

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	lastErr   error
}

// NewHealthProbe creates a probe from the configured interval.
func NewHealthProbe(db *database.Database, cfg config.Probe) *HealthProbe {
	return &HealthProbe{
		db:     db,
		config: cfg,
		cron:   cron.New(),
	}
}

// Start schedules the probe. A no-op when disabled or already running.
func (p *HealthProbe) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return nil
	}
	if !p.config.Enabled {
		log.Printf("Health probe: disabled")
		return nil
	}

	schedule := fmt.Sprintf("@every %s", p.config.Interval)
	if _, err := p.cron.AddFunc(schedule, p.runProbe); err != nil {
		return fmt.Errorf("failed to schedule health probe: %w", err)
	}

	p.cron.Start()
	p.isRunning = true
	log.Printf("Health probe: started, interval %s", p.config.Interval)

	return nil
}

// Stop halts the probe and waits for an in-flight tick to finish.
func (p *HealthProbe) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	// Release the lock before waiting so a running tick can record its
	// result without deadlocking against us.
	p.mu.Unlock()

	ctx := p.cron.Stop()
	<-ctx.Done()

	log.Printf("Health probe: stopped")
}

// LastError returns the most recent probe failure, nil when the last tick
// succeeded.
func (p *HealthProbe) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *HealthProbe) runProbe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	err := p.db.Ping(ctx)

	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()

	if err != nil {
		log.Printf("Health probe: storage unreachable: %v", err)
	}
}
