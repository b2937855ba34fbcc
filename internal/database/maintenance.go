package database

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultMaintenanceSchedule is how often pool health is probed and stats
// are logged.
const DefaultMaintenanceSchedule = "@every 5m"

// Maintenance periodically probes pool health and logs pool counters so
// exhaustion trends show up before callers hit the checkout timeout.
type Maintenance struct {
	db   *DB
	cron *cron.Cron
}

// NewMaintenance creates a maintenance runner for the given pool manager.
func NewMaintenance(db *DB) *Maintenance {
	return &Maintenance{
		db:   db,
		cron: cron.New(),
	}
}

// Start schedules the maintenance job. An empty schedule uses the default.
func (m *Maintenance) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultMaintenanceSchedule
	}
	if _, err := m.cron.AddFunc(schedule, m.run); err != nil {
		return err
	}
	m.cron.Start()
	log.Debug().Str("schedule", schedule).Msg("Database maintenance scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
}

func (m *Maintenance) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !m.db.HealthCheck(ctx) {
		log.Warn().Msg("Periodic database health check failed")
	}

	if stat := m.db.Stat(); stat != nil {
		log.Debug().
			Int32("total_conns", stat.TotalConns()).
			Int32("idle_conns", stat.IdleConns()).
			Int32("acquired_conns", stat.AcquiredConns()).
			Int64("empty_acquire_count", stat.EmptyAcquireCount()).
			Msg("Connection pool stats")
	}
}
