package jobs

import (
	"context"

	"github.com/roster-hub/student-roster-hub/internal/application/roster"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
)

// StatsDigestJob writes a daily summary of roster counts to the log so
// operators can track how the roster evolves without querying the API.
type StatsDigestJob struct {
	orchestrator *roster.Orchestrator
	log          *logger.Logger
}

// NewStatsDigestJob creates a StatsDigestJob.
func NewStatsDigestJob(orchestrator *roster.Orchestrator, log *logger.Logger) *StatsDigestJob {
	if log == nil {
		log = logger.Default()
	}
	return &StatsDigestJob{
		orchestrator: orchestrator,
		log:          log.With(logger.Component("jobs")),
	}
}

// Name returns the unique name of the job.
func (j *StatsDigestJob) Name() string {
	return "stats_digest"
}

// Description returns a human-readable description of the job.
func (j *StatsDigestJob) Description() string {
	return "Log a daily digest of roster counts by status"
}

// Run executes the job.
func (j *StatsDigestJob) Run(ctx context.Context) error {
	stats := j.orchestrator.Stats()

	j.log.Info("roster digest",
		logger.Int("total", stats.Total),
		logger.Int("studying", stats.Studying),
		logger.Int("working", stats.Working),
		logger.Int("graduated", stats.Graduated),
	)
	return nil
}
