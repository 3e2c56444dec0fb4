// Package jobs contains the background jobs registered with the scheduler.
package jobs

import (
	"context"

	"github.com/roster-hub/student-roster-hub/internal/application/roster"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
)

// RefreshRosterJob periodically re-fetches the roster snapshot from the
// store. Mutations already trigger a refetch on their own; this job picks
// up changes made outside the application, such as direct database edits.
type RefreshRosterJob struct {
	orchestrator *roster.Orchestrator
	log          *logger.Logger
}

// NewRefreshRosterJob creates a RefreshRosterJob.
func NewRefreshRosterJob(orchestrator *roster.Orchestrator, log *logger.Logger) *RefreshRosterJob {
	if log == nil {
		log = logger.Default()
	}
	return &RefreshRosterJob{
		orchestrator: orchestrator,
		log:          log.With(logger.Component("jobs")),
	}
}

// Name returns the unique name of the job.
func (j *RefreshRosterJob) Name() string {
	return "refresh_roster"
}

// Description returns a human-readable description of the job.
func (j *RefreshRosterJob) Description() string {
	return "Re-fetch the roster snapshot from the store"
}

// Run executes the job.
func (j *RefreshRosterJob) Run(ctx context.Context) error {
	if err := j.orchestrator.Refresh(ctx); err != nil {
		return err
	}

	j.log.Debug("roster snapshot refreshed",
		logger.Int("students", j.orchestrator.Stats().Total),
	)
	return nil
}
