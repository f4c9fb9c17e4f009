package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/go-github/v71/github"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NextechGS/nextech-concierge/models"
)

// Job names accepted by Run and the admin trigger endpoint.
const (
	JobReleaseReminders = "release-reminders"
	JobWeeklyStats      = "weekly-stats"
	JobStaleBumper      = "stale-bumper"
)

// Jobs bundles everything the scheduled jobs need. Per-repository settings
// are re-fetched at the start of every run, so remote config edits take
// effect without a restart.
type Jobs struct {
	GitHub   *github.Client
	DB       *gorm.DB
	Notifier *Notifier
	Repos    []string
	BotLogin string
}

// Names returns the known job names in stable order.
func (j *Jobs) Names() []string {
	names := []string{JobReleaseReminders, JobWeeklyStats, JobStaleBumper}
	sort.Strings(names)
	return names
}

// Run executes one named job to completion. Fleet-level settings (the
// release schedule and the stats channel) come from the first configured
// repository, which by convention carries the fleet's concierge document.
// The stale bumper honors each repository's own config instead.
func (j *Jobs) Run(ctx context.Context, name string) error {
	if len(j.Repos) == 0 {
		return fmt.Errorf("no repositories configured")
	}

	now := time.Now()
	switch name {
	case JobReleaseReminders:
		settings, err := j.fleetSettings(ctx)
		if err != nil {
			return err
		}
		errs := SendReleaseReminders(ctx, j.DB, j.Notifier, settings, now)
		return summarize(name, errs)
	case JobWeeklyStats:
		settings, err := j.fleetSettings(ctx)
		if err != nil {
			return err
		}
		return SendWeeklyStats(ctx, j.GitHub, j.DB, j.Notifier, settings, j.Repos, now)
	case JobStaleBumper:
		errs := BumpStalePullRequests(ctx, j.GitHub, j.DB, j.Repos, j.BotLogin, now)
		return summarize(name, errs)
	}
	return fmt.Errorf("unknown job %q", name)
}

func (j *Jobs) fleetSettings(ctx context.Context) (*models.RepositorySettings, error) {
	owner, repo, err := SplitRepo(j.Repos[0])
	if err != nil {
		return nil, err
	}
	settings, err := LoadRepositorySettings(ctx, j.GitHub, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("load repository settings: %w", err)
	}
	return settings, nil
}

// summarize collapses a ProcessAll result into a single job-level error
// while keeping the batch contract: every unit already ran.
func summarize(job string, errs []error) error {
	if n := CountErrors(errs); n > 0 {
		return fmt.Errorf("%s: %d of %d units failed", job, n, len(errs))
	}
	return nil
}

// RunAll runs every job due at this tick, logging failures and never
// aborting early. The weekly summary only goes out on its send day; manual
// triggers through Run are not gated.
func (j *Jobs) RunAll(ctx context.Context) {
	j.runDue(ctx, time.Now())
}

func (j *Jobs) runDue(ctx context.Context, now time.Time) {
	for _, name := range j.Names() {
		if name == JobWeeklyStats && !WeeklyStatsDue(now) {
			log.Debug().Str("job", name).Msg("weekly stats not due today")
			continue
		}
		if err := j.Run(ctx, name); err != nil {
			log.Error().Err(err).Str("job", name).Msg("job run failed")
		}
	}
}
