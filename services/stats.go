package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v71/github"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NextechGS/nextech-concierge/models"
)

// OutlierMergeDays is the merge-time threshold, in days, above which a PR is
// called out separately in the weekly message.
const OutlierMergeDays = 700

// statsWindow is the trailing aggregation window for the weekly job.
const statsWindow = 7 * 24 * time.Hour

// weeklySendDay is the day the scheduled weekly summary goes out.
const weeklySendDay = time.Friday

// MergeOutlier is the single slowest merge above the outlier threshold.
type MergeOutlier struct {
	Title string
	URL   string
	Days  float64
}

// WeeklyStats summarizes the pull requests merged in the trailing window.
type WeeklyStats struct {
	Count       int
	AverageDays float64
	Outlier     *MergeOutlier
}

// SendWeeklyStats aggregates merged PRs across all configured repositories
// and posts one summary to the stats channel. One listing failure does not
// drop the other repositories from the aggregate. The send is deduplicated
// per ISO week.
func SendWeeklyStats(ctx context.Context, gh *github.Client, db *gorm.DB, notifier *Notifier, settings *models.RepositorySettings, repos []string, now time.Time) error {
	var closed []*github.Issue
	errs := ProcessAll(repos, func(full string) error {
		issues, err := listClosedIssues(ctx, gh, full, now.Add(-statsWindow))
		if err != nil {
			return err
		}
		closed = append(closed, issues...)
		return nil
	})
	for i, err := range errs {
		if err != nil {
			log.Error().Err(err).Str("repo", repos[i]).Msg("weekly stats listing failed")
		}
	}

	stats := ComputeWeeklyStats(closed, now)

	tmpl, ok := settings.Template(models.TemplateWeeklyStats)
	if !ok {
		return fmt.Errorf("no %s template configured", models.TemplateWeeklyStats)
	}

	vars := map[string]any{
		"greeting":    WeeklyGreeting(now),
		"count":       stats.Count,
		"averageDays": fmt.Sprintf("%.1f", stats.AverageDays),
	}
	if stats.Outlier != nil {
		vars["outlierTitle"] = stats.Outlier.Title
		vars["outlierURL"] = stats.Outlier.URL
		vars["outlierDays"] = fmt.Sprintf("%.1f", stats.Outlier.Days)
	}

	text, err := tmpl.Render(vars)
	if err != nil {
		return err
	}

	year, week := now.ISOWeek()
	dedupKey := fmt.Sprintf("weekly:%d-W%02d", year, week)
	if AlreadySent(db, dedupKey) {
		log.Debug().Str("week", dedupKey).Msg("weekly stats already sent")
		return nil
	}

	recipient, err := notifier.SendToChannel(ctx, settings.StatsChannel, text)
	if err != nil {
		return err
	}

	if err := RecordSent(db, models.NotificationKindWeekly, recipient, dedupKey); err != nil {
		log.Error().Err(err).Msg("weekly stats ledger write failed")
	}
	log.Info().Int("merged", stats.Count).Str("channel", settings.StatsChannel).Msg("weekly stats sent")
	return nil
}

// ComputeWeeklyStats filters closed issues down to pull requests with both
// timestamps inside the trailing window and averages their merge times in
// fractional days. The slowest merge above OutlierMergeDays, if any, is
// reported separately.
func ComputeWeeklyStats(issues []*github.Issue, now time.Time) WeeklyStats {
	cutoff := now.Add(-statsWindow)

	var stats WeeklyStats
	var total float64
	for _, issue := range issues {
		if !issue.IsPullRequest() {
			continue
		}
		created, closed := issue.GetCreatedAt(), issue.GetClosedAt()
		if created.IsZero() || closed.IsZero() || closed.Time.Before(cutoff) {
			continue
		}

		days := closed.Time.Sub(created.Time).Hours() / 24
		stats.Count++
		total += days

		if days > OutlierMergeDays && (stats.Outlier == nil || days > stats.Outlier.Days) {
			stats.Outlier = &MergeOutlier{
				Title: issue.GetTitle(),
				URL:   issue.GetHTMLURL(),
				Days:  days,
			}
		}
	}

	if stats.Count > 0 {
		stats.AverageDays = total / float64(stats.Count)
	}
	return stats
}

// WeeklyStatsDue reports whether the scheduled weekly summary should go out
// on the given date. Manual triggers bypass this gate.
func WeeklyStatsDue(now time.Time) bool {
	return now.Weekday() == weeklySendDay
}

// WeeklyGreeting returns the message greeting for a given date. The weekly
// send day gets its own greeting.
func WeeklyGreeting(now time.Time) string {
	if now.Weekday() == weeklySendDay {
		return "Happy Friday, team!"
	}
	return "Hello team!"
}

// listClosedIssues pages through the issues closed in a repository since the
// cutoff. The issues endpoint is used instead of the pulls endpoint because
// it filters by update time server-side; PR-ness is checked by the caller.
func listClosedIssues(ctx context.Context, gh *github.Client, full string, since time.Time) ([]*github.Issue, error) {
	owner, name, err := SplitRepo(full)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:       "closed",
		Since:       since,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []*github.Issue
	for {
		issues, resp, err := gh.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, issues...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}
