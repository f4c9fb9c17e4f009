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

// BumpStalePullRequests posts a nudge comment on every open PR whose
// discussion has been quiet for at least the repository's own configured
// threshold. Each repository's concierge document is loaded fresh, so the
// threshold, default branch and templates are per-repository. The first
// nudge uses the initial template; once the bot's own login shows up in the
// thread, later runs switch to the followup variant. Repositories are
// processed one at a time and one repository's failure never aborts the
// batch.
func BumpStalePullRequests(ctx context.Context, gh *github.Client, db *gorm.DB, repos []string, botLogin string, now time.Time) []error {
	errs := ProcessAll(repos, func(full string) error {
		return bumpRepo(ctx, gh, db, full, botLogin, now)
	})
	for i, err := range errs {
		if err != nil {
			log.Error().Err(err).Str("repo", repos[i]).Msg("stale bump failed, continuing with next repo")
		}
	}
	return errs
}

func bumpRepo(ctx context.Context, gh *github.Client, db *gorm.DB, full, botLogin string, now time.Time) error {
	owner, name, err := SplitRepo(full)
	if err != nil {
		return err
	}

	settings, err := LoadRepositorySettings(ctx, gh, owner, name)
	if err != nil {
		return fmt.Errorf("load repository settings: %w", err)
	}

	prs, _, err := gh.PullRequests.List(ctx, owner, name, &github.PullRequestListOptions{
		State:       "open",
		Base:        settings.DefaultBranch,
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return fmt.Errorf("list open pull requests: %w", err)
	}

	for _, pr := range prs {
		if err := bumpPullRequest(ctx, gh, db, settings, owner, name, pr, botLogin, now); err != nil {
			log.Error().Err(err).Str("repo", full).Int("pr", pr.GetNumber()).Msg("stale bump failed for pull request")
		}
	}
	return nil
}

func bumpPullRequest(ctx context.Context, gh *github.Client, db *gorm.DB, settings *models.RepositorySettings, owner, name string, pr *github.PullRequest, botLogin string, now time.Time) error {
	number := pr.GetNumber()

	comments, _, err := gh.Issues.ListComments(ctx, owner, name, number, nil)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}

	// A silent thread counts from the PR's own creation time.
	lastActivity := pr.GetCreatedAt().Time
	botCommented := false
	for _, c := range comments {
		if c.GetCreatedAt().Time.After(lastActivity) {
			lastActivity = c.GetCreatedAt().Time
		}
		if c.GetUser().GetLogin() == botLogin {
			botCommented = true
		}
	}

	threshold := settings.MaxDaysSinceLastComment
	if CalendarDaysUntil(lastActivity, now) < threshold {
		return nil
	}

	role := models.TemplateStaleReminder
	if botCommented {
		role = models.TemplateStaleFollowup
	}
	tmpl, ok := settings.Template(role)
	if !ok {
		return fmt.Errorf("no %s template configured", role)
	}

	// At most one bump per PR per day, however often the scheduler ticks.
	dedupKey := fmt.Sprintf("stale:%s/%s#%d:%s", owner, name, number, now.Format("2006-01-02"))
	if AlreadySent(db, dedupKey) {
		return nil
	}

	body, err := tmpl.Render(map[string]any{
		"days":   threshold,
		"author": pr.GetUser().GetLogin(),
	})
	if err != nil {
		return err
	}

	_, _, err = gh.Issues.CreateComment(ctx, owner, name, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("post comment: %w", err)
	}

	if err := RecordSent(db, models.NotificationKindStale, pr.GetHTMLURL(), dedupKey); err != nil {
		log.Error().Err(err).Str("pr", pr.GetHTMLURL()).Msg("stale bump ledger write failed")
	}

	log.Info().Str("pr", pr.GetHTMLURL()).Str("variant", role).Msg("stale pull request bumped")
	return nil
}
