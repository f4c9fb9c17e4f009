package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NextechGS/nextech-concierge/models"
)

// Reminder cadence in whole calendar days before the release date.
const (
	releaseEarlyOffset  = 14
	releaseMediumOffset = 7
	releaseLateOffset   = 0
)

// SendReleaseReminders walks the release schedule and sends the early,
// medium or late reminder variant to every user whose release date is
// exactly 14, 7 or 0 calendar days away. Each user is handled
// independently: unresolved recipients are skipped with a log line and one
// user's failure never blocks the rest.
func SendReleaseReminders(ctx context.Context, db *gorm.DB, notifier *Notifier, settings *models.RepositorySettings, now time.Time) []error {
	users := settings.ScheduledUsers()

	errs := ProcessAll(users, func(user string) error {
		date := settings.ReleaseSchedule[user]
		role, ok := reminderRole(CalendarDaysUntil(now, date))
		if !ok {
			return nil
		}

		tmpl, ok := settings.Template(role)
		if !ok {
			return fmt.Errorf("no %s template configured", role)
		}

		text, err := tmpl.Render(map[string]any{
			"user": user,
			"date": date.Format("2006-01-02"),
			"days": CalendarDaysUntil(now, date),
		})
		if err != nil {
			return err
		}

		dedupKey := fmt.Sprintf("release:%s:%s:%s", user, date.Format("2006-01-02"), role)
		if AlreadySent(db, dedupKey) {
			log.Debug().Str("user", user).Str("variant", role).Msg("release reminder already sent")
			return nil
		}

		recipient, err := notifier.SendToUser(ctx, user, text)
		if err != nil {
			var unresolved *models.UnresolvedRecipientError
			if errors.As(err, &unresolved) {
				log.Warn().Str("user", user).Msg("release reminder skipped, user not in slack directory")
				return nil
			}
			return err
		}

		if err := RecordSent(db, models.NotificationKindRelease, recipient, dedupKey); err != nil {
			log.Error().Err(err).Str("user", user).Msg("reminder ledger write failed")
		}
		log.Info().Str("user", user).Str("variant", role).Msg("release reminder sent")
		return nil
	})

	for i, err := range errs {
		if err != nil {
			log.Error().Err(err).Str("user", users[i]).Msg("release reminder failed")
		}
	}
	return errs
}

// reminderRole maps a calendar-day offset to the template variant, or false
// when no reminder is due at that offset.
func reminderRole(days int) (string, bool) {
	switch days {
	case releaseEarlyOffset:
		return models.TemplateReleaseReminderEarly, true
	case releaseMediumOffset:
		return models.TemplateReleaseReminder, true
	case releaseLateOffset:
		return models.TemplateReleaseReminderLate, true
	}
	return "", false
}

// CalendarDaysUntil returns the number of whole calendar days from now to
// target, ignoring time of day. Past dates yield negative values.
func CalendarDaysUntil(now, target time.Time) int {
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(n).Hours() / 24)
}
