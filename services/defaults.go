package services

import "github.com/NextechGS/nextech-concierge/models"

// Bundled message templates, used when a repository ships no override under
// its templates/ directory.
const (
	defaultReleaseEarlyTemplate = "Hey {{.user}}! Your release is scheduled for {{.date}}, {{.days}} days from now. A good moment to start collecting changelog entries."
	defaultReleaseTemplate      = "Reminder {{.user}}: your release on {{.date}} is one week away. Time to cut a release candidate."
	defaultReleaseLateTemplate  = "{{.user}}, today is release day ({{.date}}). Good luck out there!"

	defaultWeeklyStatsTemplate = "{{.greeting}} {{.count}} pull requests were merged this week, with an average time to merge of {{.averageDays}} days." +
		"{{if .outlierTitle}}\nSlowest merge of the week: <{{.outlierURL}}|{{.outlierTitle}}> at {{.outlierDays}} days.{{end}}"

	defaultStaleTemplate         = "This pull request has seen no activity for {{.days}} days. Could the author or a reviewer take a look?"
	defaultStaleFollowupTemplate = "Bumping again: still no activity after {{.days}} days. Please pick this up or close it."
)

// DefaultRepoConfig is the defaults layer of the per-repository config
// document. Remote keys are shallow-merged on top of it.
func DefaultRepoConfig() models.RepoConfig {
	return models.RepoConfig{
		models.KeyReleaseSchedule: map[string]any{},
		models.KeyMaxDays:         14,
		models.KeyDefaultBranch:   "master",
		models.KeyStatsChannel:    "dev-null",

		models.TemplateKey(models.TemplateReleaseReminderEarly): defaultReleaseEarlyTemplate,
		models.TemplateKey(models.TemplateReleaseReminder):      defaultReleaseTemplate,
		models.TemplateKey(models.TemplateReleaseReminderLate):  defaultReleaseLateTemplate,
		models.TemplateKey(models.TemplateWeeklyStats):          defaultWeeklyStatsTemplate,
		models.TemplateKey(models.TemplateStaleReminder):        defaultStaleTemplate,
		models.TemplateKey(models.TemplateStaleFollowup):        defaultStaleFollowupTemplate,
	}
}
