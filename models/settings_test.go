package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildRepositorySettings(t *testing.T) {
	cfg := RepoConfig{
		KeyReleaseSchedule: map[string]any{
			"alice": "2026-09-01",
			"bob":   time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		},
		KeyMaxDays:      21,
		KeyStatsChannel: "dev-updates",

		"releaseReminderTemplate": "Hi {{.user}}",
		"weeklyStatsTemplate":     "{{.greeting}}",
	}

	s, err := BuildRepositorySettings(cfg)
	assert.NoError(t, err)

	assert.Equal(t, 21, s.MaxDaysSinceLastComment)
	assert.Equal(t, "dev-updates", s.StatsChannel)
	assert.Equal(t, "master", s.DefaultBranch)

	assert.Len(t, s.ReleaseSchedule, 2)
	assert.True(t, s.ReleaseSchedule["alice"].Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.ReleaseSchedule["bob"].Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))

	tmpl, ok := s.Template(TemplateReleaseReminder)
	assert.True(t, ok)
	out, err := tmpl.Render(map[string]any{"user": "alice"})
	assert.NoError(t, err)
	assert.Equal(t, "Hi alice", out)

	_, ok = s.Template(TemplateStaleReminder)
	assert.False(t, ok)
}

func TestBuildRepositorySettingsDefaults(t *testing.T) {
	s, err := BuildRepositorySettings(RepoConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 14, s.MaxDaysSinceLastComment)
	assert.Equal(t, "master", s.DefaultBranch)
	assert.Empty(t, s.ReleaseSchedule)
}

func TestBuildRepositorySettingsBadSchedule(t *testing.T) {
	cfg := RepoConfig{
		KeyReleaseSchedule: map[string]any{"carol": "someday"},
	}

	_, err := BuildRepositorySettings(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "carol")
}

func TestBuildRepositorySettingsBadTemplate(t *testing.T) {
	_, err := BuildRepositorySettings(RepoConfig{"staleReminderTemplate": "{{.days"})
	assert.Error(t, err)

	_, err = BuildRepositorySettings(RepoConfig{"staleReminderTemplate": 42})
	assert.Error(t, err)
}

func TestScheduledUsersStableOrder(t *testing.T) {
	s, err := BuildRepositorySettings(RepoConfig{
		KeyReleaseSchedule: map[string]any{
			"zoe":   "2026-01-01",
			"alice": "2026-01-02",
			"mike":  "2026-01-03",
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"alice", "mike", "zoe"}, s.ScheduledUsers())
}
