package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Config document keys understood by the concierge. Anything else in the
// remote document is carried through the merge untouched.
const (
	KeyReleaseSchedule = "releaseSchedule"
	KeyMaxDays         = "maxDaysSinceLastComment"
	KeyDefaultBranch   = "defaultBranch"
	KeyStatsChannel    = "statsChannel"
)

// RepositorySettings is the typed, immutable view of a merged RepoConfig.
// It is built once per refresh and replaced wholesale, never mutated.
type RepositorySettings struct {
	ReleaseSchedule         map[string]time.Time
	MaxDaysSinceLastComment int
	DefaultBranch           string
	StatsChannel            string
	Templates               map[string]*Template
}

// BuildRepositorySettings parses the merged document into a typed settings
// object, compiling every "*Template" key. A schedule entry whose date
// cannot be parsed fails the whole build: a half-read schedule would
// silently drop reminders.
func BuildRepositorySettings(cfg RepoConfig) (*RepositorySettings, error) {
	s := &RepositorySettings{
		ReleaseSchedule:         make(map[string]time.Time),
		MaxDaysSinceLastComment: cfg.Int(KeyMaxDays, 14),
		DefaultBranch:           cfg.String(KeyDefaultBranch),
		StatsChannel:            cfg.String(KeyStatsChannel),
		Templates:               make(map[string]*Template),
	}
	if s.DefaultBranch == "" {
		s.DefaultBranch = "master"
	}

	for user, raw := range cfg.Map(KeyReleaseSchedule) {
		date, ok := ParseConfigDate(raw)
		if !ok {
			return nil, fmt.Errorf("release schedule entry for %q has unparseable date %v", user, raw)
		}
		s.ReleaseSchedule[user] = date
	}

	for key, raw := range cfg {
		if !strings.HasSuffix(key, TemplateKeySuffix) {
			continue
		}
		text, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("template key %q is not a string", key)
		}
		role := strings.TrimSuffix(key, TemplateKeySuffix)
		tmpl, err := CompileTemplate(role, text)
		if err != nil {
			return nil, err
		}
		s.Templates[role] = tmpl
	}

	return s, nil
}

// Template returns the compiled template for a role.
func (s *RepositorySettings) Template(role string) (*Template, bool) {
	t, ok := s.Templates[role]
	return t, ok
}

// ScheduledUsers returns the release schedule's user handles in stable
// order, so reminder runs iterate deterministically.
func (s *RepositorySettings) ScheduledUsers() []string {
	users := make([]string, 0, len(s.ReleaseSchedule))
	for u := range s.ReleaseSchedule {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}
