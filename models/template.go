package models

import (
	"fmt"
	"strings"
	"text/template"
)

// Template roles. The config key for each role is the role name plus the
// TemplateKeySuffix, e.g. "releaseReminderEarly" -> "releaseReminderEarlyTemplate".
const (
	TemplateReleaseReminderEarly = "releaseReminderEarly"
	TemplateReleaseReminder      = "releaseReminder"
	TemplateReleaseReminderLate  = "releaseReminderLate"
	TemplateWeeklyStats          = "weeklyStats"
	TemplateStaleReminder        = "staleReminder"
	TemplateStaleFollowup        = "staleReminderFollowup"
)

// TemplateKeySuffix is appended to a template file's stem to form its
// config key, so templates/staleReminder.tmpl lands under "staleReminderTemplate".
const TemplateKeySuffix = "Template"

// TemplateExt is the extension template files must carry to be picked up
// from a repository's template directory.
const TemplateExt = ".tmpl"

// Template is a named message template compiled from remote or bundled text.
type Template struct {
	Name   string
	Source string
	tmpl   *template.Template
}

// CompileTemplate parses template text into a renderer. It is a pure
// function of its inputs and performs no I/O.
func CompileTemplate(name, text string) (*Template, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("compile template %s: %w", name, err)
	}
	return &Template{Name: name, Source: text, tmpl: t}, nil
}

// Render substitutes named variables into the template and returns the
// literal text. Values are stringified before substitution, so a variable
// the template references but the caller did not provide renders as an
// empty string rather than a "<no value>" marker.
func (t *Template) Render(vars map[string]any) (string, error) {
	data := make(map[string]string, len(vars))
	for k, v := range vars {
		data[k] = fmt.Sprint(v)
	}

	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", t.Name, err)
	}
	return sb.String(), nil
}

// TemplateKey returns the config key for a template role.
func TemplateKey(role string) string {
	return role + TemplateKeySuffix
}
