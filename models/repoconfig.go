package models

import (
	"time"
)

// RepoConfig is the per-repository configuration document: a defaults layer
// with remote overrides shallow-merged on top. Top-level keys are overridden
// independently; nested values are never merged key by key.
type RepoConfig map[string]any

// Clone returns a shallow copy. The copy shares nested values with the
// original, which is fine because configs are never mutated after merge.
func (c RepoConfig) Clone() RepoConfig {
	out := make(RepoConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a new config with overlay keys written over the receiver.
// Neither input is modified.
func (c RepoConfig) Merge(overlay RepoConfig) RepoConfig {
	out := c.Clone()
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// String returns the value under key as a string, or "" when absent or of
// another type.
func (c RepoConfig) String(key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the value under key as an int, falling back to def. YAML
// decodes numbers as int; remote documents written as JSON arrive as float64.
func (c RepoConfig) Int(key string, def int) int {
	switch v := c[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Map returns the value under key as a nested mapping, or nil.
func (c RepoConfig) Map(key string) map[string]any {
	switch v := c[key].(type) {
	case map[string]any:
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for mk, mv := range v {
			if s, ok := mk.(string); ok {
				out[s] = mv
			}
		}
		return out
	}
	return nil
}

// ParseConfigDate parses a config value as a calendar date. YAML resolves bare dates to
// time.Time; quoted values arrive as strings in 2006-01-02 form.
func ParseConfigDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
