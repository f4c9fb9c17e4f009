package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v71/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// NewGitHubClient creates a GitHub API client. With an empty token an
// unauthenticated client is returned, with the lower rate limits that implies.
func NewGitHubClient(token string) *github.Client {
	if token == "" {
		log.Warn().Msg("github token is not set, using unauthenticated client")
		return github.NewClient(nil)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return github.NewClient(tc)
}

// SplitRepo splits an "owner/name" repository identifier.
func SplitRepo(full string) (owner, name string, err error) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", full)
	}
	return parts[0], parts[1], nil
}
