package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v71/github"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/NextechGS/nextech-concierge/models"
)

// ConfigFileName is the config document looked up in each repository root.
const ConfigFileName = "concierge.yml"

// TemplateDirName is the repository directory scanned for message templates.
const TemplateDirName = "templates"

// FetchRepoConfig reads the repository's config document and shallow-merges
// it over defaults. A missing document is not an error: the defaults are
// returned unchanged. Any other failure is a RemoteFetchError.
func FetchRepoConfig(ctx context.Context, gh *github.Client, owner, repo string, defaults models.RepoConfig) (models.RepoConfig, error) {
	file, _, resp, err := gh.Repositories.GetContents(ctx, owner, repo, ConfigFileName, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			log.Debug().Str("repo", owner+"/"+repo).Msg("no remote config, using defaults")
			return defaults.Clone(), nil
		}
		return nil, remoteFetchError(ConfigFileName, resp, err)
	}
	if file == nil {
		return nil, &models.RemoteFetchError{Path: ConfigFileName, Err: fmt.Errorf("path is not a file")}
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, &models.RemoteFetchError{Path: ConfigFileName, Err: fmt.Errorf("decode content: %w", err)}
	}

	var overlay map[string]any
	if err := yaml.Unmarshal([]byte(content), &overlay); err != nil {
		return nil, &models.RemoteFetchError{Path: ConfigFileName, Err: fmt.Errorf("parse config: %w", err)}
	}

	log.Debug().Str("repo", owner+"/"+repo).Int("keys", len(overlay)).Msg("remote config fetched")
	return defaults.Merge(models.RepoConfig(overlay)), nil
}

// FetchTemplates lists the repository's template directory and sets one
// config key per *.tmpl entry (stem plus the "Template" suffix) to the
// file's decoded text. Entries with other extensions are ignored. A missing
// directory leaves cfg unchanged.
func FetchTemplates(ctx context.Context, gh *github.Client, owner, repo string, cfg models.RepoConfig) (models.RepoConfig, error) {
	_, entries, resp, err := gh.Repositories.GetContents(ctx, owner, repo, TemplateDirName, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			log.Debug().Str("repo", owner+"/"+repo).Msg("no template directory, using bundled templates")
			return cfg.Clone(), nil
		}
		return nil, remoteFetchError(TemplateDirName, resp, err)
	}

	out := cfg.Clone()
	for _, entry := range entries {
		name := entry.GetName()
		if !strings.HasSuffix(name, models.TemplateExt) {
			continue
		}

		path := TemplateDirName + "/" + name
		file, _, fresp, err := gh.Repositories.GetContents(ctx, owner, repo, path, nil)
		if err != nil {
			return nil, remoteFetchError(path, fresp, err)
		}
		text, err := file.GetContent()
		if err != nil {
			return nil, &models.RemoteFetchError{Path: path, Err: fmt.Errorf("decode content: %w", err)}
		}

		stem := strings.TrimSuffix(name, models.TemplateExt)
		out[stem+models.TemplateKeySuffix] = text
	}

	return out, nil
}

// LoadRepositorySettings composes the config and template fetches and
// builds the typed settings object for one repository.
func LoadRepositorySettings(ctx context.Context, gh *github.Client, owner, repo string) (*models.RepositorySettings, error) {
	cfg, err := FetchRepoConfig(ctx, gh, owner, repo, DefaultRepoConfig())
	if err != nil {
		return nil, err
	}
	cfg, err = FetchTemplates(ctx, gh, owner, repo, cfg)
	if err != nil {
		return nil, err
	}
	return models.BuildRepositorySettings(cfg)
}

func remoteFetchError(path string, resp *github.Response, err error) *models.RemoteFetchError {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return &models.RemoteFetchError{Path: path, StatusCode: status, Err: err}
}
