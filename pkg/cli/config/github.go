package config

import (
	"log/slog"

	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

type GitHub struct {
	owner  types.GitHubOwner
	repo   types.GitHubRepo
	token  types.GitHubToken `masq:"secret"`
	apiURL string
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "GitHub repository owner (auto-detect from git remote origin if not specified)",
			Category:    "GitHub",
			Destination: (*string)(&x.owner),
			Sources:     cli.EnvVars("APPCASTER_GITHUB_OWNER"),
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "GitHub repository name (auto-detect from git remote origin if not specified)",
			Category:    "GitHub",
			Destination: (*string)(&x.repo),
			Sources:     cli.EnvVars("APPCASTER_GITHUB_REPO"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token, raises the API rate limit",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("APPCASTER_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Category:    "GitHub",
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("APPCASTER_GITHUB_API_URL"),
		},
	}
}

// Repository returns the configured repository. ok is false when owner or name is
// missing and the repository has to be detected.
func (x *GitHub) Repository() (model.Repository, bool) {
	repo := model.Repository{Owner: x.owner, Repo: x.repo}
	return repo, x.owner != "" && x.repo != ""
}

// Merge fills owner and name that were not given explicitly from a detected repository.
func (x *GitHub) Merge(detected model.Repository) model.Repository {
	repo := model.Repository{Owner: x.owner, Repo: x.repo}
	if repo.Owner == "" {
		repo.Owner = detected.Owner
	}
	if repo.Repo == "" {
		repo.Repo = detected.Repo
	}
	return repo
}

func (x *GitHub) NewClient() *github.Client {
	var options []github.Option
	if x.token != "" {
		options = append(options, github.WithToken(x.token))
	}
	if x.apiURL != "" {
		options = append(options, github.WithBaseURL(x.apiURL))
	}
	return github.New(options...)
}

func (x *GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("Owner", x.owner),
		slog.Any("Repo", x.repo),
		slog.Int("Token.len", len(x.token)),
		slog.Any("APIURL", x.apiURL),
	)
}
