package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
)

const releasesPerPage = 100

type Client struct {
	token      types.GitHubToken
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.ReleaseLister = (*Client)(nil)

type Option func(*Client)

func WithToken(token types.GitHubToken) Option {
	return func(x *Client) {
		x.token = token
	}
}

// WithBaseURL points the client at a GitHub Enterprise or test API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(x *Client) {
		x.baseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(x *Client) {
		x.httpClient = client
	}
}

func New(options ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

func (x *Client) buildGithubClient() (*github.Client, error) {
	httpClient := x.httpClient
	if x.token != "" {
		httpClient = &http.Client{
			Transport: &tokenTransport{token: x.token, base: transportOf(x.httpClient)},
			Timeout:   x.httpClient.Timeout,
		}
	}

	client := github.NewClient(httpClient)
	if x.baseURL != "" {
		baseURL := x.baseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API URL",
				goerr.T(types.ErrTagInvalidOption),
				goerr.V("url", x.baseURL),
			)
		}
		client.BaseURL = u
	}

	return client, nil
}

// ListReleases returns all published releases of repo, newest first, following every page.
func (x *Client) ListReleases(ctx context.Context, repo model.Repository) ([]*model.Release, error) {
	client, err := x.buildGithubClient()
	if err != nil {
		return nil, err
	}

	var releases []*model.Release
	opts := &github.ListOptions{PerPage: releasesPerPage}

	for {
		result, resp, err := client.Repositories.ListReleases(ctx, string(repo.Owner), string(repo.Repo), opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list releases",
				classifyError(err),
				goerr.V("repository", repo.String()),
				goerr.V("page", opts.Page),
			)
		}

		for _, r := range result {
			release, err := toRelease(r)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid release", goerr.V("repository", repo.String()))
			}
			releases = append(releases, release)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.From(ctx).Debug("Listed releases",
		slog.String("repository", repo.String()),
		slog.Int("count", len(releases)),
	)

	return releases, nil
}

func toRelease(r *github.RepositoryRelease) (*model.Release, error) {
	if len(r.Assets) == 0 {
		return nil, goerr.New("release has no assets",
			goerr.T(types.ErrTagParse),
			goerr.V("tag", r.GetTagName()),
		)
	}

	name := r.GetName()
	if name == "" {
		name = r.GetTagName()
	}

	var publishedAt string
	if r.PublishedAt != nil {
		publishedAt = r.PublishedAt.UTC().Format(time.RFC3339)
	}

	return &model.Release{
		Name:        name,
		Notes:       r.GetBody(),
		PublishedAt: publishedAt,
		Prerelease:  r.GetPrerelease(),
		TagName:     types.TagName(r.GetTagName()),
		AssetURL:    r.Assets[0].GetBrowserDownloadURL(),
	}, nil
}

// classifyError separates undecodable responses from transport and HTTP status failures.
func classifyError(err error) goerr.Option {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return goerr.T(types.ErrTagParse)
	}
	return goerr.T(types.ErrTagNetwork)
}

type tokenTransport struct {
	token types.GitHubToken
	base  http.RoundTripper
}

func (x *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+string(x.token))
	return x.base.RoundTrip(req)
}

func transportOf(client *http.Client) http.RoundTripper {
	if client.Transport != nil {
		return client.Transport
	}
	return http.DefaultTransport
}
