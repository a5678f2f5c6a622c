package model

import "github.com/noah-nuebling/appcaster/pkg/domain/types"

// Release is a published release as returned by the hosting API, in API order (newest first).
type Release struct {
	Name        string // display version, e.g. "2.0.0"
	Notes       string // markdown
	PublishedAt string // RFC 3339 in UTC, e.g. "2021-09-01T10:00:00Z"
	Prerelease  bool
	TagName     types.TagName
	CommitID    types.CommitID
	AssetURL    string
}

// Repository identifies the GitHub repository whose releases are listed.
type Repository struct {
	Owner types.GitHubOwner
	Repo  types.GitHubRepo
}

func (x Repository) String() string {
	return string(x.Owner) + "/" + string(x.Repo)
}
