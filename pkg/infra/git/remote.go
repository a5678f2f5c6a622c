package git

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

// OriginRepository returns the GitHub repository of the "origin" remote. It is used
// when the repository is not given explicitly.
func (x *Client) OriginRepository() (model.Repository, error) {
	remote, err := x.repo.Remote("origin")
	if err != nil {
		return model.Repository{}, goerr.Wrap(err, "failed to get remote origin", goerr.T(types.ErrTagSourceControl))
	}

	if len(remote.Config().URLs) == 0 {
		return model.Repository{}, goerr.New("no remote URL found", goerr.T(types.ErrTagSourceControl))
	}

	url := remote.Config().URLs[0]
	repo, ok := ParseGitHubRemote(url)
	if !ok {
		return model.Repository{}, goerr.New("failed to parse GitHub owner/repo from git remote URL",
			goerr.T(types.ErrTagSourceControl),
			goerr.V("url", url),
		)
	}
	return repo, nil
}

// ParseGitHubRemote parses git@github.com:owner/repo.git and https://github.com/owner/repo.git
func ParseGitHubRemote(url string) (model.Repository, bool) {
	var path string
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		path = strings.TrimPrefix(url, "git@github.com:")
	case strings.Contains(url, "github.com/"):
		parts := strings.SplitN(url, "github.com/", 2)
		path = parts[1]
	default:
		return model.Repository{}, false
	}

	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
	ownerRepo := strings.Split(path, "/")
	if len(ownerRepo) != 2 || ownerRepo[0] == "" || ownerRepo[1] == "" {
		return model.Repository{}, false
	}

	return model.Repository{
		Owner: types.GitHubOwner(ownerRepo[0]),
		Repo:  types.GitHubRepo(ownerRepo[1]),
	}, true
}
