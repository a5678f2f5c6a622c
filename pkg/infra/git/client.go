package git

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
)

// Client inspects the local repository the appcast is generated for.
type Client struct {
	repo *git.Repository
}

var _ interfaces.SourceControl = (*Client)(nil)

// New opens the git repository containing root.
func New(root string) (*Client, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository",
			goerr.T(types.ErrTagSourceControl),
			goerr.V("root", root),
		)
	}
	return &Client{repo: repo}, nil
}

// IsClean reports whether tracked files differ from HEAD, in the index or in the
// worktree. Untracked files are ignored.
func (x *Client) IsClean(ctx context.Context) (bool, error) {
	wt, err := x.repo.Worktree()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get worktree", goerr.T(types.ErrTagSourceControl))
	}

	status, err := wt.Status()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get worktree status", goerr.T(types.ErrTagSourceControl))
	}

	for path, st := range status {
		if st.Staging == git.Untracked && st.Worktree == git.Untracked {
			continue
		}
		if st.Staging != git.Unmodified || st.Worktree != git.Unmodified {
			logging.From(ctx).Debug("Uncommitted change",
				slog.String("path", path),
				slog.String("staging", string(st.Staging)),
				slog.String("worktree", string(st.Worktree)),
			)
			return false, nil
		}
	}

	return true, nil
}

// ResolveTagCommit returns the commit a tag points to. Annotated tags are peeled.
func (x *Client) ResolveTagCommit(ctx context.Context, tag types.TagName) (types.CommitID, error) {
	ref, err := x.repo.Tag(string(tag))
	if err != nil {
		return "", goerr.Wrap(err, "failed to find tag",
			goerr.T(types.ErrTagSourceControl),
			goerr.V("tag", tag),
		)
	}

	tagObj, err := x.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tagObj.Commit()
		if err != nil {
			return "", goerr.Wrap(err, "annotated tag does not point to a commit",
				goerr.T(types.ErrTagSourceControl),
				goerr.V("tag", tag),
			)
		}
		return types.CommitID(commit.Hash.String()), nil

	case errors.Is(err, plumbing.ErrObjectNotFound):
		// lightweight tag
		return types.CommitID(ref.Hash().String()), nil

	default:
		return "", goerr.Wrap(err, "failed to read tag object",
			goerr.T(types.ErrTagSourceControl),
			goerr.V("tag", tag),
		)
	}
}
