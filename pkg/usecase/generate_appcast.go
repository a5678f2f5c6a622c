package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
	"github.com/noah-nuebling/appcaster/pkg/utils/safe"
)

// GenerateAppcast lists every published release of the repository, processes them one
// by one in API order and writes the stable and prerelease feeds. Nothing is published
// unless every release has been processed; the scratch space is removed on every exit path.
func (x *UseCase) GenerateAppcast(ctx context.Context, input *model.GenerateAppcastInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if err := x.validateClients(); err != nil {
		return err
	}
	logger := logging.From(ctx)

	clean, err := x.clients.SourceControl().IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return goerr.New("there are uncommitted changes, commit or stash them before generating the appcast",
			goerr.T(types.ErrTagPrecondition),
			goerr.V("root", input.Root),
		)
	}

	releases, err := x.clients.ReleaseLister().ListReleases(ctx, input.Repository)
	if err != nil {
		return err
	}
	logger.Info("Listed releases", "repository", input.Repository.String(), "count", len(releases))

	parent, err := scratchParent(input)
	if err != nil {
		return err
	}
	scratchDir, err := os.MkdirTemp(parent, "appcaster.*")
	if err != nil {
		return goerr.Wrap(err, "failed to create scratch directory", goerr.V("parent", parent))
	}
	defer safe.RemoveAll(scratchDir)

	var items model.FeedItems
	for _, release := range releases {
		item, err := x.processRelease(ctx, input, scratchDir, release)
		if err != nil {
			return goerr.Wrap(err, "failed to process release",
				goerr.V("release", release.Name),
				goerr.V("tag", release.TagName),
			)
		}
		if item == nil {
			continue
		}
		items.Append(item)
	}

	stable, err := renderAppcast(input.Feed.StableMeta(), items.Stable)
	if err != nil {
		return err
	}
	prerelease, err := renderAppcast(input.Feed.PrereleaseMeta(), items.All)
	if err != nil {
		return err
	}

	docs := []*model.Document{
		{Name: input.Feed.StableFileName, Body: stable},
		{Name: input.Feed.PrereleaseFileName, Body: prerelease},
	}
	if err := x.publish(ctx, docs); err != nil {
		return err
	}

	logger.Info("Generated appcast",
		"stable_items", len(items.Stable),
		"all_items", len(items.All),
		"skipped", len(releases)-len(items.All),
	)
	return nil
}

// publish stages the documents on every publisher and commits only when all of them
// have been staged. A failed commit discards what the later publishers staged.
func (x *UseCase) publish(ctx context.Context, docs []*model.Document) error {
	var staged []interfaces.Staging
	for _, pub := range x.clients.Publishers() {
		staging, err := pub.Stage(ctx, docs)
		if err != nil {
			for _, s := range staged {
				s.Discard(ctx)
			}
			return err
		}
		staged = append(staged, staging)
	}

	for i, staging := range staged {
		if err := staging.Commit(ctx); err != nil {
			for _, rest := range staged[i+1:] {
				rest.Discard(ctx)
			}
			return err
		}
	}
	return nil
}

func (x *UseCase) validateClients() error {
	missing := func(name string) error {
		return goerr.New("client is not configured", goerr.T(types.ErrTagInvalidOption), goerr.V("client", name))
	}

	switch {
	case x.clients.SourceControl() == nil:
		return missing("source control")
	case x.clients.ReleaseLister() == nil:
		return missing("release lister")
	case x.clients.Extractor() == nil:
		return missing("extractor")
	case x.clients.ManifestReader() == nil:
		return missing("manifest reader")
	case x.clients.Signer() == nil:
		return missing("signer")
	case x.clients.NotesRenderer() == nil:
		return missing("notes renderer")
	case len(x.clients.Publishers()) == 0:
		return missing("publisher")
	}
	return nil
}

// scratchParent returns the absolute directory the run's scratch space is created in.
// A relative ScratchDir is taken relative to the project root. Paths under it are
// handed to external tools that run in another working directory.
func scratchParent(input *model.GenerateAppcastInput) (string, error) {
	dir := input.ScratchDir
	switch {
	case dir == "":
		dir = os.TempDir()
	case !filepath.IsAbs(dir):
		dir = filepath.Join(input.Root, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve scratch directory",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("dir", dir),
		)
	}
	return abs, nil
}
