package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
	"github.com/noah-nuebling/appcaster/pkg/utils/safe"
)

const extractedDirName = "extracted"

// processRelease turns one release into a feed item. It returns nil without error when
// the release ships a bundle that is not represented in the feed.
func (x *UseCase) processRelease(ctx context.Context, input *model.GenerateAppcastInput, scratchDir string, release *model.Release) (*model.FeedItem, error) {
	logger := logging.From(ctx).With("release", release.Name, "tag", release.TagName)
	logger.Info("Processing release")

	commitID, err := x.clients.SourceControl().ResolveTagCommit(ctx, release.TagName)
	if err != nil {
		return nil, err
	}
	release.CommitID = commitID

	notesHTML, err := x.clients.NotesRenderer().RenderNotes(ctx, release.Notes)
	if err != nil {
		return nil, err
	}

	// each release gets its own directory so that a bundle left over from the previous
	// release can never be picked up as this release's bundle
	workDir, err := os.MkdirTemp(scratchDir, "release.*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release work directory")
	}
	defer safe.RemoveAll(workDir)

	archivePath, err := downloadAsset(ctx, x.clients.HTTPClient(), release.AssetURL, workDir)
	if err != nil {
		return nil, err
	}

	extractDir := filepath.Join(workDir, extractedDirName)
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create extraction directory", goerr.V("path", extractDir))
	}
	if err := x.clients.Extractor().ExtractArchive(ctx, archivePath, extractDir); err != nil {
		return nil, err
	}

	bundle, err := x.inspectBundle(ctx, input, extractDir)
	if err != nil {
		return nil, err
	}
	if bundle.Skipped() {
		logger.Info("Skipping release, it ships a preference pane", "bundle", filepath.Base(bundle.Path))
		return nil, nil
	}

	sig, err := x.clients.Signer().SignArchive(ctx, archivePath)
	if err != nil {
		return nil, err
	}

	item := model.NewFeedItem(release, bundle, notesHTML, sig)
	logger.Debug("Processed release",
		"commit", release.CommitID,
		"version", item.Version,
		"minimum_system_version", item.MinimumSystemVersion,
		"prerelease", item.Prerelease,
	)
	return item, nil
}
