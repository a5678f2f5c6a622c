package interfaces

import (
	"context"

	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

// ReleaseLister lists published releases of a repository in API order.
type ReleaseLister interface {
	ListReleases(ctx context.Context, repo model.Repository) ([]*model.Release, error)
}

// SourceControl answers questions about the local working tree.
type SourceControl interface {
	// IsClean reports whether tracked files have no uncommitted changes.
	IsClean(ctx context.Context) (bool, error)
	ResolveTagCommit(ctx context.Context, tag types.TagName) (types.CommitID, error)
}

// Extractor unpacks a release archive into dst.
type Extractor interface {
	ExtractArchive(ctx context.Context, src, dst string) error
}

// ManifestReader reads one string value from a bundle manifest (Info.plist).
type ManifestReader interface {
	ReadManifestKey(ctx context.Context, path, key string) (string, error)
}

// Signer computes the detached signature of an archive.
type Signer interface {
	SignArchive(ctx context.Context, path string) (*model.Signature, error)
}

// NotesRenderer converts markdown release notes to HTML.
type NotesRenderer interface {
	RenderNotes(ctx context.Context, markdown string) (string, error)
}

// Publisher stores finished feed documents, overwriting previous ones. Stage prepares
// every document without making any of them visible.
type Publisher interface {
	Stage(ctx context.Context, docs []*model.Document) (Staging, error)
}

// Staging holds documents prepared by a Publisher. Commit makes all of them visible
// and restores the previous ones when it fails; Discard drops them.
type Staging interface {
	Commit(ctx context.Context) error
	Discard(ctx context.Context)
}
