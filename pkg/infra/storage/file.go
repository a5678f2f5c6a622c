package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
	"github.com/noah-nuebling/appcaster/pkg/utils/safe"
)

const feedFileMode = 0644

// File writes feed documents into a directory, normally the project root. Documents
// are written to temporary siblings first and renamed into place on commit.
type File struct {
	dir string
}

var _ interfaces.Publisher = (*File)(nil)

func NewFile(dir string) *File {
	return &File{dir: dir}
}

type stagedFile struct {
	path    string
	tmp     string
	size    int
	prev    []byte
	existed bool
}

type fileStaging struct {
	files []*stagedFile
}

var _ interfaces.Staging = (*fileStaging)(nil)

func (x *File) Stage(ctx context.Context, docs []*model.Document) (interfaces.Staging, error) {
	staging := &fileStaging{}
	for _, doc := range docs {
		file, err := x.stage(doc)
		if err != nil {
			staging.Discard(ctx)
			return nil, err
		}
		staging.files = append(staging.files, file)
	}
	return staging, nil
}

func (x *File) stage(doc *model.Document) (*stagedFile, error) {
	path := filepath.Join(x.dir, doc.Name)
	file := &stagedFile{path: path, size: len(doc.Body)}

	// #nosec G304
	prev, err := os.ReadFile(path)
	switch {
	case err == nil:
		file.prev, file.existed = prev, true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, goerr.Wrap(err, "failed to read existing feed file",
			goerr.T(types.ErrTagPublish),
			goerr.V("path", path),
		)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create feed file",
			goerr.T(types.ErrTagPublish),
			goerr.V("path", path),
		)
	}
	file.tmp = tmp.Name()

	if _, err := tmp.Write(doc.Body); err != nil {
		safe.Close(tmp)
		safe.Remove(file.tmp)
		return nil, goerr.Wrap(err, "failed to write feed file",
			goerr.T(types.ErrTagPublish),
			goerr.V("path", file.tmp),
		)
	}
	if err := tmp.Close(); err != nil {
		safe.Remove(file.tmp)
		return nil, goerr.Wrap(err, "failed to write feed file",
			goerr.T(types.ErrTagPublish),
			goerr.V("path", file.tmp),
		)
	}
	if err := os.Chmod(file.tmp, feedFileMode); err != nil {
		safe.Remove(file.tmp)
		return nil, goerr.Wrap(err, "failed to set feed file mode",
			goerr.T(types.ErrTagPublish),
			goerr.V("path", file.tmp),
		)
	}

	return file, nil
}

func (x *fileStaging) Commit(ctx context.Context) error {
	for i, file := range x.files {
		if err := os.Rename(file.tmp, file.path); err != nil {
			restoreFiles(ctx, x.files[:i])
			for _, rest := range x.files[i:] {
				safe.Remove(rest.tmp)
			}
			return goerr.Wrap(err, "failed to write feed file",
				goerr.T(types.ErrTagPublish),
				goerr.V("path", file.path),
			)
		}
	}

	for _, file := range x.files {
		logging.From(ctx).Info("Wrote feed file", "path", file.path, "size", file.size)
	}
	return nil
}

func (x *fileStaging) Discard(ctx context.Context) {
	for _, file := range x.files {
		safe.Remove(file.tmp)
	}
}

// restoreFiles puts back what was at each path before the commit started.
func restoreFiles(ctx context.Context, files []*stagedFile) {
	for _, file := range files {
		if !file.existed {
			safe.Remove(file.path)
			continue
		}
		if err := os.WriteFile(file.path, file.prev, feedFileMode); err != nil {
			logging.From(ctx).Warn("Failed to restore feed file", "path", file.path, "error", err)
		}
	}
}
