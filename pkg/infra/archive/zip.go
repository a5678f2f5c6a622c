package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/utils/safe"
)

// Zip extracts zip archives in-process. Directory structure, permission bits and
// symlinks (used by framework bundles) are preserved.
type Zip struct{}

var _ interfaces.Extractor = (*Zip)(nil)

func NewZip() *Zip {
	return &Zip{}
}

func (x *Zip) ExtractArchive(ctx context.Context, src, dst string) error {
	zipFile, err := zip.OpenReader(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open zip file", goerr.T(types.ErrTagExtract), goerr.V("file", src))
	}
	defer safe.Close(zipFile)

	for _, f := range zipFile.File {
		if err := extractEntry(f, dst); err != nil {
			return goerr.Wrap(err, "failed to extract zip entry",
				goerr.T(types.ErrTagExtract),
				goerr.V("file", src),
				goerr.V("entry", f.Name),
			)
		}
	}

	return nil
}

func extractEntry(f *zip.File, dst string) error {
	// macOS archivers add AppleDouble resource fork entries; they are not part of the bundle
	if strings.HasPrefix(f.Name, "__MACOSX/") {
		return nil
	}

	fpath, err := entryPath(dst, f.Name)
	if err != nil {
		return err
	}

	mode := f.Mode()
	switch {
	case f.FileInfo().IsDir():
		return os.MkdirAll(fpath, 0755|mode.Perm())

	case mode&os.ModeSymlink != 0:
		return extractSymlink(f, dst, fpath)
	}

	if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V("path", fpath))
	}

	rc, err := f.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open zip entry")
	}
	defer safe.Close(rc)

	// #nosec
	out, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return goerr.Wrap(err, "failed to open file", goerr.V("path", fpath))
	}

	// #nosec
	if _, err := io.Copy(out, rc); err != nil {
		safe.Close(out)
		return goerr.Wrap(err, "failed to copy file content", goerr.V("path", fpath))
	}
	if err := out.Close(); err != nil {
		return goerr.Wrap(err, "failed to close file", goerr.V("path", fpath))
	}

	return nil
}

func extractSymlink(f *zip.File, dst, fpath string) error {
	rc, err := f.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open zip entry")
	}
	defer safe.Close(rc)

	raw, err := io.ReadAll(rc)
	if err != nil {
		return goerr.Wrap(err, "failed to read symlink target")
	}
	target := string(raw)

	if filepath.IsAbs(target) {
		return goerr.New("absolute symlink in archive", goerr.V("path", fpath), goerr.V("target", target))
	}
	resolved := filepath.Join(filepath.Dir(fpath), target)
	if !withinDir(dst, resolved) {
		return goerr.New("symlink escapes extraction directory", goerr.V("path", fpath), goerr.V("target", target))
	}

	if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V("path", fpath))
	}
	if err := os.Symlink(target, fpath); err != nil {
		return goerr.Wrap(err, "failed to create symlink", goerr.V("path", fpath), goerr.V("target", target))
	}
	return nil
}

func entryPath(dst, name string) (string, error) {
	normalized := strings.ReplaceAll(name, "\\", "/")
	fpath := filepath.Join(dst, filepath.FromSlash(normalized))
	if !withinDir(dst, fpath) {
		return "", goerr.New("illegal file path of zip", goerr.V("path", name))
	}
	return fpath, nil
}

func withinDir(dir, path string) bool {
	return strings.HasPrefix(path, filepath.Clean(dir)+string(os.PathSeparator))
}
