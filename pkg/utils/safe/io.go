package safe

import (
	"io"
	"log/slog"
	"os"

	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
)

// Close safely closes the resource and logs error if any
func Close(closer io.Closer) {
	if closer != nil {
		if err := closer.Close(); err != nil {
			if err == io.EOF {
				return
			}
			logging.Default().Warn("Fail to close resource", slog.Any("error", err))
		}
	}
}

// Remove safely removes the file and logs error if any
func Remove(path string) {
	if err := os.Remove(path); err != nil {
		logging.Default().Warn("Fail to remove file", slog.String("path", path), slog.Any("error", err))
	}
}

// RemoveAll removes the directory tree. Failures are logged and otherwise ignored; stale
// scratch data may then remain on disk.
func RemoveAll(path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		logging.Default().Warn("Fail to remove directory", slog.String("path", path), slog.Any("error", err))
	}
}
