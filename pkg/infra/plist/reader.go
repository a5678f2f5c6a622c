package plist

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/micromdm/plist"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

// Reader decodes Info.plist files (XML or binary) in-process.
type Reader struct{}

var _ interfaces.ManifestReader = (*Reader)(nil)

func New() *Reader {
	return &Reader{}
}

func (x *Reader) ReadManifestKey(ctx context.Context, path, key string) (string, error) {
	// #nosec G304
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read manifest",
			goerr.T(types.ErrTagManifestRead),
			goerr.V("path", path),
		)
	}

	var manifest map[string]any
	if err := plist.Unmarshal(raw, &manifest); err != nil {
		return "", goerr.Wrap(err, "failed to decode manifest",
			goerr.T(types.ErrTagManifestRead),
			goerr.V("path", path),
		)
	}

	value, ok := manifest[key]
	if !ok {
		return "", goerr.New("key not found in manifest",
			goerr.T(types.ErrTagManifestRead),
			goerr.V("path", path),
			goerr.V("key", key),
		)
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case map[string]any, []any:
		return "", goerr.New("manifest value is not a scalar",
			goerr.T(types.ErrTagManifestRead),
			goerr.V("path", path),
			goerr.V("key", key),
		)
	default:
		return fmt.Sprint(v), nil
	}
}
