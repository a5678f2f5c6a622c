package plist

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra/command"
)

const DefaultPlistBuddyPath = "/usr/libexec/PlistBuddy"

// PlistBuddy reads manifest keys with the macOS PlistBuddy tool.
type PlistBuddy struct {
	runner command.Runner
	path   string
}

var _ interfaces.ManifestReader = (*PlistBuddy)(nil)

func NewPlistBuddy(runner command.Runner, path string) *PlistBuddy {
	return &PlistBuddy{runner: runner, path: path}
}

func (x *PlistBuddy) ReadManifestKey(ctx context.Context, path, key string) (string, error) {
	out, err := x.runner.Run(ctx, nil, x.path, "-c", "Print "+key, path)
	if err != nil {
		return "", goerr.Wrap(err, "PlistBuddy failed to read key",
			goerr.T(types.ErrTagManifestRead),
			goerr.V("path", path),
			goerr.V("key", key),
		)
	}

	return strings.TrimRight(string(out), "\r\n"), nil
}
