package archive

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra/command"
)

const DefaultDittoPath = "ditto"

// Ditto extracts archives with macOS ditto, keeping resource forks and extended attributes.
type Ditto struct {
	runner command.Runner
	path   string
}

var _ interfaces.Extractor = (*Ditto)(nil)

func NewDitto(runner command.Runner, path string) *Ditto {
	return &Ditto{runner: runner, path: path}
}

func (x *Ditto) ExtractArchive(ctx context.Context, src, dst string) error {
	if _, err := x.runner.Run(ctx, nil, x.path, "-x", "-k", "--sequesterRsrc", "--rsrc", src, dst); err != nil {
		return goerr.Wrap(err, "ditto failed to extract archive",
			goerr.T(types.ErrTagExtract),
			goerr.V("file", src),
		)
	}
	return nil
}
