package signer

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra/command"
)

// DefaultSignUpdatePath is where the Sparkle distribution bundled with the project keeps its signing tool.
const DefaultSignUpdatePath = "./Frameworks/Sparkle-1.26.0/bin/sign_update"

// Command signs archives with Sparkle's sign_update tool. The tool prints a single
// line of enclosure attributes which is passed through without validation.
type Command struct {
	runner command.Runner
	path   string
}

var _ interfaces.Signer = (*Command)(nil)

func NewCommand(runner command.Runner, path string) *Command {
	return &Command{runner: runner, path: path}
}

func (x *Command) SignArchive(ctx context.Context, path string) (*model.Signature, error) {
	out, err := x.runner.Run(ctx, nil, x.path, path)
	if err != nil {
		return nil, goerr.Wrap(err, "sign_update failed",
			goerr.T(types.ErrTagSigning),
			goerr.V("archive", path),
		)
	}

	sig, err := model.ParseSignature(command.FirstLine(out))
	if err != nil {
		return nil, goerr.Wrap(err, "unexpected sign_update output", goerr.V("archive", path))
	}

	return sig, nil
}
