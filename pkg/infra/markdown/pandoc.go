package markdown

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra/command"
)

const DefaultPandocPath = "pandoc"

// Pandoc converts release notes with the pandoc tool, feeding markdown through stdin.
type Pandoc struct {
	runner command.Runner
	path   string
}

var _ interfaces.NotesRenderer = (*Pandoc)(nil)

func NewPandoc(runner command.Runner, path string) *Pandoc {
	return &Pandoc{runner: runner, path: path}
}

func (x *Pandoc) RenderNotes(ctx context.Context, markdown string) (string, error) {
	out, err := x.runner.Run(ctx, strings.NewReader(markdown), x.path, "-f", "markdown", "-t", "html")
	if err != nil {
		return "", goerr.Wrap(err, "pandoc failed to render release notes", goerr.T(types.ErrTagRender))
	}
	return string(out), nil
}
