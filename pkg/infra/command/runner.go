package command

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const maxStderr = 512

// Runner executes an external command-line tool and returns its standard output.
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}

type runner struct {
	dir string
}

var _ Runner = (*runner)(nil)

// New returns a Runner that starts commands in dir. Relative tool paths such as
// "./Frameworks/Sparkle/bin/sign_update" are resolved against dir.
func New(dir string) Runner {
	return &runner{dir: dir}
}

func (x *runner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	// #nosec G204
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = x.dir
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, goerr.Wrap(err, "command failed",
			goerr.V("command", name),
			goerr.V("args", args),
			goerr.V("dir", x.dir),
			goerr.V("stderr", trimOutput(stderr.String())),
		)
	}

	return stdout.Bytes(), nil
}

func trimOutput(out string) string {
	clean := strings.TrimSpace(out)
	if len(clean) > maxStderr {
		return clean[:maxStderr] + "..."
	}
	return clean
}

// FirstLine returns the first line of a tool's output without the trailing newline.
func FirstLine(out []byte) string {
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimRight(line, "\r")
}
