package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/clog/hooks"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

var defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

func init() {
	_ = Configure("text", "info", "stdout")
}

// Default returns the default logger
func Default() *slog.Logger {
	return defaultLogger
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

var logColors = &clog.ColorMap{
	Level: map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgGreen, color.Bold),
		slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
		slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	},
	LevelDefault: color.New(color.FgBlue, color.Bold),
	Time:         color.New(color.FgWhite),
	Message:      color.New(color.FgHiWhite),
	AttrKey:      color.New(color.FgHiCyan),
	AttrValue:    color.New(color.FgHiWhite),
}

// Configure replaces the default logger. logFormat is "text" or "json"; logOutput is
// "stdout", "stderr" or a file path. Level and format are checked before the output
// file is created.
func Configure(logFormat, logLevel, logOutput string) error {
	level, ok := logLevels[logLevel]
	if !ok {
		return goerr.New("invalid log level", goerr.T(types.ErrTagInvalidOption), goerr.V("value", logLevel))
	}
	if logFormat != "text" && logFormat != "json" {
		return goerr.New("invalid log format, should be 'json' or 'text'", goerr.T(types.ErrTagInvalidOption), goerr.V("value", logFormat))
	}

	w, err := openOutput(logOutput)
	if err != nil {
		return err
	}

	defaultLogger = slog.New(newHandler(logFormat, level, w))
	return nil
}

func openOutput(logOutput string) (io.Writer, error) {
	switch logOutput {
	case "stdout", "-":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	fd, err := os.Create(filepath.Clean(logOutput))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", logOutput))
	}
	return fd, nil
}

// newHandler masks secret values (tokens, signing keys) in both formats.
func newHandler(logFormat string, level slog.Level, w io.Writer) slog.Handler {
	filter := masq.New(
		masq.WithTag("secret"),
		masq.WithType[types.GitHubToken](masq.MaskWithSymbol('*', 16)),
		masq.WithType[types.SigningKey](masq.MaskWithSymbol('*', 16)),
	)

	if logFormat == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: filter,
		})
	}

	return clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithSource(true),
		clog.WithColorMap(logColors),
		clog.WithAttrHook(hooks.GoErr()),
		clog.WithReplaceAttr(filter),
	)
}
