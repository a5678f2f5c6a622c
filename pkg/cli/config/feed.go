package config

import (
	"log/slog"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type Feed struct {
	root               string
	scratchDir         string
	appName            string
	appBundleName      string
	prefPaneBundleName string
	baseURL            string
	stableFileName     string
	prereleaseFileName string
}

func (x *Feed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "root",
			Aliases:     []string{"r"},
			Usage:       "Project root; feed files are written here and relative tool paths resolve against it",
			Category:    "Feed",
			Value:       ".",
			Destination: &x.root,
			Sources:     cli.EnvVars("APPCASTER_ROOT"),
		},
		&cli.StringFlag{
			Name:        "scratch-dir",
			Usage:       "Parent directory of the temporary download space (default: OS temp dir)",
			Category:    "Feed",
			Destination: &x.scratchDir,
			Sources:     cli.EnvVars("APPCASTER_SCRATCH_DIR"),
		},
		&cli.StringFlag{
			Name:        "app-name",
			Usage:       "Application name used in the feed titles",
			Category:    "Feed",
			Value:       "Mac Mouse Fix",
			Destination: &x.appName,
			Sources:     cli.EnvVars("APPCASTER_APP_NAME"),
		},
		&cli.StringFlag{
			Name:        "app-bundle",
			Usage:       "File name of the application bundle inside release archives",
			Category:    "Feed",
			Value:       "Mac Mouse Fix.app",
			Destination: &x.appBundleName,
			Sources:     cli.EnvVars("APPCASTER_APP_BUNDLE"),
		},
		&cli.StringFlag{
			Name:        "prefpane-bundle",
			Usage:       "File name of the legacy preference pane bundle; releases shipping it are skipped",
			Category:    "Feed",
			Value:       "Mouse Fix.prefpane",
			Destination: &x.prefPaneBundleName,
			Sources:     cli.EnvVars("APPCASTER_PREFPANE_BUNDLE"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public URL the feed files are served from",
			Category:    "Feed",
			Value:       "https://raw.githubusercontent.com/noah-nuebling/mac-mouse-fix/master",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("APPCASTER_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "stable-file",
			Usage:       "File name of the stable feed",
			Category:    "Feed",
			Value:       "appcast.xml",
			Destination: &x.stableFileName,
			Sources:     cli.EnvVars("APPCASTER_STABLE_FILE"),
		},
		&cli.StringFlag{
			Name:        "prerelease-file",
			Usage:       "File name of the feed including prereleases",
			Category:    "Feed",
			Value:       "appcast-pre.xml",
			Destination: &x.prereleaseFileName,
			Sources:     cli.EnvVars("APPCASTER_PRERELEASE_FILE"),
		},
	}
}

// Root returns the project root as an absolute path. External tools run in it, so
// every path handed to them must not depend on the process working directory.
func (x *Feed) Root() (string, error) {
	root, err := filepath.Abs(x.root)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve project root",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("root", x.root),
		)
	}
	return root, nil
}

func (x *Feed) Input(repo model.Repository) (*model.GenerateAppcastInput, error) {
	root, err := x.Root()
	if err != nil {
		return nil, err
	}

	return &model.GenerateAppcastInput{
		Repository:         repo,
		Root:               root,
		ScratchDir:         x.scratchDir,
		AppBundleName:      x.appBundleName,
		PrefPaneBundleName: x.prefPaneBundleName,
		Feed: model.FeedSettings{
			AppName:            x.appName,
			BaseURL:            x.baseURL,
			StableFileName:     x.stableFileName,
			PrereleaseFileName: x.prereleaseFileName,
		},
	}, nil
}

func (x *Feed) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("Root", x.root),
		slog.String("ScratchDir", x.scratchDir),
		slog.String("AppName", x.appName),
		slog.String("AppBundle", x.appBundleName),
		slog.String("PrefPaneBundle", x.prefPaneBundleName),
		slog.String("BaseURL", x.baseURL),
		slog.String("StableFile", x.stableFileName),
		slog.String("PrereleaseFile", x.prereleaseFileName),
	)
}
