package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/noah-nuebling/appcaster/pkg/cli/config"
	"github.com/noah-nuebling/appcaster/pkg/infra"
	gitinfra "github.com/noah-nuebling/appcaster/pkg/infra/git"
	"github.com/noah-nuebling/appcaster/pkg/usecase"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func generateCommand() *cli.Command {
	var (
		github  config.GitHub
		feed    config.Feed
		tools   config.Tools
		publish config.Publish
	)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate the stable and prerelease appcasts from all published GitHub releases",
		Flags: slice.Flatten(
			github.Flags(),
			feed.Flags(),
			tools.Flags(),
			publish.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = logging.NewRunContext(ctx)
			logging.From(ctx).Info("Starting appcast generation",
				slog.Any("GitHub", &github),
				slog.Any("Feed", &feed),
				slog.Any("Tools", &tools),
				slog.Any("Publish", &publish),
			)

			return runGenerate(ctx, &github, &feed, &tools, &publish)
		},
	}
}

func runGenerate(ctx context.Context, github *config.GitHub, feed *config.Feed, tools *config.Tools, publish *config.Publish) error {
	root, err := feed.Root()
	if err != nil {
		return err
	}

	gitClient, err := gitinfra.New(root)
	if err != nil {
		return err
	}

	repo, ok := github.Repository()
	if !ok {
		detected, err := gitClient.OriginRepository()
		if err != nil {
			return goerr.Wrap(err, "GitHub repository is not specified and cannot be detected from git remote")
		}
		repo = github.Merge(detected)
		logging.From(ctx).Info("Detected GitHub repository", "repository", repo.String())
	}

	toolOptions, err := tools.Options(root)
	if err != nil {
		return err
	}

	publishOptions, closePublishers, err := publish.Options(ctx, root)
	if err != nil {
		return err
	}
	defer closePublishers()

	clients := infra.New(slice.Flatten(
		[]infra.Option{
			infra.WithReleaseLister(github.NewClient()),
			infra.WithSourceControl(gitClient),
		},
		toolOptions,
		publishOptions,
	)...)

	input, err := feed.Input(repo)
	if err != nil {
		return err
	}
	return usecase.New(clients).GenerateAppcast(ctx, input)
}
