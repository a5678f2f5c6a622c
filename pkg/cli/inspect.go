package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra"
	"github.com/noah-nuebling/appcaster/pkg/usecase"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Parse an existing appcast and log its items",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one appcast file is required",
					goerr.T(types.ErrTagInvalidOption),
					goerr.V("args", c.Args().Slice()),
				)
			}
			path := c.Args().First()

			entries, err := usecase.New(infra.New()).InspectAppcast(ctx, path)
			if err != nil {
				return err
			}

			logger := logging.From(ctx)
			for _, entry := range entries {
				logger.Info("Appcast item",
					"title", entry.Title,
					"version", entry.ShortVersion,
					"build", entry.Version,
					"minimum_system_version", entry.MinimumSystemVersion,
					"published", entry.PubDate,
					"url", entry.URL,
				)
			}
			logger.Info("Inspected appcast", "path", path, "items", len(entries))

			return nil
		},
	}
}
