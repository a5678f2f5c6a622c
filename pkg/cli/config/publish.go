package config

import (
	"context"
	"log/slog"

	"github.com/noah-nuebling/appcaster/pkg/infra"
	"github.com/noah-nuebling/appcaster/pkg/infra/storage"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

type Publish struct {
	gcsBucket          string
	gcsPrefix          string
	gcsCredentialsFile string
}

func (x *Publish) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Also upload the feeds to this Cloud Storage bucket",
			Category:    "Publish",
			Destination: &x.gcsBucket,
			Sources:     cli.EnvVars("APPCASTER_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Category:    "Publish",
			Destination: &x.gcsPrefix,
			Sources:     cli.EnvVars("APPCASTER_GCS_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "gcs-credentials-file",
			Usage:       "Service account key file (default: application default credentials)",
			Category:    "Publish",
			Destination: &x.gcsCredentialsFile,
			Sources:     cli.EnvVars("APPCASTER_GCS_CREDENTIALS_FILE"),
		},
	}
}

// Options returns the publishers: the bucket when configured, then the root directory.
// The root directory commits last so a failed upload leaves no local feed files. The
// returned function releases the bucket client.
func (x *Publish) Options(ctx context.Context, root string) ([]infra.Option, func(), error) {
	local := infra.WithPublisher(storage.NewFile(root))
	if x.gcsBucket == "" {
		return []infra.Option{local}, func() {}, nil
	}

	var clientOptions []option.ClientOption
	if x.gcsCredentialsFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(x.gcsCredentialsFile))
	}

	gcs, err := storage.NewGCS(ctx, x.gcsBucket, x.gcsPrefix, clientOptions...)
	if err != nil {
		return nil, nil, err
	}
	options := []infra.Option{
		infra.WithPublisher(gcs),
		local,
	}

	return options, func() { _ = gcs.Close() }, nil
}

func (x *Publish) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("GCSBucket", x.gcsBucket),
		slog.String("GCSPrefix", x.gcsPrefix),
		slog.Bool("GCSCredentialsFile", x.gcsCredentialsFile != ""),
	)
}
