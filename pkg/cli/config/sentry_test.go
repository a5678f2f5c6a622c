package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/noah-nuebling/appcaster/pkg/cli/config"
)

func TestSentryFlags(t *testing.T) {
	sentryConfig := &config.Sentry{}
	flags := sentryConfig.Flags()

	gt.V(t, len(flags)).Equal(2)
	names := flagNames(flags)
	gt.True(t, names["sentry-dsn"])
	gt.True(t, names["sentry-env"])
}

func TestSentryConfigureWithoutDSN(t *testing.T) {
	sentryConfig := &config.Sentry{}
	gt.False(t, sentryConfig.Enabled())
	gt.NoError(t, sentryConfig.Configure(context.Background()))
	sentryConfig.Flush()
}
