package obslog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronograph-db/chronograph/internal/obslog"
)

func TestInitNoneIsNoop(t *testing.T) {
	shutdown, err := obslog.Init(context.Background(), obslog.Config{Exporter: obslog.ExporterNone})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitStdout(t *testing.T) {
	shutdown, err := obslog.Init(context.Background(), obslog.Config{Exporter: obslog.ExporterStdout, ServiceName: "chronograph-test"})
	require.NoError(t, err)
	defer func() { require.NoError(t, shutdown(context.Background())) }()

	ctx, span := obslog.Tracer().Start(context.Background(), "test-span")
	span.End()
	obslog.Metrics.CascadeSize.Record(ctx, 3)
}

func TestInitOTLPRequiresEndpoint(t *testing.T) {
	_, err := obslog.Init(context.Background(), obslog.Config{Exporter: obslog.ExporterOTLP})
	require.Error(t, err)
}
