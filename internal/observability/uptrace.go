package observability

import (
	"context"

	"github.com/riskibarqy/lineup-dataset/internal/config"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// InitUptrace exports usecase and fetch spans to Uptrace when UPTRACE_DSN is
// set. Without a DSN the global no-op tracer stays in place.
func InitUptrace(cfg config.Config, logger *logging.Logger) func(context.Context) error {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.UptraceDSN == "" {
		logger.Debug("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return func(context.Context) error { return nil }
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithMetricsEnabled(false),
		uptrace.WithLoggingEnabled(false),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)

	return uptrace.Shutdown
}
