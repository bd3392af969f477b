package metrics_fx

import (
	"go.uber.org/fx"

	"astrocrm/internal/services"
	"astrocrm/pkg/metrics"
)

var Module = fx.Provide(
	metrics.New,
	func(m *metrics.Metrics) services.CleanupRecorder { return m },
)
