// Package di wires the application together. Providers are assembled by
// google/wire; see wire.go and the generated wire_gen.go.
package di

import (
	"go.uber.org/zap"

	"lifeline-backend/application/ports"
	"lifeline-backend/application/services"
	"lifeline-backend/domain/timeline"
	"lifeline-backend/infrastructure/config"
	"lifeline-backend/infrastructure/files"
	"lifeline-backend/infrastructure/gateway"
	"lifeline-backend/infrastructure/observability"
	"lifeline-backend/infrastructure/persistence/sqlite"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *observability.Collector
	Store     *timeline.Store
	Log       ports.ActivityLog
	FileIndex ports.FileIndex
	Gateway   ports.IntelligenceGateway
	Tracker   *services.TrackerService
	Query     *services.QueryService
}

// Close releases infrastructure resources in reverse dependency order.
func (c *Container) Close() error {
	var firstErr error
	if idx, ok := c.FileIndex.(*files.Index); ok {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := c.Log.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("lifeline")
}

// ProvideAnalyzer creates the focus and prediction analyzer
func ProvideAnalyzer() *timeline.Analyzer {
	return timeline.NewAnalyzer()
}

// ProvideTimelineStore creates the per-process timeline store in the
// configured timezone
func ProvideTimelineStore(cfg *config.Config, analyzer *timeline.Analyzer) *timeline.Store {
	return timeline.NewStore(cfg.Location(), analyzer)
}

// ProvideActivityLog opens the sqlite activity log
func ProvideActivityLog(cfg *config.Config, analyzer *timeline.Analyzer) (ports.ActivityLog, error) {
	return sqlite.Open(cfg.DatabasePath, analyzer)
}

// ProvideFileIndex scans and watches the monitored directory
func ProvideFileIndex(cfg *config.Config, logger *zap.Logger) (ports.FileIndex, error) {
	return files.NewIndex(cfg.MonitoredDir, logger)
}

// ProvideGateway creates the intelligence gateway client
func ProvideGateway(
	cfg *config.Config,
	index ports.FileIndex,
	metrics *observability.Collector,
	logger *zap.Logger,
) ports.IntelligenceGateway {
	return gateway.NewClient(
		cfg.GatewayBaseURL,
		cfg.GatewayTimeout,
		cfg.GatewayCacheTTL,
		index,
		metrics,
		logger,
	)
}

// ProvideTrackerService creates the event ingestor
func ProvideTrackerService(
	store *timeline.Store,
	log ports.ActivityLog,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.TrackerService {
	return services.NewTrackerService(store, log, metrics, logger)
}

// ProvideQueryService creates the read façade
func ProvideQueryService(
	cfg *config.Config,
	store *timeline.Store,
	gw ports.IntelligenceGateway,
	index ports.FileIndex,
	logger *zap.Logger,
) *services.QueryService {
	return services.NewQueryService(store, gw, index, cfg.GatewayTimeout, logger)
}
