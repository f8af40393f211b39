package httpapi

import (
	"net/http"

	"github.com/riskibarqy/team-roster/internal/platform/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	// MetricsHandler is mounted on GET /metrics when set.
	MetricsHandler http.Handler
	Recorder       HTTPRecorder
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.MetricsHandler)
	registerPlayerRoutes(mux, handler)
	registerEventRoutes(mux, handler)
	registerSelectionRoutes(mux, handler)

	var chain http.Handler = recoverPanic(logger, mux)
	chain = CORS(cfg.CORSAllowedOrigins, chain)
	chain = RequestLogging(logger, chain)
	chain = RequestMetrics(cfg.Recorder, mux, chain)
	return RequestTracing(chain)
}
