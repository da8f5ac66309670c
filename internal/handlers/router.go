package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MosaabBleik/catalog-service/internal/middleware"
)

// NewRouter assembles the catalog API. metrics and gatherer may be nil, in
// which case no /metrics endpoint is served.
func NewRouter(h *ProductHandler, logger *zap.Logger, metrics *middleware.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)

	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	h.Register(r)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	var handler http.Handler = r
	handler = middleware.Recover(logger)(handler)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.RequestID(handler)
	return handler
}
