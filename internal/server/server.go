// Package server exposes the sandbox over a JSON REST API.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/dto"
	"github.com/pilacorp/go-did-sandbox/internal/log"
	"github.com/pilacorp/go-did-sandbox/internal/logfields"
	"github.com/pilacorp/go-did-sandbox/sandbox"
)

const serviceName = "did-sandbox"

type Server struct {
	handler http.Handler
}

type options struct {
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// Option configures a Server.
type Option func(*options)

// WithGatherer serves the metrics of g on /metrics. Without it /metrics is
// not registered.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(o *options) {
		o.gatherer = g
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New builds the router for sim and the sessions in manager.
func New(sim Simulator, manager *sandbox.Manager, opts ...Option) *Server {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.New("server")
	}

	router := mux.NewRouter().UseEncodedPath()

	var handlers []Handler
	handlers = append(handlers, NewOperation(sim, o.logger).GetRESTHandlers()...)
	handlers = append(handlers, NewSessionOperation(manager, o.logger).GetRESTHandlers()...)

	for _, h := range handlers {
		router.HandleFunc(h.Path(), h.Handle()).Methods(h.Method())
	}

	router.HandleFunc(healthCheckPath, healthCheckHandler(o.logger)).Methods(http.MethodGet)

	if o.gatherer != nil {
		router.Handle(metricsPath, promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	router.Use(accessLog(o.logger))

	return &Server{
		handler: otelhttp.NewHandler(router, serviceName),
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func healthCheckHandler(logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, _ *http.Request) {
		writeJSON(logger, rw, http.StatusOK, &dto.HealthCheckResponse{
			Status:      healthCheckReady,
			CurrentTime: time.Now(),
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func accessLog(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}

			next.ServeHTTP(rec, req)

			logger.Debug("request served",
				zap.String("method", req.Method),
				logfields.WithPath(req.URL.Path),
				logfields.WithStatus(rec.status),
				logfields.WithDuration(time.Since(start)))
		})
	}
}
