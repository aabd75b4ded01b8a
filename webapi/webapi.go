// SPDX-License-Identifier: MIT

// Package webapi serves the read-only operator surface of the controller:
// Prometheus metrics, JSON snapshots of the topology, the spanning tree and
// the lifecycle state, a forced recomputation endpoint and the runtime log
// level.
package webapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/metrics"
)

// Source is the controller state the API reads.
type Source interface {
	Snapshot() core.Snapshot
	Outcome() (controller.Outcome, error)
	Status() controller.Status
	RecomputeOutcome() (controller.Outcome, error)
}

// Options configures a Server.
type Options struct {
	Logger *zap.Logger
	// LogLevel, when set, is exposed on /log/level.
	LogLevel *zap.AtomicLevel
	Metrics  *metrics.Registry
	Source   Source
	Addr     string
}

// Server is the HTTP API.
type Server struct {
	logger     *zap.Logger
	logLevel   *zap.AtomicLevel
	metrics    *metrics.Registry
	source     Source
	httpServer *http.Server
}

// New returns a Server for opts. It does not listen until Serve or ListenAndServe.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		logger:   opts.Logger,
		logLevel: opts.LogLevel,
		metrics:  opts.Metrics,
		source:   opts.Source,
	}
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		Addr:         opts.Addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	if s.logLevel != nil {
		r.Handle("/log/level", s.logLevel).Methods(http.MethodGet, http.MethodPut)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/topology", s.handleTopology).Methods(http.MethodGet)
	api.HandleFunc("/tree", s.handleTree).Methods(http.MethodGet)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/recompute", s.handleRecompute).Methods(http.MethodPost)
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)

	r.Use(s.metricsMiddleware)

	return r
}

// ListenAndServe listens on the configured address.
// It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l. It returns nil after Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("web api listening", zap.Stringer("addr", l.Addr()))
	err := s.httpServer.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRoot(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := rw.Write([]byte("kruskalctl web api\n"))
	if err != nil {
		s.logger.Debug("failed to write root response", zap.Error(err))
	}
}
