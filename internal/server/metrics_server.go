package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dotnetes/pkg/logging"
)

const (
	// DefaultReadHeaderTimeout is the default timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout is the default timeout for writing responses.
	DefaultWriteTimeout = 30 * time.Second
	// DefaultIdleTimeout is the default idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second
)

// PassInfo describes the most recent reconciliation pass.
type PassInfo struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Failures  int       `json:"failures"`
	Passes    int64     `json:"passes"`
}

// HealthFunc returns the most recent pass, or nil before the first one, and a
// non-nil error once the operator is no longer healthy.
type HealthFunc func() (*PassInfo, error)

type healthResponse struct {
	Status   string    `json:"status"`
	Error    string    `json:"error,omitempty"`
	LastPass *PassInfo `json:"lastPass,omitempty"`
}

// MetricsServer serves /metrics and /healthz.
type MetricsServer struct {
	addr     string
	gatherer prometheus.Gatherer
	health   HealthFunc

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewMetricsServer creates a server that will listen on addr. A nil health
// check always reports healthy.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer, health HealthFunc) *MetricsServer {
	if health == nil {
		health = func() (*PassInfo, error) { return nil, nil }
	}
	return &MetricsServer{
		addr:     addr,
		gatherer: gatherer,
		health:   health,
	}
}

// CreateMux returns the handler serving both endpoints.
func (s *MetricsServer) CreateMux() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Health check endpoint for Kubernetes probes
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		last, err := s.health()
		resp := healthResponse{Status: "ok", LastPass: last}
		status := http.StatusOK
		if err != nil {
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})

	return mux
}

// Start binds the listener and serves in the background.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return fmt.Errorf("metrics server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.CreateMux(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	httpServer := s.httpServer
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("MetricsServer", err, "Metrics server stopped unexpectedly")
		}
	}()

	logging.Info("MetricsServer", "Serving metrics and health on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *MetricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown gracefully shuts down the server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}
