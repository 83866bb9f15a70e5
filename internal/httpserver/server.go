package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gql-proxy-cache/internal/cache/service"
	"gql-proxy-cache/internal/config"
)

// Server represents the public proxy HTTP server
type Server struct {
	proxyService *service.ProxyService
	cfg          *config.ServerConfig
	upstreamName string
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a new proxy HTTP server. upstreamName appears in the generic fetch failure message.
func NewServer(proxyService *service.ProxyService, cfg *config.ServerConfig, upstreamName string, logger *zap.Logger) *Server {
	s := &Server{
		proxyService: proxyService,
		cfg:          cfg,
		upstreamName: upstreamName,
		logger:       logger,
	}

	readTimeout, writeTimeout, idleTimeout := cfg.GetTimeouts()
	s.server = &http.Server{
		Handler:      s.createRouter(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s
}

// Start listens on the given TCP port and serves until Stop is called
func (s *Server) Start(port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	s.logger.Info("Starting proxy HTTP server", zap.String("address", listener.Addr().String()))
	return s.Serve(listener)
}

// Serve serves HTTP on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	return s.server.Serve(listener)
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping proxy HTTP server")
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Proxy endpoint
	router.HandleFunc("/proxy", s.handleProxy).Methods("POST")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeResponse(w, statusCode, &ErrorResponse{Error: message})
}
