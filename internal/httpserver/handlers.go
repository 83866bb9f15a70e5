package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gql-proxy-cache/internal/cache/service"
	"gql-proxy-cache/internal/metrics"
	"gql-proxy-cache/internal/utils"
)

// handleProxy serves POST /proxy
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	req, err := utils.ParseQueryRequest(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			metrics.RecordProxyRequest("too_large")
			s.writeErrorResponse(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.logger.Debug("Rejected malformed proxy request", zap.Error(err))
		metrics.RecordProxyRequest("bad_request")
		s.writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.proxyService.Handle(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			s.logger.Debug("Rejected proxy request without query")
			metrics.RecordProxyRequest("bad_request")
			s.writeErrorResponse(w, "missing query", http.StatusBadRequest)
			return
		}

		s.logger.Error("Failed to serve proxy request",
			zap.String("operation_name", req.OperationName),
			zap.Error(err))
		metrics.RecordProxyRequest("error")
		s.writeErrorResponse(w, "Failed to fetch from "+s.upstreamName, http.StatusInternalServerError)
		return
	}

	metrics.RecordProxyRequest(strings.ToLower(string(resp.Status)))
	w.Header().Set("X-Cache", string(resp.Status))
	s.writeResponse(w, http.StatusOK, resp)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
