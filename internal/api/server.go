package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sitescout/internal/site"
)

// Discoverer starts one discovery run and streams its records. The returned
// channel closes once every branch of the walk has finished; canceling ctx
// ends the run early. discovery.Walker satisfies it.
type Discoverer interface {
	Stream(ctx context.Context, ref string, aux ...site.Sink) <-chan site.Record
}

// Server wires HTTP handlers to the discovery walker.
type Server struct {
	router     chi.Router
	discoverer Discoverer
	aux        []site.Sink
	defaultRef string
	logger     *zap.Logger
}

// NewServer constructs a Server with middleware and routes. registry backs
// both the /metrics endpoint and the request middleware; nil disables both.
// aux sinks receive every record published by runs the server starts,
// alongside the per-request stream.
func NewServer(
	discoverer Discoverer,
	defaultRef string,
	registry *prometheus.Registry,
	logger *zap.Logger,
	aux ...site.Sink,
) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		discoverer: discoverer,
		aux:        aux,
		defaultRef: defaultRef,
		logger:     logger,
	}

	metrics, err := newHTTPMetrics(registryOrNil(registry))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", s.streamSites)
		r.Get("/sites", s.listSites)
	})

	s.router = r
	return s, nil
}

// registryOrNil narrows a possibly-nil *Registry to the Registerer interface
// without producing a non-nil interface around a nil pointer.
func registryOrNil(registry *prometheus.Registry) prometheus.Registerer {
	if registry == nil {
		return nil
	}
	return registry
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// The walker holds no connections between runs, so readiness mirrors
	// liveness until a downstream dependency warrants a deeper check.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, s.logger)
}

// streamSites serves the SSE stream the dashboard consumes: one data frame
// per discovered site, flushed as soon as the record is assembled. Each
// request starts its own walk, bound to the request context, so a client
// disconnect unwinds the run. The response ends when the walk completes.
func (s *Server) streamSites(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", s.logger)
		return
	}

	ref := s.resolveRef(r)
	logger := s.logger.With(zap.String("ref", ref), zap.String("request_id", requestID(r)))
	logger.Info("sse stream opened")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	for rec := range s.discoverer.Stream(r.Context(), ref, s.aux...) {
		data, err := json.Marshal(rec)
		if err != nil {
			logger.Error("record marshal failed", zap.String("site_path", rec.Path), zap.Error(err))
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			logger.Warn("sse write failed", zap.Error(err))
			return
		}
		flusher.Flush()
	}

	logger.Info("sse stream finished")
}

// listSites runs one walk to completion and returns every record in a single
// response, for consumers that want an aggregate instead of a stream.
func (s *Server) listSites(w http.ResponseWriter, r *http.Request) {
	ref := s.resolveRef(r)

	records := []site.Record{}
	for rec := range s.discoverer.Stream(r.Context(), ref, s.aux...) {
		records = append(records, rec)
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, http.StatusRequestTimeout, "discovery run canceled", s.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sites": records,
		"count": len(records),
	}, s.logger)
}

func (s *Server) resolveRef(r *http.Request) string {
	if ref := r.URL.Query().Get("ref"); ref != "" {
		return ref
	}
	return s.defaultRef
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, logger *zap.Logger) {
	writeJSON(w, status, map[string]string{"error": msg}, logger)
}
