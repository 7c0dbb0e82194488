// Package api is the HTTP surface of the server: session authentication, the synced app data document, the static
// catalog files and the metrics endpoint.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astromechza/tld-buddy/pkg/kv"
)

// DataKey is the kv key holding the app data document.
const DataKey = "app-data"

type Options struct {
	// Password is the shared app password. Login is refused while it is empty.
	Password     string
	SecureCookie bool
	// DataDir holds items.json, maps.json and pois.json.
	DataDir string
	Store   kv.Store
	// Registry receives the server metrics and backs /metrics. Nil means a fresh registry.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

type server struct {
	password     string
	secureCookie bool
	dataDir      string
	store        kv.Store
	metrics      *metrics
	logger       *slog.Logger
}

// NewHandler builds the router for all endpoints.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	s := &server{
		password:     opts.Password,
		secureCookie: opts.SecureCookie,
		dataDir:      opts.DataDir,
		store:        opts.Store,
		metrics:      newMetrics(registry),
		logger:       logger,
	}

	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			logger.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})
	r.Use(s.requireSession)

	r.Methods(http.MethodPost).Path("/api/auth/login").HandlerFunc(s.login)
	r.Methods(http.MethodGet).Path("/api/auth/check").HandlerFunc(s.check)
	r.Methods(http.MethodGet).Path("/api/data").HandlerFunc(s.getData)
	r.Methods(http.MethodPut).Path("/api/data").HandlerFunc(s.putData)
	r.Methods(http.MethodGet).Path("/data/{name}.json").HandlerFunc(s.getCatalogFile)
	r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return r
}

func (s *server) writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		s.logger.Error("failed to write out", "err", err)
	}
}

func (s *server) writeError(writer http.ResponseWriter, status int, message string) {
	s.writeJSON(writer, status, map[string]any{"statusCode": status, "statusMessage": message})
}
