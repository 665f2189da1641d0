// Package v1 provides the REST API handlers for the data service.
package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
	"github.com/itk-os2display/aarhus-data-bundle/internal/parser"
	"github.com/itk-os2display/aarhus-data-bundle/internal/processor"
	"github.com/itk-os2display/aarhus-data-bundle/internal/sources"
	"github.com/itk-os2display/aarhus-data-bundle/internal/versions"
)

// Response models for API consistency

// ListFunctionsResponse represents the data function listing response
type ListFunctionsResponse struct {
	Functions []sources.Descriptor `json:"functions"`
	Types     []string             `json:"types"`
	Total     int                  `json:"total"`
}

// TestFunctionResponse represents the outcome of probing a custom source
type TestFunctionResponse struct {
	Records []measurement.Record `json:"records"`
	Total   int                  `json:"total"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes defines the routes for the data API with dependency injection
type Routes struct {
	registry  *sources.Registry
	custom    sources.Handler
	processor *processor.BatchProcessor
}

// NewRoutes creates a new Routes instance with the provided collaborators
func NewRoutes(registry *sources.Registry, custom sources.Handler, proc *processor.BatchProcessor) *Routes {
	return &Routes{
		registry:  registry,
		custom:    custom,
		processor: proc,
	}
}

// Router creates a new router for the data API
func Router(registry *sources.Registry, custom sources.Handler, proc *processor.BatchProcessor) http.Handler {
	routes := NewRoutes(registry, custom, proc)

	r := chi.NewRouter()

	r.Route("/functions", func(r chi.Router) {
		r.Get("/", routes.listFunctions)
		r.Get("/test", routes.testFunction)
	})

	r.Post("/cron", routes.runBatch)

	return r
}

// listFunctions handles GET /api/v1/functions
func (rr *Routes) listFunctions(w http.ResponseWriter, _ *http.Request) {
	descriptors := rr.registry.List()

	rr.writeJSONResponse(w, ListFunctionsResponse{
		Functions: descriptors,
		Types:     parser.SupportedTypes(),
		Total:     len(descriptors),
	})
}

// testFunction handles GET /api/v1/functions/test. It fetches the given URL
// through the custom handler so editors can preview a source before
// attaching it to a slide.
func (rr *Routes) testFunction(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		rr.writeErrorResponse(w, "Query parameter 'url' is required", http.StatusBadRequest)
		return
	}

	dataType := r.URL.Query().Get("type")
	if dataType == "" {
		dataType = parser.TypeJSON
	} else if !parser.IsSupportedType(dataType) {
		rr.writeErrorResponse(w, "Unsupported type. Supported types: 'json', 'csv'", http.StatusBadRequest)
		return
	}

	records, err := rr.custom.Records(r.Context(), sources.Params{URL: url, Type: dataType})
	if err != nil {
		slog.Warn("source test failed", "url", url, "error", err)
		rr.writeErrorResponse(w, "Failed to fetch source: "+err.Error(), http.StatusBadGateway)
		return
	}

	if records == nil {
		records = []measurement.Record{}
	}
	rr.writeJSONResponse(w, TestFunctionResponse{
		Records: records,
		Total:   len(records),
	})
}

// runBatch handles POST /api/v1/cron. The run is detached from the request
// deadline: a batch over many slow upstreams can outlive the HTTP timeout,
// and a half-finished run must still reach its commit.
func (rr *Routes) runBatch(w http.ResponseWriter, r *http.Request) {
	summary, err := rr.processor.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		slog.Error("batch run failed", "error", err)
		rr.writeErrorResponse(w, "Batch run failed", http.StatusInternalServerError)
		return
	}

	rr.writeJSONResponse(w, summary)
}

// HealthRouter creates a router for health check endpoints. A nil readiness
// checker means the service is always ready.
func HealthRouter(readiness func(ctx context.Context) error) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(readiness))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler handles readiness check requests
func readinessHandler(readiness func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readiness != nil {
			if err := readiness(r.Context()); err != nil {
				errorResp := ErrorResponse{
					Error: "Service not ready: " + err.Error(),
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				if encodeErr := json.NewEncoder(w).Encode(errorResp); encodeErr != nil {
					slog.Error("failed to encode readiness error response", "error", encodeErr)
				}
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		slog.Error("failed to encode version info", "error", err)
	}
}

// writeJSONResponse writes a JSON response with the given data
func (*Routes) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeErrorResponse writes a standardized error response
func (*Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
