package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/itk-os2display/aarhus-data-bundle/internal/cache"
	httpmocks "github.com/itk-os2display/aarhus-data-bundle/internal/httpclient/mocks"
	"github.com/itk-os2display/aarhus-data-bundle/internal/processor"
	"github.com/itk-os2display/aarhus-data-bundle/internal/slides"
	"github.com/itk-os2display/aarhus-data-bundle/internal/sources"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := httpmocks.NewMockClient(ctrl)

	responseCache := cache.New[any](time.Minute)
	t.Cleanup(responseCache.Close)

	pipeline := sources.NewPipeline(client, responseCache)
	tr := translate.Default()
	registry := sources.NewRegistry(pipeline, tr, sources.Endpoints{})
	store := slides.NewMemoryStore()

	promRegistry := prometheus.NewRegistry()

	return NewServer(Deps{
		Registry:       registry,
		Custom:         sources.CustomHandler(pipeline, tr),
		Processor:      processor.NewBatchProcessor(store, registry, slides.SlideType, nil, nil),
		MetricsHandler: promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	}, WithMiddlewares(middleware.RequestID, LoggingMiddleware))
}

func TestServer_MountsAllSurfaces(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	for _, path := range []string{"/health", "/readiness", "/version", "/api/v1/functions", "/metrics"} {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestServer_UnknownRouteIs404(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
