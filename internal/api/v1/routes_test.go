package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func newTestRouter(t *testing.T, client *httpmocks.MockClient, store slides.Store) http.Handler {
	t.Helper()

	responseCache := cache.New[any](time.Minute)
	t.Cleanup(responseCache.Close)

	pipeline := sources.NewPipeline(client, responseCache)
	tr := translate.Default()
	registry := sources.NewRegistry(pipeline, tr, sources.Endpoints{
		Dokk1URL: "https://example.test/dokk1",
	})
	proc := processor.NewBatchProcessor(store, registry, slides.SlideType, nil, nil)

	return Router(registry, sources.CustomHandler(pipeline, tr), proc)
}

func TestListFunctions(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	router := newTestRouter(t, httpmocks.NewMockClient(ctrl), slides.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/functions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response ListFunctionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, 7, response.Total)
	assert.Equal(t, []string{"json", "csv"}, response.Types)
	assert.Equal(t, "odaa-dokk1", response.Functions[0].ID)
	assert.Equal(t, "Dokk1 - målinger", response.Functions[0].Label)
}

func TestTestFunction_RequiresURL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	router := newTestRouter(t, httpmocks.NewMockClient(ctrl), slides.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/functions/test", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTestFunction_FetchesCSV(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := httpmocks.NewMockClient(ctrl)
	client.EXPECT().
		Get(gomock.Any(), "https://example.test/readings.csv").
		Return([]byte("Temperatur,°C,21.5\n"), nil)

	router := newTestRouter(t, client, slides.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/functions/test?url=https%3A%2F%2Fexample.test%2Freadings.csv&type=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var response TestFunctionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "Temperatur", response.Records[0].Name)
	assert.Equal(t, 21.5, response.Records[0].Value)
}

func TestTestFunction_UnsupportedType(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	router := newTestRouter(t, httpmocks.NewMockClient(ctrl), slides.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/functions/test?url=https%3A%2F%2Fexample.test%2Fdata.xml&type=xml", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTestFunction_UpstreamFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := httpmocks.NewMockClient(ctrl)
	client.EXPECT().
		Get(gomock.Any(), "https://example.test/data.json").
		Return(nil, errors.New("connection refused"))

	router := newTestRouter(t, client, slides.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/functions/test?url=https%3A%2F%2Fexample.test%2Fdata.json", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := httpmocks.NewMockClient(ctrl)
	client.EXPECT().
		Get(gomock.Any(), "https://example.test/dokk1").
		Return([]byte(`{"success": true, "result": {"records": [{"sensor": "TCA", "val": 20.6}]}}`), nil)

	store := slides.NewMemoryStore(&slides.Slide{
		ID:        "a",
		SlideType: slides.SlideType,
		Options:   slides.Options{DataFunction: "odaa-dokk1"},
	})

	router := newTestRouter(t, client, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cron", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary processor.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Slides)
	assert.Equal(t, 1, summary.Updated)
	assert.NotEmpty(t, summary.RunID)

	found, err := store.FindBySlideType(context.Background(), slides.SlideType)
	require.NoError(t, err)
	assert.NotEmpty(t, found[0].ExternalData)
}

func TestRunBatch_OutlivesRequestDeadline(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := httpmocks.NewMockClient(ctrl)
	client.EXPECT().
		Get(gomock.Any(), "https://example.test/dokk1").
		DoAndReturn(func(ctx context.Context, _ string) ([]byte, error) {
			// The fetch must not inherit the request deadline.
			require.NoError(t, ctx.Err())
			return []byte(`{"success": true, "result": {"records": [{"sensor": "TCA", "val": 20.6}]}}`), nil
		})

	store := slides.NewMemoryStore(&slides.Slide{
		ID:        "a",
		SlideType: slides.SlideType,
		Options:   slides.Options{DataFunction: "odaa-dokk1"},
	})

	router := newTestRouter(t, client, store)

	// A batch over many slow upstreams can outlive the HTTP request timeout.
	// Simulate the worst case: the request deadline has already passed.
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cron", nil).WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary processor.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Updated)
	assert.Zero(t, summary.Failures)

	found, err := store.FindBySlideType(context.Background(), slides.SlideType)
	require.NoError(t, err)
	assert.NotEmpty(t, found[0].ExternalData)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := HealthRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readiness", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestReadiness_NotReady(t *testing.T) {
	t.Parallel()

	router := HealthRouter(func(context.Context) error {
		return errors.New("database unreachable")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readiness", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unreachable")
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()

	router := HealthRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])
}
