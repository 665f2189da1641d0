package sources

import (
	"context"
	"fmt"

	"github.com/itk-os2display/aarhus-data-bundle/internal/cache"
	"github.com/itk-os2display/aarhus-data-bundle/internal/httpclient"
	"github.com/itk-os2display/aarhus-data-bundle/internal/parser"
)

// Pipeline bundles the outbound fetch client with the shared TTL response
// cache. The cache holds parsed bodies keyed by request URL, so every
// handler hitting the same URL within the TTL window shares one fetch.
type Pipeline struct {
	client httpclient.Client
	cache  *cache.TTLCache[any]
}

// NewPipeline creates a pipeline over the given client and response cache.
func NewPipeline(client httpclient.Client, responseCache *cache.TTLCache[any]) *Pipeline {
	return &Pipeline{
		client: client,
		cache:  responseCache,
	}
}

// fetchParsed fetches url through the cache and decodes the body with
// decode. Failed fetches or decodes are not cached; the next call retries.
func fetchParsed[T any](ctx context.Context, p *Pipeline, url string, decode func([]byte) (T, error)) (T, error) {
	v, err := p.cache.GetOrCompute(url, func() (any, error) {
		body, err := p.client.Get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		return decode(body)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	parsed, ok := v.(T)
	if !ok {
		// Two URLs never share a cache key, so this only happens if a key
		// is reused across source families.
		var zero T
		return zero, fmt.Errorf("%w: cached value has unexpected type %T", ErrSchemaMismatch, v)
	}
	return parsed, nil
}

// fetchCKAN returns the parsed CKAN datastore envelope for url.
func (p *Pipeline) fetchCKAN(ctx context.Context, url string) (*ckanEnvelope, error) {
	return fetchParsed(ctx, p, url, func(body []byte) (*ckanEnvelope, error) {
		var env ckanEnvelope
		if err := parser.DecodeJSON(body, &env); err != nil {
			return nil, err
		}
		return &env, nil
	})
}

// fetchTelemetry returns the parsed sensor reading for url.
func (p *Pipeline) fetchTelemetry(ctx context.Context, url string) (*telemetryReading, error) {
	return fetchParsed(ctx, p, url, func(body []byte) (*telemetryReading, error) {
		var reading telemetryReading
		if err := parser.DecodeJSON(body, &reading); err != nil {
			return nil, err
		}
		return &reading, nil
	})
}

// fetchSolar returns the parsed solar plant records for url.
func (p *Pipeline) fetchSolar(ctx context.Context, url string) ([]solarRecord, error) {
	return fetchParsed(ctx, p, url, func(body []byte) ([]solarRecord, error) {
		var records []solarRecord
		if err := parser.DecodeJSON(body, &records); err != nil {
			return nil, err
		}
		return records, nil
	})
}

// fetchCSV returns the parsed CSV rows for url.
func (p *Pipeline) fetchCSV(ctx context.Context, url string) ([][]string, error) {
	return fetchParsed(ctx, p, url, parser.ParseCSV)
}
