package sources

import (
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

// Endpoints holds the upstream URLs behind the built-in data functions.
// Zero-valued fields fall back to the defaults below.
type Endpoints struct {
	Dokk1URL         string   `yaml:"dokk1Url,omitempty"`
	WaterfrontURL    string   `yaml:"waterfrontUrl,omitempty"`
	TelemetryBaseURL string   `yaml:"telemetryBaseUrl,omitempty"`
	TelemetrySensors []string `yaml:"telemetrySensors,omitempty"`
	SolarURL         string   `yaml:"solarUrl,omitempty"`
}

// DefaultEndpoints returns the production endpoints of the Aarhus sources.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Dokk1URL:         "https://portal.opendata.dk/api/3/action/datastore_search?resource_id=e123e70c-9d13-461e-8715-f06ec41dd3cf",
		WaterfrontURL:    "https://portal.opendata.dk/api/3/action/datastore_search?resource_id=e4d52a10-35f4-47be-a09d-8e6ab54d9e7e",
		TelemetryBaseURL: "https://sensors.aarhus.dk/api/latest",
		TelemetrySensors: []string{"0004A30B001E8EA2", "0004A30B001E307C"},
		SolarURL:         "https://energy.aarhus.dk/api/solar/plants",
	}
}

// merged returns e with unset fields filled from the defaults.
func (e Endpoints) merged() Endpoints {
	defaults := DefaultEndpoints()
	if e.Dokk1URL == "" {
		e.Dokk1URL = defaults.Dokk1URL
	}
	if e.WaterfrontURL == "" {
		e.WaterfrontURL = defaults.WaterfrontURL
	}
	if e.TelemetryBaseURL == "" {
		e.TelemetryBaseURL = defaults.TelemetryBaseURL
	}
	if len(e.TelemetrySensors) == 0 {
		e.TelemetrySensors = defaults.TelemetrySensors
	}
	if e.SolarURL == "" {
		e.SolarURL = defaults.SolarURL
	}
	return e
}

// Registry is the enumerable mapping from data-function identifiers to
// handlers. It is built once at startup and read-only thereafter; every
// listed id resolves and nothing else does.
type Registry struct {
	descriptors []Descriptor
	handlers    map[string]Handler
}

// NewRegistry builds the registry of built-in data functions. Labels and
// group names are resolved through the translator at build time.
func NewRegistry(pipeline *Pipeline, tr translate.Translator, endpoints Endpoints) *Registry {
	endpoints = endpoints.merged()

	r := &Registry{
		handlers: make(map[string]Handler),
	}

	// Declaration order is listing order: grouped, then by id.
	r.add("odaa-dokk1", "odaa", tr, &ckanHandler{
		pipeline:   pipeline,
		translator: tr,
		url:        endpoints.Dokk1URL,
	})
	r.add("odaa-dokk1-temperature", "odaa", tr, &ckanHandler{
		pipeline:   pipeline,
		translator: tr,
		url:        endpoints.Dokk1URL,
		selector:   "temperature",
	})
	r.add("odaa-dokk1-humidity", "odaa", tr, &ckanHandler{
		pipeline:   pipeline,
		translator: tr,
		url:        endpoints.Dokk1URL,
		selector:   "humidity",
	})
	r.add("odaa-waterfront", "odaa", tr, &genericHandler{
		pipeline:    pipeline,
		translator:  tr,
		url:         endpoints.WaterfrontURL,
		locationKey: "location.waterfront",
	})
	r.add("harbor-weather", "harbor", tr, &telemetryHandler{
		pipeline:    pipeline,
		translator:  tr,
		baseURL:     endpoints.TelemetryBaseURL,
		sensorIDs:   endpoints.TelemetrySensors,
		fields:      []string{"water_temperature", "wind_speed", "rain", "pressure"},
		locationKey: "location.harbor",
	})
	r.add("solar-production", "energy", tr, &solarHandler{
		pipeline:   pipeline,
		translator: tr,
		url:        endpoints.SolarURL,
	})
	r.add("custom", "custom", tr, &genericHandler{
		pipeline:   pipeline,
		translator: tr,
	})

	return r
}

func (r *Registry) add(id, group string, tr translate.Translator, handler Handler) {
	r.descriptors = append(r.descriptors, Descriptor{
		ID:    id,
		Label: tr.Translate("data_function." + id),
		Group: tr.Translate("data_function_group." + group),
	})
	r.handlers[id] = handler
}

// List returns all descriptors in declaration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Resolve returns the handler for id, or false for an unknown id.
func (r *Registry) Resolve(id string) (Handler, bool) {
	handler, ok := r.handlers[id]
	return handler, ok
}

// CustomHandler returns a handler that consumes a caller-supplied URL and
// type through the generic pipeline. The test endpoint uses it directly.
func CustomHandler(pipeline *Pipeline, tr translate.Translator) Handler {
	return &genericHandler{pipeline: pipeline, translator: tr}
}
