// Package slides provides access to the presentation system's slides: the
// external entities the batch processor reads configuration from and writes
// normalized measurement data back onto.
package slides

import (
	"context"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
)

// SlideType is the slide type the batch processor monitors.
const SlideType = "itk-aarhus-data"

// Options is the slide-owned configuration block naming which data function
// feeds the slide. An empty DataFunction means no data is attached.
type Options struct {
	DataFunction string `json:"data_function,omitempty"`
	DataURL      string `json:"data_url,omitempty"`
	DataType     string `json:"data_type,omitempty"`
}

// Slide is one presentation unit. ExternalData is the last non-empty record
// list a batch run produced for it.
type Slide struct {
	ID           string
	SlideType    string
	Options      Options
	ExternalData []measurement.Record
}

// Store is the slide persistence collaborator.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/itk-os2display/aarhus-data-bundle/internal/slides Store
type Store interface {
	// FindBySlideType returns all slides of the given type.
	FindBySlideType(ctx context.Context, slideType string) ([]*Slide, error)

	// SetExternalData overwrites the external data of the given slides in
	// one bulk commit. Slides not in the list are left untouched.
	SetExternalData(ctx context.Context, updated []*Slide) error
}
