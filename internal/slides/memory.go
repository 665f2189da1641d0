package slides

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
)

// memoryStore is an in-memory Store used when no database is configured.
// Slides are copied on the way in and out so callers cannot mutate shared
// state behind the lock.
type memoryStore struct {
	mu     sync.RWMutex
	slides map[string]*Slide
}

// NewMemoryStore creates an in-memory Store seeded with the given slides.
func NewMemoryStore(seed ...*Slide) Store {
	store := &memoryStore{slides: make(map[string]*Slide, len(seed))}
	for _, slide := range seed {
		store.slides[slide.ID] = copySlide(slide)
	}
	return store
}

func (m *memoryStore) FindBySlideType(_ context.Context, slideType string) ([]*Slide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Slide
	for _, slide := range m.slides {
		if slide.SlideType == slideType {
			result = append(result, copySlide(slide))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memoryStore) SetExternalData(_ context.Context, updated []*Slide) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate all ids before touching anything so the write stays atomic.
	for _, slide := range updated {
		if _, ok := m.slides[slide.ID]; !ok {
			return fmt.Errorf("unknown slide: %s", slide.ID)
		}
	}
	for _, slide := range updated {
		m.slides[slide.ID].ExternalData = copyRecords(slide.ExternalData)
	}
	return nil
}

func copySlide(slide *Slide) *Slide {
	clone := *slide
	clone.ExternalData = copyRecords(slide.ExternalData)
	return &clone
}

func copyRecords(records []measurement.Record) []measurement.Record {
	if records == nil {
		return nil
	}
	out := make([]measurement.Record, len(records))
	copy(out, records)
	return out
}
