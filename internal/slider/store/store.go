// Package store provides an interface for slider storage operations.
package store

import "context"

// Slider represents a single homepage hero slide.
type Slider struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	URL      string `json:"url"`
}

// Patch carries partial slider fields for merge-updates. Nil fields are
// left untouched.
type Patch struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	Image    *string `json:"image"`
	URL      *string `json:"url"`
}

// Apply merges the patch into s.
func (p Patch) Apply(s Slider) Slider {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Subtitle != nil {
		s.Subtitle = *p.Subtitle
	}
	if p.Image != nil {
		s.Image = *p.Image
	}
	if p.URL != nil {
		s.URL = *p.URL
	}
	return s
}

// SliderStore is an interface for slider storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., file-backed, in-memory).
type SliderStore interface {
	// FindAll retrieves all sliders.
	// Returns an empty slice if none exist.
	FindAll(ctx context.Context) ([]Slider, error)

	// Create adds a new slider, assigning it the next free ID.
	Create(ctx context.Context, slider Slider) (*Slider, error)

	// Update merge-patches an existing slider.
	// Returns ErrSliderNotFound if no slider exists with the given ID.
	Update(ctx context.Context, id int64, patch Patch) (*Slider, error)

	// Delete removes a slider and returns the removed entry.
	// Returns ErrSliderNotFound if no slider exists with the given ID.
	Delete(ctx context.Context, id int64) (*Slider, error)
}
