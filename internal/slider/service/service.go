// Package service provides the implementation of slider-related business logic.
package service

import (
	"context"

	"github.com/mkrylov/storefront/internal/slider/store"
)

// SliderService defines the methods for managing homepage sliders.
// It abstracts the underlying business logic and data access.
type SliderService interface {
	// FindAll returns all available sliders.
	// Returns an empty slice if none exist.
	FindAll(ctx context.Context) ([]SliderDto, error)

	// Create adds a new slider to the system.
	// Returns error if the slider cannot be created.
	Create(ctx context.Context, slider SliderCreateDto) (*SliderDto, error)

	// Update merge-patches an existing slider's details.
	// Returns ErrSliderNotFound if no slider exists with the given ID.
	Update(ctx context.Context, id int64, update SliderUpdateDto) (*SliderDto, error)

	// Delete removes a slider.
	// Returns ErrSliderNotFound if no slider exists with the given ID.
	Delete(ctx context.Context, id int64) (*SliderDto, error)
}

// Service implements SliderService and provides methods to manage sliders.
type Service struct {
	sliderStore store.SliderStore
}

// NewService creates a new instance of SliderService with the provided sliderStore.
func NewService(sliderStore store.SliderStore) *Service {
	return &Service{sliderStore: sliderStore}
}

// SliderDto represents the data transfer object for a slider.
type SliderDto struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	URL      string `json:"url,omitempty"`
}

// SliderCreateDto represents the data transfer object for creating a new slider.
type SliderCreateDto struct {
	Title    string `json:"title" validate:"required"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image" validate:"required"`
	URL      string `json:"url"`
}

// SliderUpdateDto represents the data transfer object for updating an existing slider.
// Absent fields keep their current values.
type SliderUpdateDto struct {
	Title    *string `json:"title" validate:"omitempty,min=1"`
	Subtitle *string `json:"subtitle"`
	Image    *string `json:"image" validate:"omitempty,min=1"`
	URL      *string `json:"url"`
}

// FindAll returns all sliders as SliderDtos.
func (s *Service) FindAll(ctx context.Context) ([]SliderDto, error) {
	sliders, err := s.sliderStore.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]SliderDto, len(sliders))
	for i, slider := range sliders {
		dtos[i] = toDto(slider)
	}
	return dtos, nil
}

// Create adds a new slider and returns it as a SliderDto.
func (s *Service) Create(ctx context.Context, slider SliderCreateDto) (*SliderDto, error) {
	created, err := s.sliderStore.Create(ctx, store.Slider{
		Title:    slider.Title,
		Subtitle: slider.Subtitle,
		Image:    slider.Image,
		URL:      slider.URL,
	})
	if err != nil {
		return nil, err
	}
	dto := toDto(*created)
	return &dto, nil
}

// Update merge-patches an existing slider and returns the updated SliderDto.
func (s *Service) Update(ctx context.Context, id int64, update SliderUpdateDto) (*SliderDto, error) {
	updated, err := s.sliderStore.Update(ctx, id, store.Patch{
		Title:    update.Title,
		Subtitle: update.Subtitle,
		Image:    update.Image,
		URL:      update.URL,
	})
	if err != nil {
		return nil, err
	}
	dto := toDto(*updated)
	return &dto, nil
}

// Delete removes a slider and returns the removed SliderDto.
func (s *Service) Delete(ctx context.Context, id int64) (*SliderDto, error) {
	deleted, err := s.sliderStore.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDto(*deleted)
	return &dto, nil
}

// toDto converts a store.Slider to a SliderDto.
func toDto(s store.Slider) SliderDto {
	return SliderDto{
		ID:       s.ID,
		Title:    s.Title,
		Subtitle: s.Subtitle,
		Image:    s.Image,
		URL:      s.URL,
	}
}
