package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	slidererrors "github.com/mkrylov/storefront/internal/slider/errors"
)

// fileStore implements SliderStore over a JSON file. Every mutation is a
// read-modify-write of the whole file under a single-process lock.
type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a SliderStore backed by the JSON file at path.
func NewFileStore(path string) SliderStore {
	return &fileStore{path: path}
}

// FindAll retrieves all sliders.
func (s *fileStore) FindAll(_ context.Context) ([]Slider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Create adds a new slider with ID max(existing)+1.
func (s *fileStore) Create(_ context.Context, slider Slider) (*Slider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sliders, err := s.read()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, existing := range sliders {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	slider.ID = maxID + 1
	sliders = append(sliders, slider)

	if err := s.write(sliders); err != nil {
		return nil, err
	}
	return &slider, nil
}

// Update merge-patches an existing slider.
func (s *fileStore) Update(_ context.Context, id int64, patch Patch) (*Slider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sliders, err := s.read()
	if err != nil {
		return nil, err
	}

	for i, existing := range sliders {
		if existing.ID == id {
			sliders[i] = patch.Apply(existing)
			if err := s.write(sliders); err != nil {
				return nil, err
			}
			return &sliders[i], nil
		}
	}
	return nil, slidererrors.ErrSliderNotFound
}

// Delete removes a slider and returns the removed entry.
func (s *fileStore) Delete(_ context.Context, id int64) (*Slider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sliders, err := s.read()
	if err != nil {
		return nil, err
	}

	for i, existing := range sliders {
		if existing.ID == id {
			removed := existing
			sliders = append(sliders[:i], sliders[i+1:]...)
			if err := s.write(sliders); err != nil {
				return nil, err
			}
			return &removed, nil
		}
	}
	return nil, slidererrors.ErrSliderNotFound
}

func (s *fileStore) read() ([]Slider, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Slider{}, nil
		}
		return nil, fmt.Errorf("%w: %v", slidererrors.ErrReadSliders, err)
	}

	var sliders []Slider
	if err := json.Unmarshal(data, &sliders); err != nil {
		return nil, fmt.Errorf("%w: %v", slidererrors.ErrReadSliders, err)
	}
	return sliders, nil
}

func (s *fileStore) write(sliders []Slider) error {
	data, err := json.MarshalIndent(sliders, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", slidererrors.ErrWriteSliders, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", slidererrors.ErrWriteSliders, err)
	}
	return nil
}
