package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slidererrors "github.com/mkrylov/storefront/internal/slider/errors"
)

func strPtr(s string) *string { return &s }

func newTestStore(t *testing.T) (SliderStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sliders.json")
	return NewFileStore(path), path
}

func Test_FileStore_FindAll_MissingFileIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	sliders, err := s.FindAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sliders)
}

func Test_FileStore_Create_AssignsNextID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, Slider{Title: "Summer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	second, err := s.Create(ctx, Slider{Title: "Winter"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	// the highest surviving ID drives assignment, not the count
	_, err = s.Delete(ctx, 1)
	require.NoError(t, err)
	third, err := s.Create(ctx, Slider{Title: "Spring"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)
}

func Test_FileStore_Create_Persists(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, Slider{Title: "Summer", Image: "summer.jpg"})
	require.NoError(t, err)

	// a fresh store over the same file sees the write
	reopened := NewFileStore(path)
	sliders, err := reopened.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, sliders, 1)
	assert.Equal(t, "Summer", sliders[0].Title)
}

func Test_FileStore_Update(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	created, err := s.Create(ctx, Slider{Title: "Summer", Subtitle: "Sale", Image: "a.jpg"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, Patch{Title: strPtr("Autumn")})

	require.NoError(t, err)
	assert.Equal(t, "Autumn", updated.Title)
	// untouched fields survive the merge
	assert.Equal(t, "Sale", updated.Subtitle)
	assert.Equal(t, "a.jpg", updated.Image)
}

func Test_FileStore_Update_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Update(context.Background(), 42, Patch{Title: strPtr("x")})

	assert.ErrorIs(t, err, slidererrors.ErrSliderNotFound)
}

func Test_FileStore_Delete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	created, err := s.Create(ctx, Slider{Title: "Summer"})
	require.NoError(t, err)

	removed, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	sliders, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sliders)

	_, err = s.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, slidererrors.ErrSliderNotFound)
}

func Test_FileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sliders.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	s := NewFileStore(path)

	_, err := s.FindAll(context.Background())

	assert.ErrorIs(t, err, slidererrors.ErrReadSliders)
}
