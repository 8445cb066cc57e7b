package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/linkboard/pkg/analysis"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/layout"
)

func sampleRecord() *Record {
	rec := NewRecord("amp", time.Hour)
	rec.Thickness = 2
	rec.LayerEdges = []int{9, 1}
	rec.Selected = 0
	rec.Analysis = &analysis.Report{Board: "amp", Footprints: 3, Pads: 6}
	rec.Embedding = layout.Embedding{"R1": {X: 1.5, Y: 2}}
	return rec
}

// exercise runs the behaviour every backend shares.
func exercise(t *testing.T, s Store) {
	ctx := context.Background()
	rec := sampleRecord()

	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Board, got.Board)
	assert.Equal(t, []int{9, 1}, got.LayerEdges)
	assert.Equal(t, 3, got.Analysis.Footprints)
	assert.Equal(t, layout.Point{X: 1.5, Y: 2}, got.Embedding["R1"])

	rec.Thickness = 3
	require.NoError(t, s.Put(ctx, rec))
	got, err = s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Thickness)

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)

	_, err = s.Get(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	expired := NewRecord("old", -time.Minute)
	require.NoError(t, s.Put(ctx, expired))
	_, err = s.Get(ctx, expired.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "expired record: got %v", err)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := sampleRecord()
	require.NoError(t, s.Put(ctx, rec))

	rec.Board = "changed"
	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "amp", got.Board)
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, NewRecord("a", -time.Second)))
	require.NoError(t, s.Put(ctx, NewRecord("b", -time.Second)))
	require.NoError(t, s.Put(ctx, NewRecord("c", time.Hour)))

	assert.Equal(t, 2, s.Cleanup(ctx))
	assert.Equal(t, 0, s.Cleanup(ctx))
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("amp", time.Hour)
	require.NoError(t, ValidateID(rec.ID))
	assert.Equal(t, -1, rec.Selected)
	assert.False(t, rec.IsExpired())
	assert.NotEqual(t, rec.ID, NewRecord("amp", time.Hour).ID)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("LINKBOARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LINKBOARD_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "linkboard_test")
	require.NoError(t, err)
	defer s.Close(ctx)

	exercise(t, s)
}
