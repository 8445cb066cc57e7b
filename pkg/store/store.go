// Package store keeps analysis records produced by the HTTP API.
//
// Records are addressed by a random UUID and expire after a time-to-live.
// Two backends implement [Store]:
//   - [MemoryStore]: in-process map for development and tests
//   - [MongoStore]: MongoDB collection with a TTL index for production
//
// # Usage
//
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "linkboard")
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	rec := store.NewRecord("amp", store.DefaultTTL)
//	rec.Analysis = &report
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/linkboard/pkg/analysis"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/layout"
)

// DefaultTTL is the default record lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// Record is a stored analysis of a board or graph.
type Record struct {
	ID    string `json:"id" bson:"_id"`
	Board string `json:"board,omitempty" bson:"board,omitempty"`

	// Thickness is the number of planar layers, LayerEdges their edge
	// counts in decomposition order.
	Thickness  int   `json:"thickness" bson:"thickness"`
	LayerEdges []int `json:"layer_edges" bson:"layer_edges"`
	Selected   int   `json:"selected" bson:"selected"`

	Analysis  *analysis.Report `json:"analysis,omitempty" bson:"analysis,omitempty"`
	Embedding layout.Embedding `json:"embedding,omitempty" bson:"embedding,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the record has expired.
func (r *Record) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// NewRecord creates an empty record with a fresh id.
func NewRecord(board string, ttl time.Duration) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		Board:     board,
		Selected:  -1,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store is the interface for record storage backends.
type Store interface {
	// Get retrieves a record by id. A malformed id is an INVALID_INPUT
	// error; a missing or expired record is a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, replacing any record with the same id.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases the backend.
	Close(ctx context.Context) error
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid record id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "record %s not found", id)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)
