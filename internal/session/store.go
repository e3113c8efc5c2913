package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no live session exists for an id.
var ErrNotFound = errors.New("session not found")

// Record is the stored form of one session: an opaque id, a key/value bag
// and an absolute expiry refreshed on each access.
type Record struct {
	ID        string
	Data      map[string]interface{}
	ExpiresAt time.Time
}

// Store persists session records. Implementations must be safe for
// concurrent use; they provide the only cross-request session state.
type Store interface {
	// Load returns the record for id, or ErrNotFound if absent or expired.
	Load(ctx context.Context, id string) (*Record, error)
	// Save writes the record, creating or replacing it.
	Save(ctx context.Context, rec *Record) error
	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes all expired records and reports how many.
	DeleteExpired(ctx context.Context) (int64, error)
}
