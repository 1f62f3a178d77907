package interfaces

import (
	"context"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
)

// InterviewRepository defines the interface for interview data access. The
// chat core never caches records beyond one response cycle, so every read
// here reflects current truth.
type InterviewRepository interface {
	// Create persists a new interview and returns it with the store-assigned
	// ID and creation timestamp.
	Create(ctx context.Context, iv *model.Interview) (*model.Interview, error)

	// List returns all interviews, newest-created first.
	List(ctx context.Context) ([]*model.Interview, error)

	// Get retrieves an interview by ID.
	// Returns nil, nil if no interview exists with the given ID.
	Get(ctx context.Context, id int64) (*model.Interview, error)

	// Update applies only the non-nil fields of upd. It returns true iff a
	// stored record changed; an unknown ID or an empty update returns false
	// without error.
	Update(ctx context.Context, id int64, upd model.InterviewUpdate) (bool, error)

	// Delete removes an interview by ID. Deleting a missing ID is not an
	// error.
	Delete(ctx context.Context, id int64) error

	// Close releases the underlying store.
	Close() error
}
