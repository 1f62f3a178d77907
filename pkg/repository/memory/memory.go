package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/interfaces"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
)

// Repository is an in-memory interview store for development and tests.
type Repository struct {
	mu         sync.RWMutex
	interviews map[int64]*model.Interview
	nextID     int64
}

var _ interfaces.InterviewRepository = &Repository{}

func New() *Repository {
	return &Repository{
		interviews: make(map[int64]*model.Interview),
		nextID:     1,
	}
}

func (r *Repository) Create(ctx context.Context, iv *model.Interview) (*model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := &model.Interview{
		ID:            r.nextID,
		Title:         iv.Title,
		Description:   iv.Description,
		ScheduledDate: iv.ScheduledDate,
		CreatedAt:     time.Now().UTC(),
	}
	r.nextID++

	r.interviews[created.ID] = created
	return copyInterview(created), nil
}

func (r *Repository) List(ctx context.Context) ([]*model.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	interviews := make([]*model.Interview, 0, len(r.interviews))
	for _, iv := range r.interviews {
		interviews = append(interviews, copyInterview(iv))
	}

	// Newest-created first; ID breaks ties between same-instant creates.
	sort.Slice(interviews, func(i, j int) bool {
		if !interviews[i].CreatedAt.Equal(interviews[j].CreatedAt) {
			return interviews[i].CreatedAt.After(interviews[j].CreatedAt)
		}
		return interviews[i].ID > interviews[j].ID
	})

	return interviews, nil
}

// Get returns nil, nil when no interview exists with the given ID.
func (r *Repository) Get(ctx context.Context, id int64) (*model.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iv, exists := r.interviews[id]
	if !exists {
		return nil, nil
	}

	return copyInterview(iv), nil
}

func (r *Repository) Update(ctx context.Context, id int64, upd model.InterviewUpdate) (bool, error) {
	if upd.IsEmpty() {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.interviews[id]
	if !exists {
		return false, nil
	}

	if upd.Title != nil {
		existing.Title = *upd.Title
	}
	if upd.Description != nil {
		existing.Description = *upd.Description
	}
	if upd.ScheduledDate != nil {
		existing.ScheduledDate = upd.ScheduledDate
	}

	return true, nil
}

// Delete is idempotent: deleting a missing ID is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.interviews, id)
	return nil
}

func (r *Repository) Close() error {
	return nil
}

// copyInterview prevents external modification of stored records.
func copyInterview(iv *model.Interview) *model.Interview {
	out := &model.Interview{
		ID:          iv.ID,
		Title:       iv.Title,
		Description: iv.Description,
		CreatedAt:   iv.CreatedAt,
	}
	if iv.ScheduledDate != nil {
		date := *iv.ScheduledDate
		out.ScheduledDate = &date
	}
	return out
}
