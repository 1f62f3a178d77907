package model

import "time"

// Interview represents a single interview record. The ID is assigned by the
// repository on create and immutable afterwards.
type Interview struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ScheduledDate *string   `json:"scheduled_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// InterviewUpdate carries a partial update: nil fields are left untouched in
// storage.
type InterviewUpdate struct {
	Title         *string
	Description   *string
	ScheduledDate *string
}

// IsEmpty reports whether the update would change no fields.
func (u InterviewUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.ScheduledDate == nil
}
