package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrMissingInterviewID = errors.New("interview_id parameter is required")
	ErrInterviewNotFound  = errors.New("interview not found")
)

// Context keys for error values
const (
	InterviewIDKey = "interview_id"
	ActionKey      = "action"
)
