package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ConnID is an opaque identifier assigned to a WebSocket connection when it
// is accepted. It keys the session map for the connection's lifetime.
type ConnID string

// NewConnID generates a new time-ordered connection ID.
func NewConnID() ConnID {
	return ConnID(uuid.Must(uuid.NewV7()).String())
}

// Validate checks if the ConnID is valid
func (c ConnID) Validate() error {
	if c == "" {
		return goerr.New("connection ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ConnID
func (c ConnID) String() string {
	return string(c)
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}
