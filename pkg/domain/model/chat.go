package model

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
)

// Inbound is a decoded client message. A frame that is not a JSON object is
// treated as free text in its entirety.
type Inbound struct {
	Text   string         `json:"text"`
	Action string         `json:"action,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// ParseInbound decodes a raw WebSocket text frame. Malformed input is never
// an error: anything that does not parse as a JSON object becomes free text.
func ParseInbound(raw []byte) *Inbound {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return &Inbound{Text: string(raw)}
	}
	if in.Params == nil {
		in.Params = map[string]any{}
	}
	return &in
}

// ConversationTurn is one exchange in a session's conversation history.
type ConversationTurn struct {
	Role    types.Role
	Content string
}

// Session holds the per-connection conversation memory: a bounded window of
// recent turns plus the last reply sent to the connection. It lives from
// connection accept to disconnect and is never persisted.
//
// A session is mutated only by the goroutine that owns its connection; the
// mutex guards against the window being read while appended during tests.
type Session struct {
	mu            sync.Mutex
	window        int
	turns         []ConversationTurn
	lastAgentText string
}

// DefaultHistoryWindow is the number of recent turns kept for prompt
// construction.
const DefaultHistoryWindow = 5

// NewSession creates a session keeping at most window recent turns. A zero or
// negative window falls back to DefaultHistoryWindow.
func NewSession(window int) *Session {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Session{window: window}
}

// Append records a conversation turn, dropping the oldest turn once the
// window is full.
func (s *Session) Append(role types.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, ConversationTurn{Role: role, Content: content})
	if len(s.turns) > s.window {
		s.turns = s.turns[len(s.turns)-s.window:]
	}
}

// Recent returns a copy of the retained turns, oldest first.
func (s *Session) Recent() []ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]ConversationTurn, len(s.turns))
	copy(turns, s.turns)
	return turns
}

// SetLastAgentText records the reply text most recently sent on this
// connection.
func (s *Session) SetLastAgentText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAgentText = text
}

// LastAgentText returns the reply text most recently sent on this connection.
func (s *Session) LastAgentText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAgentText
}

// AwaitingDeleteID reports whether the last reply asked the user for an
// interview ID to delete. Used by the dispatcher's one-shot disambiguation of
// a bare numeric message.
func (s *Session) AwaitingDeleteID() bool {
	return strings.Contains(strings.ToLower(s.LastAgentText()), "delete")
}

// Decision is the structured outcome of interpreting one inbound message. It
// is produced once per message and never stored.
type Decision struct {
	Action types.ActionName
	Params map[string]any
	Reply  string
}

// Response is the payload sent back over a connection. Broadcast marks
// whether the dispatch mutated the record set and the current state must be
// fanned out to all connections; it is never serialized.
type Response struct {
	Text       string           `json:"text"`
	Sender     string           `json:"sender"`
	Action     types.ActionName `json:"action,omitempty"`
	Interviews []*Interview     `json:"interviews"`
	Broadcast  bool             `json:"-"`
}

// Senders for outbound payloads.
const (
	SenderServer = "server"
	SenderAgent  = "agent"
)
