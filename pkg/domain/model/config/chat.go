package config

import (
	"strings"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
)

// KeywordRule maps a keyword set to a proposed decision. Rules are tested in
// order against the lower-cased user text; the first rule with any matching
// keyword wins.
type KeywordRule struct {
	Keywords []string
	Action   types.ActionName
	Params   map[string]any
	Reply    string
}

// Matches reports whether any of the rule's keywords occurs in the
// lower-cased user text.
func (r KeywordRule) Matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// ChatConfig holds the behavioral knobs of the chat agent: the deterministic
// fallback rule table, the conversation history window, and the title used
// when a create request carries none.
type ChatConfig struct {
	HistoryWindow    int
	PlaceholderTitle string
	Rules            []KeywordRule
	DefaultReply     string
}

// DefaultPlaceholderTitle is used for create requests without a title.
const DefaultPlaceholderTitle = "New Interview"

// DefaultChatConfig returns the built-in agent behavior: the stock keyword
// rules, a 5-turn history window and the stock placeholder title.
func DefaultChatConfig() *ChatConfig {
	return &ChatConfig{
		HistoryWindow:    5,
		PlaceholderTitle: DefaultPlaceholderTitle,
		Rules: []KeywordRule{
			{
				Keywords: []string{"create", "schedule", "add", "book"},
				Action:   types.ActionCreateInterview,
				Params:   map[string]any{"title": DefaultPlaceholderTitle, "description": ""},
				Reply:    "Scheduled.",
			},
			{
				Keywords: []string{"view", "list", "show", "check"},
				Action:   types.ActionReadInterviews,
				Reply:    "Here are all the interviews.",
			},
			{
				Keywords: []string{"delete", "cancel", "remove"},
				Action:   types.ActionRespond,
				Reply:    "Which interview ID should I delete?",
			},
		},
		DefaultReply: "How can I help with your interviews?",
	}
}
