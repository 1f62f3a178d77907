package types

// ActionName identifies an operation the chat agent can perform against the
// interview store, or the pseudo-action "respond" for a plain text reply.
type ActionName string

const (
	// ActionRespond is not a registered action: it means "reply with text only".
	ActionRespond ActionName = "respond"

	ActionCreateInterview ActionName = "create_interview"
	ActionReadInterviews  ActionName = "read_interviews"
	ActionReadInterview   ActionName = "read_interview"
	ActionUpdateInterview ActionName = "update_interview"
	ActionDeleteInterview ActionName = "delete_interview"
)

// RegisteredActions returns all action names that have a handler in the
// action registry. ActionRespond is intentionally excluded.
func RegisteredActions() []ActionName {
	return []ActionName{
		ActionCreateInterview,
		ActionReadInterviews,
		ActionReadInterview,
		ActionUpdateInterview,
		ActionDeleteInterview,
	}
}

// IsRegistered reports whether the name belongs to a registered action.
func (a ActionName) IsRegistered() bool {
	for _, name := range RegisteredActions() {
		if a == name {
			return true
		}
	}
	return false
}

// String returns the string representation of ActionName
func (a ActionName) String() string {
	return string(a)
}
