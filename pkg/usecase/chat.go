package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/interfaces"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/errutil"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
)

// ChatUseCase is the dispatcher: it turns one decoded inbound message into a
// decided action, a side effect against the interview store, and a response
// payload for the originating connection.
type ChatUseCase struct {
	repo     interfaces.InterviewRepository
	registry *ActionRegistry
	interp   Interpreter
}

// NewChatUseCase wires the dispatcher to its registry and interpreter.
func NewChatUseCase(repo interfaces.InterviewRepository, registry *ActionRegistry, interp Interpreter) *ChatUseCase {
	return &ChatUseCase{
		repo:     repo,
		registry: registry,
		interp:   interp,
	}
}

// HandleMessage processes one inbound message for the given session. It
// never returns an error: every failure, including a panicking handler,
// becomes a reply to the originating connection. The returned response's
// Broadcast flag tells the transport to fan out current state afterwards.
func (uc *ChatUseCase) HandleMessage(ctx context.Context, sess *model.Session, in *model.Inbound) (resp *model.Response) {
	defer func() {
		if r := recover(); r != nil {
			_ = errutil.Handle(ctx, goerr.New("panic while processing message", goerr.V("panic", r)),
				"message dispatch recovered")
			resp = &model.Response{
				Text:       fmt.Sprintf("Error processing your request: %v", r),
				Sender:     model.SenderAgent,
				Interviews: uc.currentInterviews(ctx),
			}
		}
	}()

	text := strings.TrimSpace(in.Text)
	action := types.ActionName(in.Action)
	params := in.Params
	if params == nil {
		params = map[string]any{}
	}

	// A bare number while the last reply asked which interview to delete
	// resolves the pending prompt without invoking interpretation. Digit
	// strings beyond int64 range are not treated as IDs.
	if action == "" && isDigits(text) && sess.AwaitingDeleteID() {
		if id, err := strconv.ParseInt(text, 10, 64); err == nil {
			action = types.ActionDeleteInterview
			params = map[string]any{"interview_id": id}
			text = ""
		}
	}

	switch {
	case action != "":
		return uc.handleExplicit(ctx, sess, action, params)
	case text != "":
		return uc.handleInterpreted(ctx, sess, text)
	default:
		return &model.Response{
			Text:       "Please send a message.",
			Sender:     model.SenderAgent,
			Interviews: uc.currentInterviews(ctx),
		}
	}
}

// handleExplicit runs a client-named action directly, bypassing the
// interpretation engine. Unknown names yield a reply with no store mutation.
func (uc *ChatUseCase) handleExplicit(ctx context.Context, sess *model.Session, action types.ActionName, params map[string]any) *model.Response {
	handler, ok := uc.registry.Lookup(action)
	if !ok {
		return &model.Response{
			Text:       fmt.Sprintf("Unrecognized or missing tool for action '%s'", action),
			Sender:     model.SenderServer,
			Interviews: uc.currentInterviews(ctx),
		}
	}

	result := handler(ctx, params)
	reply := result.String()
	sess.SetLastAgentText(reply)

	return &model.Response{
		Text:       reply,
		Sender:     model.SenderServer,
		Action:     action,
		Interviews: uc.currentInterviews(ctx),
		Broadcast:  true,
	}
}

// handleInterpreted delegates free text to the interpretation engine and
// executes the resulting decision like an explicit action.
func (uc *ChatUseCase) handleInterpreted(ctx context.Context, sess *model.Session, text string) *model.Response {
	history := sess.Recent()
	decision := uc.interp.Interpret(ctx, text, history)
	sess.Append(types.RoleUser, text)

	// Unknown actions are downgraded before any handler is reachable.
	var handler ActionHandler
	if decision.Action != types.ActionRespond {
		h, ok := uc.registry.Lookup(decision.Action)
		if !ok {
			logging.From(ctx).Warn("interpreted action is not registered, downgrading",
				ActionKey, decision.Action.String(),
			)
			decision = &model.Decision{
				Action: types.ActionRespond,
				Params: map[string]any{},
				Reply:  fmt.Sprintf("Unrecognized action '%s'. No tool called.", decision.Action),
			}
		} else {
			handler = h
		}
	}

	reply := decision.Reply
	executed := false
	if handler != nil {
		result := handler(ctx, decision.Params)
		executed = true
		if result.IsError() {
			reply = result.Message
		}
	}

	sess.Append(types.RoleAgent, reply)
	sess.SetLastAgentText(reply)

	return &model.Response{
		Text:       reply,
		Sender:     model.SenderAgent,
		Action:     decision.Action,
		Interviews: uc.currentInterviews(ctx),
		Broadcast:  executed,
	}
}

// currentInterviews fetches the record set fresh for a response. A read
// failure degrades to an empty set so the request is still answered.
func (uc *ChatUseCase) currentInterviews(ctx context.Context) []*model.Interview {
	interviews, err := uc.repo.List(ctx)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to fetch interviews for response")
		return []*model.Interview{}
	}
	return interviews
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
