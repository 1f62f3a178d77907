package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/interfaces"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/errutil"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
)

// ActionResult is the structured outcome of one action handler. Handlers
// convert every repository failure into an error-status result instead of
// propagating, so the dispatcher can always answer with something.
type ActionResult struct {
	Status     string             `json:"status"`
	Message    string             `json:"message,omitempty"`
	Interview  *model.Interview   `json:"interview,omitempty"`
	Interviews []*model.Interview `json:"interviews,omitempty"`
	Count      *int               `json:"count,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// IsError reports whether the handler failed.
func (r *ActionResult) IsError() bool {
	return r.Status == statusError
}

// String renders the result as the JSON text embedded in chat replies.
func (r *ActionResult) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","message":%q}`, err.Error())
	}
	return string(data)
}

func errorResult(format string, args ...any) *ActionResult {
	return &ActionResult{Status: statusError, Message: fmt.Sprintf(format, args...)}
}

// ActionHandler executes one registered action. Handlers validate their own
// parameter shape and never return an error; all effects go through the
// interview repository.
type ActionHandler func(ctx context.Context, params map[string]any) *ActionResult

// ActionRegistry is the fixed mapping from action names to handlers.
type ActionRegistry struct {
	repo             interfaces.InterviewRepository
	placeholderTitle string
	handlers         map[types.ActionName]ActionHandler
}

// NewActionRegistry builds the registry over the given repository.
// placeholderTitle is used for create requests without a title.
func NewActionRegistry(repo interfaces.InterviewRepository, placeholderTitle string) *ActionRegistry {
	r := &ActionRegistry{
		repo:             repo,
		placeholderTitle: placeholderTitle,
	}
	r.handlers = map[types.ActionName]ActionHandler{
		types.ActionCreateInterview: r.createInterview,
		types.ActionReadInterviews:  r.readInterviews,
		types.ActionReadInterview:   r.readInterview,
		types.ActionUpdateInterview: r.updateInterview,
		types.ActionDeleteInterview: r.deleteInterview,
	}
	return r
}

// Lookup returns the handler registered under name.
func (r *ActionRegistry) Lookup(name types.ActionName) (ActionHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

func (r *ActionRegistry) createInterview(ctx context.Context, params map[string]any) *ActionResult {
	title := stringParam(params, "title")
	if title == "" {
		title = r.placeholderTitle
	}

	iv := &model.Interview{
		Title:         title,
		Description:   stringParam(params, "description"),
		ScheduledDate: optionalStringParam(params, "scheduled_date"),
	}

	created, err := r.repo.Create(ctx, iv)
	if err != nil {
		_ = errutil.Handle(ctx, err, "create_interview failed")
		return errorResult("Error creating interview: %v", err)
	}

	return &ActionResult{
		Status:    statusSuccess,
		Message:   fmt.Sprintf("Interview created: %s", created.Title),
		Interview: created,
	}
}

func (r *ActionRegistry) readInterviews(ctx context.Context, params map[string]any) *ActionResult {
	interviews, err := r.repo.List(ctx)
	if err != nil {
		_ = errutil.Handle(ctx, err, "read_interviews failed")
		return errorResult("Error reading interviews: %v", err)
	}

	count := len(interviews)
	return &ActionResult{
		Status:     statusSuccess,
		Interviews: interviews,
		Count:      &count,
	}
}

func (r *ActionRegistry) readInterview(ctx context.Context, params map[string]any) *ActionResult {
	id, ok := int64Param(params, "interview_id")
	if !ok {
		return errorResult("%v", ErrMissingInterviewID)
	}

	iv, err := r.repo.Get(ctx, id)
	if err != nil {
		_ = errutil.Handle(ctx, err, "read_interview failed")
		return errorResult("Error reading interview: %v", err)
	}
	if iv == nil {
		logging.From(ctx).Debug(ErrInterviewNotFound.Error(), InterviewIDKey, id)
		return errorResult("Interview not found")
	}

	return &ActionResult{Status: statusSuccess, Interview: iv}
}

func (r *ActionRegistry) updateInterview(ctx context.Context, params map[string]any) *ActionResult {
	id, ok := int64Param(params, "interview_id")
	if !ok {
		return errorResult("%v", ErrMissingInterviewID)
	}

	upd := model.InterviewUpdate{
		Title:         optionalStringParam(params, "title"),
		Description:   optionalStringParam(params, "description"),
		ScheduledDate: optionalStringParam(params, "scheduled_date"),
	}

	// An unknown ID reports changed=false; the reply stays a success summary
	// to match the historical chat behavior.
	if _, err := r.repo.Update(ctx, id, upd); err != nil {
		_ = errutil.Handle(ctx, err, "update_interview failed")
		return errorResult("Error updating interview: %v", err)
	}

	interviews, err := r.repo.List(ctx)
	if err != nil {
		_ = errutil.Handle(ctx, err, "update_interview refresh failed")
		return errorResult("Error updating interview: %v", err)
	}

	return &ActionResult{
		Status:     statusSuccess,
		Message:    fmt.Sprintf("Interview %d updated", id),
		Interviews: interviews,
	}
}

func (r *ActionRegistry) deleteInterview(ctx context.Context, params map[string]any) *ActionResult {
	id, ok := int64Param(params, "interview_id")
	if !ok {
		return errorResult("%v", ErrMissingInterviewID)
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		_ = errutil.Handle(ctx, err, "delete_interview failed")
		return errorResult("Error deleting interview: %v", err)
	}

	interviews, err := r.repo.List(ctx)
	if err != nil {
		_ = errutil.Handle(ctx, err, "delete_interview refresh failed")
		return errorResult("Error deleting interview: %v", err)
	}

	return &ActionResult{
		Status:     statusSuccess,
		Message:    fmt.Sprintf("Interview %d deleted", id),
		Interviews: interviews,
	}
}

// stringParam returns the string value under key, or "" when absent or not a
// string.
func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// optionalStringParam distinguishes "absent" from "present": nil means the
// field was not supplied at all.
func optionalStringParam(params map[string]any, key string) *string {
	v, ok := params[key]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

// int64Param accepts the numeric encodings an LLM or a JSON client may
// produce: JSON numbers (float64), Go ints, and digit strings.
func int64Param(params map[string]any, key string) (int64, bool) {
	switch v := params[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
