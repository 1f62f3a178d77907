package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"golang.org/x/sync/semaphore"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
	modelconfig "github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model/config"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
)

//go:embed prompt/decision_system.md
var decisionSystemPrompt string

// Interpreter maps free-form user text plus recent conversation context to a
// Decision. Implementations never fail: when nothing better is available the
// result is a plain "respond" decision.
type Interpreter interface {
	Interpret(ctx context.Context, text string, history []model.ConversationTurn) *model.Decision
}

// RuleInterpreter is the deterministic keyword fallback. Exactly one rule
// fires per message, first match wins, in configured order.
type RuleInterpreter struct {
	cfg *modelconfig.ChatConfig
}

// NewRuleInterpreter builds the fallback interpreter. A nil config uses the
// built-in rule table.
func NewRuleInterpreter(cfg *modelconfig.ChatConfig) *RuleInterpreter {
	if cfg == nil {
		cfg = modelconfig.DefaultChatConfig()
	}
	return &RuleInterpreter{cfg: cfg}
}

func (i *RuleInterpreter) Interpret(ctx context.Context, text string, history []model.ConversationTurn) *model.Decision {
	lowered := strings.ToLower(text)

	for _, rule := range i.cfg.Rules {
		if rule.Matches(lowered) {
			return &model.Decision{
				Action: rule.Action,
				Params: cloneParams(rule.Params),
				Reply:  rule.Reply,
			}
		}
	}

	return &model.Decision{
		Action: types.ActionRespond,
		Params: map[string]any{},
		Reply:  i.cfg.DefaultReply,
	}
}

const (
	defaultInvokeTimeout  = 30 * time.Second
	defaultMaxConcurrency = 4
)

// LLMInterpreter asks a text-completion backend for a decision and degrades
// to the deterministic fallback on any backend failure, per call, without
// retry.
type LLMInterpreter struct {
	client   gollem.LLMClient
	fallback *RuleInterpreter
	timeout  time.Duration
	sem      *semaphore.Weighted
}

// LLMInterpreterOption configures an LLMInterpreter.
type LLMInterpreterOption func(*LLMInterpreter)

// WithInvokeTimeout bounds a single backend call; expiry counts as backend
// unavailability.
func WithInvokeTimeout(d time.Duration) LLMInterpreterOption {
	return func(i *LLMInterpreter) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithMaxConcurrency caps in-flight backend calls across all connections.
func WithMaxConcurrency(n int64) LLMInterpreterOption {
	return func(i *LLMInterpreter) {
		if n > 0 {
			i.sem = semaphore.NewWeighted(n)
		}
	}
}

// NewLLMInterpreter wraps the backend client with the given fallback.
func NewLLMInterpreter(client gollem.LLMClient, fallback *RuleInterpreter, opts ...LLMInterpreterOption) *LLMInterpreter {
	i := &LLMInterpreter{
		client:   client,
		fallback: fallback,
		timeout:  defaultInvokeTimeout,
		sem:      semaphore.NewWeighted(defaultMaxConcurrency),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *LLMInterpreter) Interpret(ctx context.Context, text string, history []model.ConversationTurn) *model.Decision {
	raw, err := i.invoke(ctx, buildDecisionPrompt(text, history))
	if err != nil {
		logging.From(ctx).Warn("interpretation backend unavailable, using keyword fallback",
			"error", err.Error(),
		)
		return i.fallback.Interpret(ctx, text, history)
	}

	return parseDecision(raw)
}

func (i *LLMInterpreter) invoke(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	if err := i.sem.Acquire(ctx, 1); err != nil {
		return "", goerr.Wrap(err, "interpretation backend is saturated")
	}
	defer i.sem.Release(1)

	session, err := i.client.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create interpretation session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)})
	if err != nil {
		return "", goerr.Wrap(err, "failed to invoke interpretation backend")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("interpretation backend returned no content")
	}

	return strings.Join(resp.Texts, "\n"), nil
}

// buildDecisionPrompt assembles the fixed instruction block, the retained
// conversation turns as "ROLE: content" lines and the new user text.
func buildDecisionPrompt(text string, history []model.ConversationTurn) string {
	var b strings.Builder
	b.WriteString(decisionSystemPrompt)
	b.WriteString("\n")

	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(turn.Role.String()), turn.Content)
	}

	fmt.Fprintf(&b, "USER: %s\nAGENT: ", text)
	return b.String()
}

// parseDecision parses the backend's raw output. Output that is not valid
// JSON is never discarded: it becomes the reply text of a plain "respond"
// decision verbatim.
func parseDecision(raw string) *model.Decision {
	var parsed struct {
		Action   string         `json:"action"`
		Params   map[string]any `json:"params"`
		Response string         `json:"response"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return &model.Decision{
			Action: types.ActionRespond,
			Params: map[string]any{},
			Reply:  raw,
		}
	}

	action := types.ActionName(parsed.Action)
	if action == "" {
		action = types.ActionRespond
	}
	reply := parsed.Response
	if reply == "" {
		reply = "Understood."
	}
	params := parsed.Params
	if params == nil {
		params = map[string]any{}
	}

	return &model.Decision{Action: action, Params: params, Reply: reply}
}

func cloneParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
