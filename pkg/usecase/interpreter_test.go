package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/usecase"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, input...)
	}
	return &gollem.Response{
		Texts: []string{`{"action": "respond", "response": "Understood."}`},
	}, nil
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return s.Generate(ctx, input)
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return s.Stream(ctx, input)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func clientReturning(texts ...string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: texts}, nil
				},
			}, nil
		},
	}
}

func TestRuleInterpreter(t *testing.T) {
	interp := usecase.NewRuleInterpreter(nil)
	ctx := context.Background()

	t.Run("create keywords", func(t *testing.T) {
		for _, text := range []string{"please schedule an interview", "book one for Monday", "ADD a new slot"} {
			decision := interp.Interpret(ctx, text, nil)
			gt.Value(t, decision.Action).Equal(types.ActionCreateInterview)
			gt.Value(t, decision.Reply).Equal("Scheduled.")
		}
	})

	t.Run("read keywords", func(t *testing.T) {
		for _, text := range []string{"show me everything", "list interviews", "let me check"} {
			decision := interp.Interpret(ctx, text, nil)
			gt.Value(t, decision.Action).Equal(types.ActionReadInterviews)
			gt.Value(t, decision.Reply).Equal("Here are all the interviews.")
		}
	})

	t.Run("delete keywords ask for an ID", func(t *testing.T) {
		for _, text := range []string{"delete it", "cancel the onsite", "REMOVE number two"} {
			decision := interp.Interpret(ctx, text, nil)
			gt.Value(t, decision.Action).Equal(types.ActionRespond)
			gt.Value(t, decision.Reply).Equal("Which interview ID should I delete?")
		}
	})

	t.Run("no keyword yields the default reply", func(t *testing.T) {
		decision := interp.Interpret(ctx, "good morning", nil)
		gt.Value(t, decision.Action).Equal(types.ActionRespond)
		gt.Value(t, decision.Reply).Equal("How can I help with your interviews?")
	})

	t.Run("first matching rule wins", func(t *testing.T) {
		decision := interp.Interpret(ctx, "schedule one and delete the old one", nil)
		gt.Value(t, decision.Action).Equal(types.ActionCreateInterview)
	})

	t.Run("rule params are copied per decision", func(t *testing.T) {
		first := interp.Interpret(ctx, "schedule", nil)
		first.Params["title"] = "mutated"

		second := interp.Interpret(ctx, "schedule", nil)
		gt.Value(t, second.Params["title"]).NotEqual("mutated")
	})
}

func TestLLMInterpreter(t *testing.T) {
	ctx := context.Background()
	fallback := usecase.NewRuleInterpreter(nil)

	t.Run("parses a tool call decision", func(t *testing.T) {
		client := clientReturning(`{"action": "create_interview", "params": {"title": "HR Sync"}, "response": "Booked it."}`)
		interp := usecase.NewLLMInterpreter(client, fallback)

		decision := interp.Interpret(ctx, "set up an HR sync", nil)
		gt.Value(t, decision.Action).Equal(types.ActionCreateInterview)
		gt.Value(t, decision.Params["title"]).Equal("HR Sync")
		gt.Value(t, decision.Reply).Equal("Booked it.")
	})

	t.Run("empty action becomes respond", func(t *testing.T) {
		client := clientReturning(`{"response": "Happy to help."}`)
		interp := usecase.NewLLMInterpreter(client, fallback)

		decision := interp.Interpret(ctx, "thanks", nil)
		gt.Value(t, decision.Action).Equal(types.ActionRespond)
		gt.Value(t, decision.Reply).Equal("Happy to help.")
	})

	t.Run("empty response gets a stock reply", func(t *testing.T) {
		client := clientReturning(`{"action": "read_interviews"}`)
		interp := usecase.NewLLMInterpreter(client, fallback)

		decision := interp.Interpret(ctx, "what do we have", nil)
		gt.Value(t, decision.Action).Equal(types.ActionReadInterviews)
		gt.Value(t, decision.Reply).Equal("Understood.")
	})

	t.Run("non-JSON output is relayed verbatim", func(t *testing.T) {
		client := clientReturning("I could not decide on a tool for that.")
		interp := usecase.NewLLMInterpreter(client, fallback)

		decision := interp.Interpret(ctx, "hmm", nil)
		gt.Value(t, decision.Action).Equal(types.ActionRespond)
		gt.Value(t, decision.Reply).Equal("I could not decide on a tool for that.")
	})

	t.Run("backend failure falls back to keyword rules", func(t *testing.T) {
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return nil, errors.New("backend down")
			},
		}
		interp := usecase.NewLLMInterpreter(client, fallback)

		decision := interp.Interpret(ctx, "schedule an interview", nil)
		gt.Value(t, decision.Action).Equal(types.ActionCreateInterview)
		gt.Value(t, decision.Reply).Equal("Scheduled.")
	})

	t.Run("generation failure falls back to keyword rules", func(t *testing.T) {
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return nil, errors.New("quota exceeded")
					},
				}, nil
			},
		}
		interp := usecase.NewLLMInterpreter(client, fallback)

		decision := interp.Interpret(ctx, "list them all", nil)
		gt.Value(t, decision.Action).Equal(types.ActionReadInterviews)
	})

	t.Run("empty backend content falls back to keyword rules", func(t *testing.T) {
		client := clientReturning()
		interp := usecase.NewLLMInterpreter(client, fallback)

		decision := interp.Interpret(ctx, "cancel it", nil)
		gt.Value(t, decision.Action).Equal(types.ActionRespond)
		gt.Value(t, decision.Reply).Equal("Which interview ID should I delete?")
	})

	t.Run("prompt carries instruction, history and user text", func(t *testing.T) {
		var captured string
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						for _, in := range input {
							if text, ok := in.(gollem.Text); ok {
								captured = string(text)
							}
						}
						return &gollem.Response{Texts: []string{`{"action": "respond", "response": "ok"}`}}, nil
					},
				}, nil
			},
		}
		interp := usecase.NewLLMInterpreter(client, fallback)

		history := []model.ConversationTurn{
			{Role: types.RoleUser, Content: "schedule something"},
			{Role: types.RoleAgent, Content: "Scheduled."},
		}
		interp.Interpret(ctx, "now show them", history)

		gt.Bool(t, strings.Contains(captured, "create_interview")).True()
		gt.Bool(t, strings.Contains(captured, "USER: schedule something")).True()
		gt.Bool(t, strings.Contains(captured, "AGENT: Scheduled.")).True()
		gt.Bool(t, strings.Contains(captured, "USER: now show them")).True()
		gt.Bool(t, strings.HasSuffix(captured, "AGENT: ")).True()
	})
}
