package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/interfaces"
	modelconfig "github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model/config"
)

type UseCases struct {
	repo      interfaces.InterviewRepository
	chatCfg   *modelconfig.ChatConfig
	llmClient gollem.LLMClient
	llmOpts   []LLMInterpreterOption

	Chat *ChatUseCase
}

type Option func(*UseCases)

// WithChatConfig overrides the built-in chat behavior (rule table, history
// window, placeholder title).
func WithChatConfig(cfg *modelconfig.ChatConfig) Option {
	return func(uc *UseCases) {
		if cfg != nil {
			uc.chatCfg = cfg
		}
	}
}

// WithLLMClient enables the live interpretation backend. Without it the
// dispatcher runs on the deterministic keyword fallback alone.
func WithLLMClient(client gollem.LLMClient, opts ...LLMInterpreterOption) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
		uc.llmOpts = opts
	}
}

func New(repo interfaces.InterviewRepository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		chatCfg: modelconfig.DefaultChatConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	registry := NewActionRegistry(repo, uc.chatCfg.PlaceholderTitle)
	fallback := NewRuleInterpreter(uc.chatCfg)

	// One interface regardless of backend availability: the dispatcher never
	// branches on it.
	var interp Interpreter = fallback
	if uc.llmClient != nil {
		interp = NewLLMInterpreter(uc.llmClient, fallback, uc.llmOpts...)
	}

	uc.Chat = NewChatUseCase(repo, registry, interp)
	return uc
}

// HistoryWindow exposes the configured conversation window for session
// construction.
func (uc *UseCases) HistoryWindow() int {
	return uc.chatCfg.HistoryWindow
}
