package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	modelconfig "github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model/config"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
)

// Chat holds CLI flags for the chat agent configuration
type Chat struct {
	configPath     string
	llmTimeout     time.Duration
	llmConcurrency int64
}

// Flags returns CLI flags for chat agent configuration
func (c *Chat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "chat-config",
			Usage:       "Path to the chat agent TOML configuration (optional)",
			Sources:     cli.EnvVars("SCHEDULER_CHAT_CONFIG"),
			Destination: &c.configPath,
		},
		&cli.DurationFlag{
			Name:        "llm-timeout",
			Usage:       "Timeout for a single interpretation backend call",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("SCHEDULER_LLM_TIMEOUT"),
			Destination: &c.llmTimeout,
		},
		&cli.Int64Flag{
			Name:        "llm-concurrency",
			Usage:       "Maximum concurrent interpretation backend calls",
			Value:       4,
			Sources:     cli.EnvVars("SCHEDULER_LLM_CONCURRENCY"),
			Destination: &c.llmConcurrency,
		},
	}
}

// LLMTimeout returns the configured backend call timeout
func (c *Chat) LLMTimeout() time.Duration {
	return c.llmTimeout
}

// LLMConcurrency returns the configured backend concurrency cap
func (c *Chat) LLMConcurrency() int64 {
	return c.llmConcurrency
}

// chatConfigFile is the TOML shape of the optional chat configuration file.
type chatConfigFile struct {
	HistoryWindow    int          `toml:"history_window"`
	PlaceholderTitle string       `toml:"placeholder_title"`
	DefaultReply     string       `toml:"default_reply"`
	Rules            []ruleConfig `toml:"rule"`
}

type ruleConfig struct {
	Keywords []string       `toml:"keywords"`
	Action   string         `toml:"action"`
	Reply    string         `toml:"reply"`
	Params   map[string]any `toml:"params"`
}

// Validate checks one fallback rule
func (r *ruleConfig) Validate() error {
	if len(r.Keywords) == 0 {
		return ErrMissingKeywords
	}
	action := types.ActionName(r.Action)
	if action != types.ActionRespond && !action.IsRegistered() {
		return goerr.Wrap(ErrUnknownRuleAction, "unknown action", goerr.V(RuleActionKey, r.Action))
	}
	if r.Reply == "" {
		return ErrMissingRuleReply
	}
	return nil
}

// Configure loads the chat configuration, starting from the built-in
// defaults and overriding with the TOML file when one is given.
func (c *Chat) Configure() (*modelconfig.ChatConfig, error) {
	cfg := modelconfig.DefaultChatConfig()
	if c.configPath == "" {
		return cfg, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read chat config file", goerr.V(ConfigPathKey, c.configPath))
	}

	var file chatConfigFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML chat config", goerr.V(ConfigPathKey, c.configPath))
	}

	if err := file.validate(); err != nil {
		return nil, goerr.Wrap(err, "chat config validation failed", goerr.V(ConfigPathKey, c.configPath))
	}

	if file.HistoryWindow > 0 {
		cfg.HistoryWindow = file.HistoryWindow
	}
	if file.PlaceholderTitle != "" {
		cfg.PlaceholderTitle = file.PlaceholderTitle
	}
	if file.DefaultReply != "" {
		cfg.DefaultReply = file.DefaultReply
	}
	if len(file.Rules) > 0 {
		rules := make([]modelconfig.KeywordRule, len(file.Rules))
		for i, rc := range file.Rules {
			rules[i] = modelconfig.KeywordRule{
				Keywords: rc.Keywords,
				Action:   types.ActionName(rc.Action),
				Params:   rc.Params,
				Reply:    rc.Reply,
			}
		}
		cfg.Rules = rules
	}

	return cfg, nil
}

// validate checks the file-level constraints
func (f *chatConfigFile) validate() error {
	if f.HistoryWindow < 0 {
		return goerr.Wrap(ErrInvalidWindow, "negative history window", goerr.V("history_window", f.HistoryWindow))
	}

	// Rules match first-wins in order: the same keyword in a later rule
	// would never fire.
	seen := make(map[string]bool)
	for i, rule := range f.Rules {
		if err := rule.Validate(); err != nil {
			return goerr.Wrap(err, "invalid rule", goerr.V(RuleIndexKey, i))
		}
		for _, kw := range rule.Keywords {
			if seen[kw] {
				return goerr.Wrap(ErrDuplicateKeyword, "keyword already used", goerr.V(KeywordKey, kw), goerr.V(RuleIndexKey, i))
			}
			seen[kw] = true
		}
	}

	return nil
}
