package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/cli/config"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
)

func writeChatConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chat.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestChatFlags(t *testing.T) {
	chatCfg := config.NewChatForTest("")
	cmd := &cli.Command{
		Name:  "test",
		Flags: chatCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}

	err := cmd.Run(t.Context(), []string{"test", "--llm-timeout", "5s", "--llm-concurrency", "8"})
	gt.NoError(t, err).Required()

	gt.Value(t, chatCfg.LLMTimeout()).Equal(5 * time.Second)
	gt.Value(t, chatCfg.LLMConcurrency()).Equal(int64(8))
}

func TestChatConfigure(t *testing.T) {
	t.Run("no file keeps the built-in defaults", func(t *testing.T) {
		cfg, err := config.NewChatForTest("").Configure()
		gt.NoError(t, err).Required()

		gt.Value(t, cfg.HistoryWindow).Equal(5)
		gt.Value(t, cfg.PlaceholderTitle).Equal("New Interview")
		gt.Array(t, cfg.Rules).Length(3)
		gt.Value(t, cfg.DefaultReply).Equal("How can I help with your interviews?")
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeChatConfig(t, `
history_window = 8
placeholder_title = "Untitled Interview"
default_reply = "Ask me about interviews."

[[rule]]
keywords = ["plan", "arrange"]
action = "create_interview"
reply = "Planned."

[[rule]]
keywords = ["everything"]
action = "read_interviews"
reply = "Listing everything."
`)

		cfg, err := config.NewChatForTest(path).Configure()
		gt.NoError(t, err).Required()

		gt.Value(t, cfg.HistoryWindow).Equal(8)
		gt.Value(t, cfg.PlaceholderTitle).Equal("Untitled Interview")
		gt.Value(t, cfg.DefaultReply).Equal("Ask me about interviews.")
		gt.Array(t, cfg.Rules).Length(2)
		gt.Value(t, cfg.Rules[0].Action).Equal(types.ActionCreateInterview)
		gt.Value(t, cfg.Rules[0].Reply).Equal("Planned.")
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		path := writeChatConfig(t, `default_reply = "Yes?"`)

		cfg, err := config.NewChatForTest(path).Configure()
		gt.NoError(t, err).Required()

		gt.Value(t, cfg.DefaultReply).Equal("Yes?")
		gt.Value(t, cfg.HistoryWindow).Equal(5)
		gt.Array(t, cfg.Rules).Length(3)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := config.NewChatForTest(filepath.Join(t.TempDir(), "absent.toml")).Configure()
		gt.Error(t, err)
	})

	t.Run("malformed TOML is an error", func(t *testing.T) {
		path := writeChatConfig(t, `[[rule`)

		_, err := config.NewChatForTest(path).Configure()
		gt.Error(t, err)
	})

	t.Run("rule without keywords is rejected", func(t *testing.T) {
		path := writeChatConfig(t, `
[[rule]]
action = "respond"
reply = "Hello."
`)

		_, err := config.NewChatForTest(path).Configure()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrMissingKeywords)).True()
	})

	t.Run("rule with unknown action is rejected", func(t *testing.T) {
		path := writeChatConfig(t, `
[[rule]]
keywords = ["espresso"]
action = "make_coffee"
reply = "Brewing."
`)

		_, err := config.NewChatForTest(path).Configure()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrUnknownRuleAction)).True()
	})

	t.Run("rule without reply is rejected", func(t *testing.T) {
		path := writeChatConfig(t, `
[[rule]]
keywords = ["plan"]
action = "create_interview"
`)

		_, err := config.NewChatForTest(path).Configure()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrMissingRuleReply)).True()
	})

	t.Run("duplicate keyword across rules is rejected", func(t *testing.T) {
		path := writeChatConfig(t, `
[[rule]]
keywords = ["plan"]
action = "create_interview"
reply = "Planned."

[[rule]]
keywords = ["plan", "everything"]
action = "read_interviews"
reply = "Listing."
`)

		_, err := config.NewChatForTest(path).Configure()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrDuplicateKeyword)).True()
	})

	t.Run("negative history window is rejected", func(t *testing.T) {
		path := writeChatConfig(t, `history_window = -1`)

		_, err := config.NewChatForTest(path).Configure()
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrInvalidWindow)).True()
	})
}

func TestRepositoryConfigure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest("memory", "").Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close())
	})

	t.Run("sqlite backend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "interviews.db")
		repo, err := config.NewRepositoryForTest("sqlite", path).Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close())
	})

	t.Run("unknown backend is an error", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("etcd", "").Configure(t.Context())
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})
}
