package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/cli/config"
	httpctrl "github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/controller/http"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/service/hub"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/service/worker"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/usecase"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/safe"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var keepaliveInterval time.Duration
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var chatCfg config.Chat
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8000",
			Sources:     cli.EnvVars("SCHEDULER_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "keepalive-interval",
			Usage:       "Interval between WebSocket keepalive sweeps",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("SCHEDULER_KEEPALIVE_INTERVAL"),
			Destination: &keepaliveInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, chatCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the chat backend server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryClose, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure error reporting")
			}
			defer sentryClose()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// Load chat agent behavior (rule table, window, placeholder)
			agentCfg, err := chatCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load chat configuration")
			}

			// Initialize the interpretation backend; nil means keyword
			// fallback only
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			ucOpts := []usecase.Option{
				usecase.WithChatConfig(agentCfg),
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithLLMClient(llmClient,
					usecase.WithInvokeTimeout(chatCfg.LLMTimeout()),
					usecase.WithMaxConcurrency(chatCfg.LLMConcurrency()),
				))
				attrs := append(geminiCfg.LogAttrs(), slog.String("timeout", chatCfg.LLMTimeout().String()))
				logging.Default().LogAttrs(ctx, slog.LevelInfo, "Interpretation backend enabled", attrs...)
			} else {
				logging.Default().Info("No interpretation backend configured, using keyword fallback")
			}

			uc := usecase.New(repo, ucOpts...)

			connHub := hub.New(repo, hub.WithHistoryWindow(uc.HistoryWindow()))

			keepalive := worker.NewKeepaliveWorker(connHub, keepaliveInterval)
			if err := keepalive.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start keepalive worker")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, connHub),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				keepalive.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
