// Package main runs the taskflow bot: it watches a group chat for messages
// that look like actionable tasks, proposes them for confirmation, and files
// confirmed tasks with the task service.
//
// Usage:
//
//	TELEGRAM_TOKEN=123:abc \
//	UPSTREAM_BASE_URL=https://tasks.example.com \
//	./taskflow --config config.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glebsterx/TaskFlow/internal/config"
	"github.com/glebsterx/TaskFlow/internal/detect"
	"github.com/glebsterx/TaskFlow/internal/logging"
	"github.com/glebsterx/TaskFlow/internal/ops"
	"github.com/glebsterx/TaskFlow/internal/pending"
	"github.com/glebsterx/TaskFlow/internal/telegram"
	"github.com/glebsterx/TaskFlow/internal/upstream"
	"github.com/glebsterx/TaskFlow/internal/workflow"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "taskflow",
		Short: "Chat task detection bot",
		Long:  "taskflow watches chat messages for actionable tasks and files confirmed ones with the task service.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("taskflow starting",
		zap.Int64("chat_id", cfg.Telegram.ChatID),
		zap.Duration("pending_ttl", cfg.Pending.TTL),
		zap.Float64("confidence_threshold", cfg.Detect.ConfidenceThreshold),
	)

	// Detection core.
	detector := detect.NewDetector(detect.Config{
		ConfidenceThreshold: cfg.Detect.ConfidenceThreshold,
		MaxTitleLength:      cfg.Detect.MaxTitleLength,
	}, logger.Named("detect"))

	store := pending.NewStore(cfg.Pending.TTL)
	store.SetMetrics(pending.NewMetrics())
	go store.RunSweeper(ctx, cfg.Pending.SweepInterval)

	// Upstream task service.
	client, err := upstream.NewClient(upstream.ClientConfig{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating upstream client: %w", err)
	}

	wf := workflow.New(detector, store, client, client, logger.Named("workflow"), workflow.Config{
		AssignListLimit: cfg.Workflow.AssignListLimit,
	})
	wf.SetMetrics(workflow.NewMetrics())

	// Chat transport.
	tg, err := telegram.NewClient(telegram.Config{Token: cfg.Telegram.Token})
	if err != nil {
		return fmt.Errorf("creating telegram client: %w", err)
	}
	poller := telegram.NewPoller(tg, wf, logger.Named("telegram"), cfg.Telegram.ChatID, cfg.Telegram.PollTimeout)

	// Operational endpoints.
	opsServer := ops.NewServer(logger.Named("ops"))
	go func() {
		logger.Info("ops server listening", zap.String("addr", cfg.Ops.Addr))
		if err := opsServer.Start(cfg.Ops.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server error", zap.Error(err))
		}
	}()

	pollErr := make(chan error, 1)
	go func() { pollErr <- poller.Run(ctx) }()

	select {
	case err := <-pollErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("poller error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown error", zap.Error(err))
	}

	logger.Info("taskflow stopped")
	return nil
}
