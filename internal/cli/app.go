// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring of the warlock components behind every command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/warlock-tui/internal/chat"
	"github.com/jeranaias/warlock-tui/internal/config"
	"github.com/jeranaias/warlock-tui/internal/feedback"
	"github.com/jeranaias/warlock-tui/internal/games"
	"github.com/jeranaias/warlock-tui/internal/gateway"
	"github.com/jeranaias/warlock-tui/internal/history"
	"github.com/jeranaias/warlock-tui/internal/session"
)

// catalogTimeout bounds the games request made at startup.
const catalogTimeout = 5 * time.Second

// App holds the wired components shared by all commands.
type App struct {
	Config *config.Config
	Args   Args
	Log    *zap.Logger

	Store  *history.Store
	Client *gateway.Client // nil in mock mode
	Games  *games.Provider
	Chat   *chat.Controller

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Services are the remote collaborators of an App. Build fills them from
// the configuration; tests inject their own.
type Services struct {
	Sender    gateway.Sender
	Lister    gateway.GameLister
	Feedback  gateway.FeedbackSubmitter
	Backend   history.Backend
	Clipboard chat.Clipboard
}

// Build wires the application for cfg and args.
func Build(ctx context.Context, cfg *config.Config, args Args, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var svc Services
	var client *gateway.Client
	if args.Mock {
		mock := gateway.NewMockSender()
		svc.Sender, svc.Lister, svc.Feedback = mock, mock, mock
	} else {
		client = gateway.NewClientWithConfig(&gateway.ClientConfig{
			BaseURL:           cfg.API.BaseURL,
			FeedbackBaseURL:   cfg.API.FeedbackBaseURL,
			APIKey:            cfg.API.APIKey,
			Timeout:           time.Duration(cfg.API.TimeoutSecs) * time.Second,
			RequestsPerMinute: cfg.API.RequestsPerMinute,
			UserAgent:         "warlock-tui/" + Version,
		}, logger)
		svc.Sender, svc.Lister, svc.Feedback = client, client, client
	}

	backend, err := openBackend(ctx, cfg, args)
	if err != nil {
		return nil, err
	}
	svc.Backend = backend

	app, err := BuildWith(ctx, cfg, args, svc, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}
	app.Client = client
	return app, nil
}

// BuildWith wires the application over explicit services.
func BuildWith(ctx context.Context, cfg *config.Config, args Args, svc Services, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := history.NewStore(svc.Backend, history.Options{
		Prefix:      cfg.History.StoragePrefix,
		MaxMessages: cfg.History.MaxMessages,
	}, logger)

	provider := games.NewProvider(cfg.Game.Default, logger)
	catalogCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	provider.Refresh(catalogCtx, svc.Lister)
	cancel()

	gameID := cfg.Game.Default
	if args.Game != "" {
		gameID = args.Game
	}
	if err := provider.Select(gameID); err != nil {
		return nil, fmt.Errorf("game %q: %w", gameID, err)
	}

	apiKey := func() string { return cfg.API.APIKey }
	if c, ok := svc.Sender.(*gateway.Client); ok {
		apiKey = c.APIKey
	}

	ctrl := chat.New(chat.Deps{
		Registry:  session.NewRegistry(),
		Store:     store,
		Sender:    svc.Sender,
		Games:     provider,
		Clipboard: svc.Clipboard,
		Feedback:  feedback.NewService(svc.Feedback, apiKey, logger),
		Logger:    logger,
	})
	ctrl.Initialize(gameID)

	return &App{
		Config: cfg,
		Args:   args,
		Log:    logger,
		Store:  store,
		Games:  provider,
		Chat:   ctrl,
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}, nil
}

// openBackend opens the configured history backend, or memory for
// --ephemeral.
func openBackend(ctx context.Context, cfg *config.Config, args Args) (history.Backend, error) {
	if args.Ephemeral {
		return history.NewMemoryBackend(), nil
	}

	opts := history.OpenOptions{
		Kind:       cfg.History.Backend,
		Dir:        cfg.History.Dir,
		SQLitePath: cfg.History.SQLitePath,
		RedisURL:   cfg.History.RedisURL,
		RedisTTL:   time.Duration(cfg.History.RedisTTLHours) * time.Hour,
	}
	if opts.Dir == "" || opts.SQLitePath == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		if opts.Dir == "" {
			opts.Dir = filepath.Join(dir, "history")
		}
		if opts.SQLitePath == "" {
			opts.SQLitePath = filepath.Join(dir, "history.db")
		}
	}

	backend, err := history.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s history: %w", opts.Kind, err)
	}
	return backend, nil
}

// ApplyConfig takes over settings that may change while running. Only the
// API key is live; everything else needs a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	if a.Client != nil && cfg.API.APIKey != a.Client.APIKey() {
		a.Client.SetAPIKey(cfg.API.APIKey)
		a.Log.Info("api key updated from config file")
	}
}

// Close releases the history backend.
func (a *App) Close() error {
	return a.Store.Close()
}
