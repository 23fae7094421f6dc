// warlock - A terminal rules assistant for board games.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jeranaias/warlock-tui/internal/cli"
	"github.com/jeranaias/warlock-tui/internal/config"
	"github.com/jeranaias/warlock-tui/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cmd, args := cli.Parse(argv)

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return 0
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if args.Verbose {
		logOpts.Level = "debug"
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		logger = logging.Nop()
	}
	defer logging.Sync(logger)

	if cmd == cli.CmdConfig {
		return exitCode(cmd, args, cli.HandleConfig(cfg, args, os.Stdout))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.Build(ctx, cfg, args, logger)
	if err != nil {
		return exitCode(cmd, args, err)
	}
	defer app.Close()

	if path, err := config.ConfigPathTOML(); err == nil {
		if w, err := config.Watch(path, app.ApplyConfig, logger); err == nil {
			defer w.Close()
		} else {
			logger.Debug("config watch unavailable", zap.Error(err))
		}
	}

	logger.Info("starting",
		zap.String("command", cmd.String()),
		zap.String("game", app.Chat.GameID()),
		zap.Bool("mock", args.Mock))

	switch cmd {
	case cli.CmdAsk:
		err = app.HandleAsk(ctx)
	case cli.CmdChat:
		err = app.HandleChat(ctx)
	case cli.CmdHistory:
		err = app.HandleHistory(ctx)
	case cli.CmdGames:
		err = app.HandleGames(ctx)
	default:
		err = app.HandleTUI(ctx)
	}
	if err != nil {
		logger.Warn("command failed", zap.String("command", cmd.String()), zap.Error(err))
	}
	return exitCode(cmd, args, err)
}

// exitCode reports err and maps it to a process exit status. Failed
// answers have already been printed by the command.
func exitCode(cmd cli.Command, args cli.Args, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrAnswerFailed):
		return 1
	case args.JSON:
		cli.NewJSONErrorResponse(cmd.String(), err).Print(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}
