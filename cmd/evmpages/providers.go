package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-cz/devslog"
	"github.com/google/wire"

	"github.com/hayeah/evmpages/htmlmin"
	"github.com/hayeah/evmpages/ignore"
	"github.com/hayeah/evmpages/internal/chain"
	"github.com/hayeah/evmpages/internal/config"
	"github.com/hayeah/evmpages/internal/store"
	"github.com/hayeah/evmpages/internal/tui"
	"github.com/hayeah/evmpages/picker"
)

// ProvideLogger logs to stderr, at debug level with --verbose.
func ProvideLogger(args *Args) *slog.Logger {
	level := slog.LevelInfo
	if args.Verbose {
		level = slog.LevelDebug
	}
	handler := devslog.NewHandler(os.Stderr, &devslog.Options{
		HandlerOptions:  &slog.HandlerOptions{Level: level},
		NewLineAfterLog: true,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ProvideConfig loads --config. --ext overrides the configured extension.
func ProvideConfig(args *Args, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(args.Config)
	if err != nil {
		return nil, err
	}
	if args.Ext != "" {
		cfg.Extension = args.Ext
	}
	logger.Debug("config loaded", "path", cfg.Path, "rpc", cfg.RPC, "chainID", cfg.ChainID)
	return cfg, nil
}

func ProvideEnv(args *Args, cfg *config.Config) (*config.Env, error) {
	envFile := args.EnvFile
	if envFile == "" {
		envFile = filepath.Join(cfg.Dir(), ".env")
	}
	return config.LoadEnv(envFile)
}

func ProvideChain(ctx context.Context, cfg *config.Config, env *config.Env, logger *slog.Logger) (*chain.Client, func(), error) {
	c, err := chain.Dial(ctx, cfg.RPC, env.PrivateKey, cfg.ChainID, logger)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

func ProvidePageStore(cfg *config.Config, logger *slog.Logger) (*store.PageStore, func(), error) {
	ps, err := store.Open(cfg.HistoryPath(), logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := ps.Close(); err != nil {
			logger.Warn("failed to close history", "err", err)
		}
	}
	return ps, cleanup, nil
}

// ProvideIgnore returns nil unless --gitignore is set.
func ProvideIgnore(args *Args) (*ignore.Ignore, error) {
	if !args.Gitignore {
		return nil, nil
	}
	return ignore.NewIgnore(args.Dir)
}

func ProvideOutput() io.Writer { return os.Stdout }

// collect all the necessary providers
var Wires = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideEnv,
	ProvideChain,
	ProvidePageStore,
	ProvideIgnore,
	ProvideOutput,
	htmlmin.New,
	tui.NewPrompt,
	wire.Bind(new(picker.Prompter), new(*tui.Prompt)),
	wire.Struct(new(App), "*"),
)
