package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tilefall/tilefall/internal/config"
	"github.com/tilefall/tilefall/internal/gameserver"
)

const ConfigPath = "config/server.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("TILEFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Configure slog based on config.LogLevel
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("tilefall server starting",
		"bind", cfg.BindAddress,
		"port", cfg.Port,
		"lobby_size", cfg.LobbySize,
		"tick_period", cfg.TickPeriod)

	lobby := gameserver.NewLobby(cfg.LobbySize, cfg.TickPeriod, cfg.PendingQueueSize)
	server := gameserver.NewServer(cfg, lobby)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting lobby")
		if err := lobby.Run(gctx); err != nil {
			return fmt.Errorf("lobby: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting game server")
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
