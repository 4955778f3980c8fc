package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/lost-in-space/internal/config"
	"github.com/jwebster45206/lost-in-space/internal/logger"
	"github.com/jwebster45206/lost-in-space/internal/storage"
	"github.com/jwebster45206/lost-in-space/pkg/state"
)

const redisStartupTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close()
	}()
	log := logger.SetupWithWriter(cfg, logFile)

	store := openStore(cfg, log)
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close world store", "error", err)
		}
	}()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "World data unavailable: %v\nCheck DATA_DIR (currently %q).\n", err, cfg.DataDir)
		os.Exit(1)
	}

	names, worlds, err := listWorlds(ctx, store)
	if err != nil || len(names) == 0 {
		fmt.Fprintf(os.Stderr, "Failed to list worlds: %v\n", err)
		os.Exit(1)
	}

	opts := sessionOptions(cfg)

	log.Info("Starting console", "environment", cfg.Environment, "worlds", len(names))
	p := tea.NewProgram(NewConsoleUI(store, opts, log, names, worlds, cfg.World),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error("Console exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func sessionOptions(cfg *config.Config) state.Options {
	return state.Options{
		StartingOxygen: cfg.StartingOxygen,
		OxygenPerMove:  cfg.OxygenPerMove,
		FreeMoves:      cfg.OxygenPerMove == 0,
	}
}

// openStore returns the file store, fronted by Redis when REDIS_URL is set
// and reachable.
func openStore(cfg *config.Config, log *slog.Logger) storage.WorldStore {
	files := storage.NewFileStore(cfg.DataDir, cfg.WorldCacheTTL, log)
	if cfg.RedisURL == "" {
		return files
	}

	cache := storage.NewRedisCache(cfg.RedisURL, files, cfg.WorldCacheTTL, log)
	ctx, cancel := context.WithTimeout(context.Background(), redisStartupTimeout)
	defer cancel()
	if err := cache.WaitForConnection(ctx); err != nil {
		logger.WithError(log, err).Warn("Redis unavailable, reading worlds from disk", "redis_url", cfg.RedisURL)
		_ = cache.Close()
		return storage.NewFileStore(cfg.DataDir, cfg.WorldCacheTTL, log)
	}
	return cache
}

// listWorlds returns world titles in display order with their file names.
func listWorlds(ctx context.Context, store storage.WorldStore) ([]string, map[string]string, error) {
	worlds, err := store.ListWorlds(ctx)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(worlds))
	for name := range worlds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, worlds, nil
}
