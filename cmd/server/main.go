// Package main is the entry point for the recshelf server.
//
// main stays minimal: read configuration, build the logger, load the
// optional seed-admins file, create the server, run it. All actual logic
// lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/recshelf/internal/config"
	"github.com/sakif/recshelf/internal/seed"
	"github.com/sakif/recshelf/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Ensure the data directory exists before SQLite tries to create the file.
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	var seedAdmins []string
	if cfg.SeedAdminsFile != "" {
		seedAdmins, err = seed.LoadAdmins(cfg.SeedAdminsFile)
		if err != nil {
			logger.Error("failed to load seed admins", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("seed admins loaded",
			slog.String("file", cfg.SeedAdminsFile),
			slog.Int("count", len(seedAdmins)),
		)
	}

	srv, err := server.New(cfg, seedAdmins, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
