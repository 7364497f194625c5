package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/plexsync/poster-sync/internal/config"
	"github.com/plexsync/poster-sync/internal/logging"
	"github.com/plexsync/poster-sync/internal/plex"
	"github.com/plexsync/poster-sync/internal/sync"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out, closer, err := logging.OpenOutput(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	if closer != nil {
		defer closer.Close()
	}

	logger := logging.NewLogger(cfg.Environment, logging.ParseLevel(cfg.LogLevel), out)
	logger.Info("poster-sync starting",
		slog.String("version", Version),
		slog.String("server", cfg.PlexURL),
		slog.String("poster_dir", cfg.PosterFolder),
		slog.Bool("watch", cfg.Watch),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	identity := plex.DefaultIdentity(Version, cfg.DeviceName)
	client := plex.NewClient(cfg.PlexURL, cfg.PlexToken, identity, plex.NewHTTPClient(cfg.RequestTimeout))

	// Connectivity and token validity are the only failures that abort
	// the whole run; everything past this point degrades per item.
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("connecting to Plex server at %s: %w", cfg.PlexURL, err)
	}

	logger.Info("connected to Plex server", slog.String("client_id", identity.Identifier))

	runner := sync.New(client, sync.Options{
		PosterDir:        cfg.PosterFolder,
		CachePath:        cfg.CacheFile(),
		ReapplyPosters:   cfg.ReapplyPosters,
		NormalizeHyphens: cfg.NormalizeHyphens,
		MaxRetries:       cfg.MaxRetries,
		Workers:          cfg.MaxWorkers,
		NewWorkerAPI: func() sync.API {
			return client.WithHTTPClient(plex.NewHTTPClient(cfg.RequestTimeout))
		},
	}, logger)

	if cfg.Watch {
		if err := runner.Watch(ctx, cfg.WatchDebounce); err != nil && ctx.Err() == nil {
			return err
		}

		return nil
	}

	if _, err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}
