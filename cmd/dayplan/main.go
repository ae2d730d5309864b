package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/dayplan-dev/dayplan/internal/blob"
	"github.com/dayplan-dev/dayplan/internal/scheduler"
	"github.com/dayplan-dev/dayplan/internal/storage"
	"github.com/dayplan-dev/dayplan/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dayplan failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	seedPath := flag.String("seed", "", "JSON file of sample tasks to insert before starting")
	flag.Parse()

	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if *seedPath != "" {
		file, err := os.Open(*seedPath)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		n, err := storage.SeedTasks(context.Background(), repo, file)
		file.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "seeded %d task(s) from %s\n", n, *seedPath)
	}

	var store blob.Store
	if cfg.AttachmentBucket != "" {
		s3Store, err := blob.NewS3Store(context.Background(), blob.S3Options{
			Bucket:  cfg.AttachmentBucket,
			Region:  cfg.AWSRegion,
			Profile: cfg.AWSProfile,
		})
		if err != nil {
			return fmt.Errorf("attachment store: %w", err)
		}
		store = s3Store
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	model := update.NewModelWithConfig(repo, store, engine, notifier, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
