package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/rutina/internal/config"
	"github.com/claude/rutina/internal/ingest/routinecsv"
	"github.com/claude/rutina/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to routine CSV file (required)")
	strict := flag.Bool("strict", false, "fail on malformed rows instead of skipping them")
	dryRun := flag.Bool("dry-run", false, "parse and report counts without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: rutina-import -config config.yaml -file rutina.csv [-strict] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Error("failed to open routine file", "path", *filePath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	routine, err := routinecsv.ParseWithOptions(f, routinecsv.Options{Strict: *strict})
	if err != nil {
		log.Error("parse failed", "error", err)
		os.Exit(1)
	}

	exercises := 0
	for _, d := range routine.Days {
		exercises += len(d.Exercises)
		log.Info("parsed day", "day", d.Day, "focus", d.Focus, "exercises", len(d.Exercises))
	}
	log.Info("parsed routine", "routine_id", routine.RoutineID, "days", len(routine.Days), "exercises", exercises)

	if *dryRun {
		log.Info("DRY RUN mode — no data written to the database")
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var store storage.Store
	switch cfg.Database.Driver {
	case "postgres":
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		store, err = storage.OpenPostgres(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.OpenSQLite(cfg.Database.Path)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
	}
	defer store.Close()

	if err := store.PutRoutine(ctx, routine); err != nil {
		log.Error("failed to store routine", "error", err)
		os.Exit(1)
	}
	log.Info("import complete", "routine_id", routine.RoutineID)
}
