package main

import (
	"fmt"
	"os"

	"taskman/internal/config"
	"taskman/internal/logging"
	"taskman/internal/menu"
	"taskman/internal/storage"
	"taskman/internal/task"
	"taskman/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	backend, err := storage.Open(cfg.Backend, cfg.TasksFile)
	if err != nil {
		fmt.Printf("failed to open task storage: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	loaded, err := backend.Load()
	if err != nil {
		logger.Error("load failed", "path", cfg.TasksFile, "err", err)
		fmt.Printf("Error loading tasks: %v\n", err)
	} else if len(loaded) > 0 {
		logger.Debug("loaded tasks", "path", cfg.TasksFile, "count", len(loaded))
		fmt.Println("Tasks loaded from file.")
	}
	store := task.NewStore(loaded)

	if cfg.Interface == "tui" {
		if err := ui.Run(store, backend, cfg, logger, os.Stdout); err != nil {
			fmt.Printf("error running program: %v\n", err)
		}
		return
	}
	menu.New(os.Stdin, os.Stdout, store, backend, logger).Run()
}
