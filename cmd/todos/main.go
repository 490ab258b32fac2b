package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/todos/internal/config"
	"github.com/abatilo/todos/internal/dates"
	"github.com/abatilo/todos/internal/logger"
	"github.com/abatilo/todos/internal/output"
	"github.com/abatilo/todos/internal/storage"
	"github.com/abatilo/todos/internal/todo"
)

//nolint:gochecknoglobals // CLI flags, config and formatter are package-level by design
var (
	jsonOutput  bool
	configPath  string
	backendName string
	dataPath    string

	cfg       *config.Config
	log       *zap.Logger
	formatter output.Formatter = output.NewHumanFormatter()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "todos",
		Short: "A personal task list",
		Long:  "todos - create, complete, delete, restore, filter, search and sort personal todo items.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if jsonOutput {
				formatter = output.NewJSONFormatter()
			}

			loaded, err := config.Load(configPath)
			if err != nil {
				printError(err)
			}
			if backendName != "" {
				loaded.Storage.Backend = backendName
			}
			if dataPath != "" {
				loaded.Storage.Path = dataPath
			}
			cfg = loaded
			log = logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = log.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.todos/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Storage backend (file, bolt, sqlite, memory)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "path", "", "Storage directory (default ~/.todos)")

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		showCmd(),
		completeCmd(),
		reopenCmd(),
		rmCmd(),
		restoreCmd(),
		countsCmd(),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getStore opens the configured backend and loads the list.
func getStore() (*storage.Store, error) {
	backend, err := storage.OpenBackend(cfg.Storage)
	if err != nil {
		return nil, err
	}

	var seed []todo.Item
	if cfg.SeedWelcome {
		seed = welcomeSeed(time.Now())
	}

	store, err := storage.NewStore(backend, storage.StoreOptions{
		Key:    cfg.Storage.Key,
		Seed:   seed,
		Logger: log.With(zap.String("backend", cfg.Storage.Backend)),
	})
	if err != nil {
		backend.Close()
		return nil, err
	}
	return store, nil
}

// welcomeSeed is the list a brand new user starts with.
func welcomeSeed(now time.Time) []todo.Item {
	return []todo.Item{{
		ID:        1,
		Task:      "Welcome! This is your first task",
		Status:    todo.StatusActive,
		Priority:  todo.PriorityMedium,
		DueDate:   dates.Format(dates.AddDays(now, 7)),
		CreatedAt: now.UnixMilli(),
	}}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}
