package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/inovacc/todo/internal/application"
	"github.com/inovacc/todo/internal/config"
	"github.com/inovacc/todo/internal/logging"
	"github.com/inovacc/todo/internal/service"
	"github.com/inovacc/todo/internal/store"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	env := &environment{}

	rootCmd := &cobra.Command{
		Use:   application.AppName,
		Short: "A single-user todo list",
		Long: `Todo keeps a single ordered todo list in a local database.

It serves a browser UI and JSON API, exports the list as a PDF and
offers a few commands for working with the list from the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env.configPath, "config", "c", "", "config file (.ini, .toml, .json)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newServeCmd(env),
		newListCmd(env),
		newAddCmd(env),
		newDoneCmd(env, true),
		newDoneCmd(env, false),
		newRemoveCmd(env),
		newReorderCmd(env),
		newProjectCmd(env),
		newExportCmd(env),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// environment resolves configuration for a command invocation.
type environment struct {
	configPath string
}

func (e *environment) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, nil, err
	}

	if err := cfg.Finalize(); err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

// session is an open store plus the services built on it.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   store.Store
	todos   *service.TodoService
	project *service.ProjectService
}

func (e *environment) open(cmd *cobra.Command) (*session, error) {
	cfg, logger, err := e.load(cmd)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store at %s: %w", cfg.Store.Driver, cfg.Store.Path, err)
	}

	logger.Debug("store opened", "driver", cfg.Store.Driver, "path", cfg.Store.Path)

	return &session{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		todos:   service.NewTodoService(st),
		project: service.NewProjectService(st),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close store", "error", err)
	}
}
