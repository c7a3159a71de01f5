package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheBiochemic/tickets/internal/adapter"
	"github.com/TheBiochemic/tickets/internal/config"
	"github.com/TheBiochemic/tickets/internal/store"
)

// newFormatter creates the formatter for one command run.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadConfig loads the configuration and applies the --db override.
// Failures are reported through formatter.
func loadConfig(opts *RootOptions, formatter *OutputFormatter) (*config.Config, error) {
	cfg, path, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if path != "" {
		formatter.VerboseLog("Using config %s", path)
	}
	if opts.Database != "" {
		cfg.Database.Path = opts.Database
	}
	return cfg, nil
}

// openStore opens the configured database. A database file that did not
// exist before is seeded when database.include_default_data is set.
func openStore(ctx context.Context, cfg *config.Config, formatter *OutputFormatter) (*store.Store, error) {
	_, statErr := os.Stat(cfg.Database.Path)
	created := errors.Is(statErr, os.ErrNotExist)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), map[string]string{"path": cfg.Database.Path})
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	if created && cfg.Database.IncludeDefaultData {
		slog.Info("seeding new database", "path", cfg.Database.Path, "adapter", cfg.Adapter.Name)
		if err := st.Seed(ctx, cfg.Adapter.Name); err != nil {
			st.Close()
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "failed to seed database", err)
		}
	}
	return st, nil
}

// openAdapter loads config and opens the database behind a new adapter.
// The caller closes the returned store.
func openAdapter(ctx context.Context, opts *RootOptions, formatter *OutputFormatter) (*adapter.Adapter, *store.Store, error) {
	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(ctx, cfg, formatter)
	if err != nil {
		return nil, nil, err
	}
	return adapter.New(st, cfg), st, nil
}

// closeStore closes st, logging a failure.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// reportAdapterError prints err and maps it to an exit error.
func reportAdapterError(formatter *OutputFormatter, err error) error {
	var ae *adapter.Error
	if !errors.As(err, &ae) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "command failed", err)
	}

	var details any
	if ae.Filter != "" {
		details = map[string]string{"filter": ae.Filter}
	}

	switch ae.Code {
	case adapter.ErrCodeExpression:
		_ = formatter.Error(ErrCodeExpression, ae.Message, details)
		return WrapExitError(ExitFailure, "invalid filter expression", err)
	case adapter.ErrCodeReadOnly:
		_ = formatter.Error(ErrCodeReadOnly, ae.Error(), details)
		return WrapExitError(ExitFailure, "filter is read only", err)
	case adapter.ErrCodeNotFound:
		_ = formatter.Error(ErrCodeNotFound, ae.Error(), details)
		return WrapExitError(ExitCommandError, "filter not found", err)
	default:
		_ = formatter.Error(ErrCodeDatabase, ae.Error(), details)
		return WrapExitError(ExitCommandError, "database error", err)
	}
}

// commandContext returns the command's context or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
