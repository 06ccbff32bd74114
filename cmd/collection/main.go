// Command collection operates the collection persistence layer: it applies
// the schema, stores payments and runs searches and lookups against the
// configured database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/erlove000/business-services/internal/config"
	"github.com/erlove000/business-services/internal/errs"
	"github.com/erlove000/business-services/internal/lib/utils"
	"github.com/erlove000/business-services/internal/repository"
	"github.com/erlove000/business-services/internal/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	loggerPkg "github.com/erlove000/business-services/internal/logger"
)

var (
	// Version information (set by build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError writes err to w as a coded error document. Errors that carry
// no code are reported as internal errors with their message kept.
func reportError(w io.Writer, err error) {
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		appErr = errs.NewInternalServerError(err).WithMessage(err.Error())
	}
	if printErr := utils.PrintJSON(w, appErr); printErr != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// app carries what every command needs once configuration is loaded.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	loggerService *loggerPkg.LoggerService
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "collection",
		Short:         "Collection persistence tooling",
		Long:          "Stores and searches payments, their receipts and the bills they settle.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.AddCommand(newMigrateCommand(a))
	rootCmd.AddCommand(newHealthCommand(a))
	rootCmd.AddCommand(newSaveCommand(a))
	rootCmd.AddCommand(newSearchCommand(a))
	rootCmd.AddCommand(newLookupCommand(a))

	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.loggerService = loggerPkg.NewLoggerService(cfg.Observability)
	a.logger = loggerPkg.NewLoggerWithService(cfg.Observability, a.loggerService).
		With().
		Str("run_id", uuid.NewString()).
		Logger()
	return nil
}

// withServer opens the database for the duration of fn.
func (a *app) withServer(fn func(*server.Server) error) error {
	srv, err := server.New(a.cfg, &a.logger, a.loggerService)
	if err != nil {
		a.loggerService.Shutdown()
		return err
	}
	defer func() {
		if err := srv.Shutdown(); err != nil {
			a.logger.Error().Err(err).Msg("failed to shut down")
		}
	}()

	return fn(srv)
}

func (a *app) withRepositories(fn func(*repository.Repositories) error) error {
	return a.withServer(func(srv *server.Server) error {
		return fn(repository.NewRepositories(srv))
	})
}
