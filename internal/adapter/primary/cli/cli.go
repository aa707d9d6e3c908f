package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"client-manager/internal/adapter/primary/gui"
	"client-manager/internal/adapter/primary/web"
	"client-manager/internal/adapter/secondary/repository"
	"client-manager/internal/adapter/secondary/sqlstore"
	"client-manager/internal/config"
	"client-manager/internal/domain"
	"client-manager/internal/logging"
	"client-manager/internal/usecase"
)

var (
	settings    config.Settings
	settingsErr error
	verbosity   int
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "client-manager",
		Short:        "Manage named client devices and their frequency ranges",
		Long:         "Device registry with a single-draft editor, usable from the command line, a web UI or a desktop window",
		SilenceUsage: true,
	}

	settings, settingsErr = config.Load()
	flags := cmd.PersistentFlags()
	flags.StringVar(&settings.StatePath, "state", settings.StatePath, "path of the state file (.json or .yaml)")
	flags.StringVar(&settings.Store, "store", settings.Store, "state store: file or sql")
	flags.StringVar(&settings.DBDriver, "driver", settings.DBDriver, "database driver for the sql store (sqlite3 or postgres)")
	flags.StringVar(&settings.DBDSN, "dsn", settings.DBDSN, "database DSN for the sql store")
	flags.BoolVar(&settings.Autosave, "autosave", settings.Autosave, "save after every change in web and gui mode")
	flags.CountVarP(&verbosity, "verbose", "v", "increase logging verbosity (-v, -vv, ... up to 4 times)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if settingsErr != nil {
			return settingsErr
		}
		if !cmd.Flags().Changed("verbose") && settings.LogLevel != "" {
			_, count, err := logging.ParseLevel(settings.LogLevel)
			if err != nil {
				return err
			}
			verbosity = count
		}
		logging.SetVerbosity(verbosity)
		return settings.Validate()
	}

	cmd.AddCommand(
		newListCmd(),
		newNewCmd(),
		newDraftCmd(),
		newFinishCmd(),
		newCancelCmd(),
		newRangeCmd(),
		newRemoveCmd(),
		newStateCmd(),
		newWebCmd(),
		newGUICmd(),
		newShellCmd(),
	)

	return cmd
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openRepository builds the secondary adapter selected by the settings.
func openRepository() (domain.StateRepository, io.Closer, error) {
	if settings.Store == config.StoreSQL {
		store, err := sqlstore.New(settings.DBDriver, settings.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
	repo, err := repository.NewFileRepository(settings.StatePath)
	if err != nil {
		return nil, nil, err
	}
	return repo, nopCloser{}, nil
}

func openManager(opts usecase.Options) (usecase.ClientManager, io.Closer, error) {
	repo, closer, err := openRepository()
	if err != nil {
		return nil, nil, err
	}
	uc, err := usecase.NewClientManager(repo, opts)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return uc, closer, nil
}

// withManager loads the state, runs fn and saves the result even when fn failed,
// so a rejected commit still records its warning.
func withManager(fn func(uc usecase.ClientManager) error) error {
	uc, closer, err := openManager(usecase.Options{})
	if err != nil {
		return err
	}
	defer closer.Close()

	runErr := fn(uc)
	if err := uc.Close(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// readManager loads the state for fn without writing it back.
func readManager(fn func(uc usecase.ClientManager) error) error {
	uc, closer, err := openManager(usecase.Options{})
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(uc)
}

func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid device index %q", arg)
	}
	return i, nil
}

func newWebCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the web UI and REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closer, err := openManager(usecase.Options{Autosave: settings.Autosave})
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			srv := web.NewServer(uc, settings.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "Client manager UI running at http://%s\n", settings.Addr)
			logging.Infof("Web UI: http://%s (store=%s)", settings.Addr, settings.Store)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return uc.Close()
		},
	}
	cmd.Flags().StringVar(&settings.Addr, "addr", settings.Addr, "HTTP listen address:port")
	return cmd
}

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closer, err := openManager(usecase.Options{Autosave: settings.Autosave})
			if err != nil {
				return err
			}
			defer closer.Close()

			gui.Run(uc)
			return uc.Close()
		},
	}
}
