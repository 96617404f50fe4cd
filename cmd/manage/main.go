// Command manage runs maintenance tasks against the configured store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taxifleet/config"
	"taxifleet/pkg/logger"
	"taxifleet/service"
	"taxifleet/storage"
	"taxifleet/storage/factory"
)

// app holds what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg config.Config
	log logger.ILogger
	stg storage.IStorage
	svc service.IServiceManager
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "manage",
		Short:         "Taxi fleet management commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			a.log = logger.New(a.cfg.ServiceName, a.cfg.LoggerLevel)

			stg, err := factory.New(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return fmt.Errorf("open %s storage: %w", a.cfg.DBDriver, err)
			}
			a.stg = stg
			a.svc = service.New(stg, a.log, service.Options{PaginateBy: a.cfg.PaginateBy})
			return nil
		},
	}

	rootCmd.AddCommand(
		newMigrateCmd(a),
		newCreateDriverCmd(a),
		newResetDBCmd(a),
		newSeedCmd(a),
	)
	return rootCmd, a
}

// close releases the store opened for the command, if any.
func (a *app) close() {
	if a.stg != nil {
		a.stg.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func main() {
	cmd, a := newRootCmd()
	err := cmd.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
