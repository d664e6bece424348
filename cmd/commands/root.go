package commands

import (
	"context"
	"fmt"

	"github.com/ncobase/cookscorner/cmd/commands/migrate"
	"github.com/ncobase/cookscorner/config"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/spf13/cobra"

	_ "github.com/ncobase/cookscorner/data/all"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var confPath string

	rootCmd := &cobra.Command{
		Use:           "cookscorner",
		Short:         "Recipe sharing API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&confPath, "conf", "c", "", "path to the configuration file")

	load := func() (*config.Config, error) {
		return config.Init(confPath)
	}

	rootCmd.AddCommand(
		newServeCommand(load),
		newVersionCommand(),
		migrate.NewCommand(func(ctx context.Context) (*data.Data, func(), error) {
			cfg, err := load()
			if err != nil {
				return nil, nil, err
			}
			return openData(ctx, cfg)
		}),
	)

	return rootCmd
}

// openData initializes logging and opens the data layer described by cfg.
// The returned cleanup closes both.
func openData(ctx context.Context, cfg *config.Config) (*data.Data, func(), error) {
	closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	d, closeData, err := data.New(ctx, cfg.Data)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("data: %w", err)
	}
	return d, func() {
		closeData()
		closeLog()
	}, nil
}
