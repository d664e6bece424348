// Package migrate holds the database migration commands.
package migrate

import (
	"context"

	"github.com/ncobase/cookscorner/data"
	"github.com/spf13/cobra"
)

// Opener opens the configured data layer; the returned func releases it.
type Opener func(ctx context.Context) (*data.Data, func(), error)

// NewCommand creates a new migrate command
func NewCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Database migration commands",
		Long:    `Apply, roll back and inspect the embedded schema migrations.`,
	}

	cmd.AddCommand(
		newRunCommand(open, "up", "Apply every pending migration", (*data.Data).MigrateUp),
		newRunCommand(open, "down", "Roll back the last migration", (*data.Data).MigrateDown),
		newRunCommand(open, "status", "Show the state of each migration", (*data.Data).MigrateStatus),
		newCreateCommand(),
	)

	return cmd
}

func newRunCommand(open Opener, use, short string, run func(*data.Data, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			d, cleanup, err := open(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return run(d, ctx)
		},
	}
}
