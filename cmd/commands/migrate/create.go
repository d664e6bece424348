package migrate

import (
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func newCreateCommand() *cobra.Command {
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new sequential SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goose.SetBaseFS(nil)
			goose.SetSequential(true)
			if err := goose.Create(nil, migrationsPath, args[0], "sql"); err != nil {
				return fmt.Errorf("failed to create migration file: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&migrationsPath, "path", "p", "data/migrations", "migrations directory path")
	return cmd
}
