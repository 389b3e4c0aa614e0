package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lachiem1/tally/internal/config"
	"github.com/lachiem1/tally/internal/storage"
)

// CreateDBCmd creates the db command group.
func CreateDBCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db",
		Short: "manage the local database",
	}
	c.AddCommand(&cobra.Command{
		Use:   "wipe",
		Short: "delete the local database files",

		Args: cobra.NoArgs,
		Run:  runDBWipe,
	})
	c.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "print the configured database path",

		Args: cobra.NoArgs,
		Run:  runDBPath,
	})
	return c
}

func runDBWipe(cmd *cobra.Command, args []string) {
	if err := executeDBWipe(cmd); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func executeDBWipe(cmd *cobra.Command) error {
	cfg, err := config.LoadDB()
	if err != nil {
		return err
	}
	wiped, err := storage.Wipe(cfg)
	if err != nil {
		return err
	}
	if !wiped {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to wipe")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wiped %s\n", cfg.Path)
	return nil
}

func runDBPath(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadDB()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", cfg.Path, cfg.Mode)
}
