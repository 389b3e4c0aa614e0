// Package cli holds tally's cobra commands.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/config"
	"github.com/lachiem1/tally/internal/tui"
)

// CreateRootCmd creates the tally command tree. Without a subcommand it
// runs the TUI.
func CreateRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tally",
		Short: "tally is a terminal personal finance tracker",
		Long:  `tally tracks income, expenses and transfers across payment methods and charts their balances over time.`,

		Args:          cobra.NoArgs,
		Run:           runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		CreateAddCmd(),
		CreateTransferCmd(),
		CreateMethodCmd(),
		CreateListCmd(),
		CreateDeleteCmd(),
		CreateImportCmd(),
		CreateExportCmd(),
		CreateChartCmd(),
		CreateKeyCmd(),
		CreateDBCmd(),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	root := CreateRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) {
	if err := executeTUI(cmd); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func executeTUI(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info(
		"starting tui",
		zap.String("db_mode", string(cfg.DB.Mode)),
		zap.String("db_path", cfg.DB.Path),
		zap.Duration("frame_interval", cfg.FrameInterval),
	)
	p := tea.NewProgram(
		tui.New(tui.Options{DB: a.db, Logger: a.logger, FrameInterval: cfg.FrameInterval}),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
