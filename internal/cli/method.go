package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/storage"
)

// CreateMethodCmd creates the method command group.
func CreateMethodCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "method",
		Short: "manage payment methods",
	}
	c.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "add a payment method",

		Args: cobra.ExactArgs(1),
		Run:  runMethodAdd,
	})
	c.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list payment methods with their current balance",

		Args: cobra.NoArgs,
		Run:  runMethodList,
	})
	return c
}

func runMethodAdd(cmd *cobra.Command, args []string) {
	if err := executeMethodAdd(cmd, args[0]); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func executeMethodAdd(cmd *cobra.Command, name string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := storage.NewMethodsRepo(a.db).Add(cmd.Context(), name); err != nil {
		return err
	}
	a.logger.Info("payment method added", zap.String("name", name))
	fmt.Fprintf(cmd.OutOrStdout(), "added payment method %q\n", name)
	return nil
}

func runMethodList(cmd *cobra.Command, args []string) {
	if err := executeMethodList(cmd); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func executeMethodList(cmd *cobra.Command) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	balances, err := storage.NewLedgerRepo(a.db).Balances(cmd.Context())
	if err != nil {
		return err
	}
	red := color.New(color.FgRed).SprintFunc()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, b := range balances {
		amount := b.Balance.StringFixed(2)
		if b.Balance.IsNegative() {
			amount = red(amount)
		}
		fmt.Fprintf(w, "%s\t%s\n", b.Method, amount)
	}
	return w.Flush()
}
