package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/chart"
	"github.com/lachiem1/tally/internal/storage"
)

// scopeFlags selects a chart scope from the command line.
type scopeFlags struct {
	mode  ModeFlag
	year  int
	month int
}

func (s *scopeFlags) setup(c *cobra.Command, mode chart.Mode) {
	s.mode = ModeFlag(mode)
	now := today()
	c.Flags().Var(&s.mode, "mode", "aggregation mode")
	c.Flags().IntVar(&s.year, "year", now.Year(), "year for monthly and yearly modes")
	c.Flags().IntVar(&s.month, "month", int(now.Month()), "month (1-12) for monthly mode")
}

func (s scopeFlags) value() (chart.Scope, error) {
	if s.month < 1 || s.month > 12 {
		return chart.Scope{}, fmt.Errorf("month must be between 1 and 12, got %d", s.month)
	}
	return chart.Scope{
		Mode:  s.mode.Value(),
		Year:  s.year,
		Month: time.Month(s.month),
	}.Normalize(), nil
}

// CreateListCmd creates the list command.
func CreateListCmd() *cobra.Command {
	var r listRunner
	c := &cobra.Command{
		Use:   "list",
		Short: "list transactions",

		Args: cobra.NoArgs,
		Run:  r.run,
	}
	r.scope.setup(c, chart.ModeAllTime)
	return c
}

type listRunner struct {
	scope scopeFlags
}

func (r *listRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *listRunner) execute(cmd *cobra.Command) error {
	scope, err := r.scope.value()
	if err != nil {
		return err
	}
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	txs, err := storage.NewTransactionsRepo(a.db).List(cmd.Context(), scope)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tMETHOD\tAMOUNT\tDETAILS\t")
	for _, tx := range txs {
		method := tx.Method
		if tx.Type == storage.TxTransfer {
			method += " -> " + tx.ToMethod
		}
		fmt.Fprintf(
			w,
			"%d\t%s\t%s\t%s\t%s\t%s\t\n",
			tx.ID,
			tx.Date.Format(storage.DateLayout),
			tx.Type,
			method,
			tx.Amount.StringFixed(2),
			tx.Details,
		)
	}
	return w.Flush()
}

// CreateDeleteCmd creates the delete command.
func CreateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "delete a transaction",

		Args: cobra.ExactArgs(1),
		Run:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) {
	if err := executeDelete(cmd, args[0]); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func executeDelete(cmd *cobra.Command, raw string) error {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("parse transaction id %q: %w", raw, err)
	}
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := storage.NewTransactionsRepo(a.db).Delete(cmd.Context(), id); err != nil {
		return err
	}
	a.logger.Info("transaction deleted", zap.Int64("id", id))
	fmt.Fprintf(cmd.OutOrStdout(), "deleted transaction #%d\n", id)
	return nil
}
