package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/storage"
)

// CreateAddCmd creates the add command.
func CreateAddCmd() *cobra.Command {
	var r addRunner
	c := &cobra.Command{
		Use:   "add",
		Short: "record an income or expense",
		Long:  `Record an income or expense against a payment method. The date defaults to today.`,

		Args: cobra.NoArgs,
		Run:  r.run,
	}
	r.setupFlags(c)
	return c
}

type addRunner struct {
	date    DateFlag
	method  string
	amount  AmountFlag
	kind    string
	details string
	tags    string
}

func (r *addRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.date, "date", "transaction date (default today)")
	c.Flags().StringVarP(&r.method, "method", "m", "", "payment method")
	c.Flags().VarP(&r.amount, "amount", "a", "amount, always positive")
	c.Flags().StringVarP(&r.kind, "type", "t", "expense", "income or expense")
	c.Flags().StringVarP(&r.details, "details", "d", "", "free text details")
	c.Flags().StringVar(&r.tags, "tags", "", "comma separated tags")
	c.MarkFlagRequired("method")
	c.MarkFlagRequired("amount")
}

func (r *addRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *addRunner) execute(cmd *cobra.Command) error {
	kind, err := storage.ParseTxType(r.kind)
	if err != nil {
		return err
	}
	if kind == storage.TxTransfer {
		return errors.New("use `tally transfer` to move money between methods")
	}
	return addTransaction(cmd, storage.Transaction{
		Date:    r.date.ValueOr(today()),
		Details: r.details,
		Method:  r.method,
		Amount:  r.amount.Value(),
		Type:    kind,
		Tags:    r.tags,
	})
}

// CreateTransferCmd creates the transfer command.
func CreateTransferCmd() *cobra.Command {
	var r transferRunner
	c := &cobra.Command{
		Use:   "transfer",
		Short: "move money between two payment methods",

		Args: cobra.NoArgs,
		Run:  r.run,
	}
	r.setupFlags(c)
	return c
}

type transferRunner struct {
	date     DateFlag
	from, to string
	amount   AmountFlag
	details  string
	tags     string
}

func (r *transferRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.date, "date", "transfer date (default today)")
	c.Flags().StringVar(&r.from, "from", "", "source payment method")
	c.Flags().StringVar(&r.to, "to", "", "destination payment method")
	c.Flags().VarP(&r.amount, "amount", "a", "amount, always positive")
	c.Flags().StringVarP(&r.details, "details", "d", "", "free text details")
	c.Flags().StringVar(&r.tags, "tags", "", "comma separated tags")
	c.MarkFlagRequired("from")
	c.MarkFlagRequired("to")
	c.MarkFlagRequired("amount")
}

func (r *transferRunner) run(cmd *cobra.Command, args []string) {
	err := addTransaction(cmd, storage.Transaction{
		Date:     r.date.ValueOr(today()),
		Details:  r.details,
		Method:   r.from,
		ToMethod: r.to,
		Amount:   r.amount.Value(),
		Type:     storage.TxTransfer,
		Tags:     r.tags,
	})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func addTransaction(cmd *cobra.Command, tx storage.Transaction) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	id, err := storage.NewTransactionsRepo(a.db).Add(cmd.Context(), tx)
	if err != nil {
		return err
	}
	a.logger.Info(
		"transaction added",
		zap.Int64("id", id),
		zap.String("type", string(tx.Type)),
		zap.String("method", tx.Method),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "added %s #%d: %s %s\n", tx.Type, id, tx.Amount.StringFixed(2), tx.Date.Format(storage.DateLayout))
	return nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
