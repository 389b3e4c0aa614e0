package cli

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/chart"
	"github.com/lachiem1/tally/internal/storage"
)

// CreateExportCmd creates the export command.
func CreateExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE.csv]",
		Short: "export all transactions as CSV",
		Long:  `Export all transactions in the format read by import. Without a file the CSV goes to stdout; a file is replaced atomically.`,

		Args: cobra.MaximumNArgs(1),
		Run:  runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) {
	if err := executeExport(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func executeExport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	txs, err := storage.NewTransactionsRepo(a.db).List(cmd.Context(), chart.Scope{Mode: chart.ModeAllTime})
	if err != nil {
		return err
	}
	data, err := encodeCSV(txs)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := atomic.WriteFile(args[0], bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	a.logger.Info("csv export finished", zap.String("path", args[0]), zap.Int("transactions", len(txs)))
	fmt.Fprintf(cmd.ErrOrStderr(), "exported %d transactions to %s\n", len(txs), args[0])
	return nil
}

func encodeCSV(txs []storage.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		record := []string{
			tx.Date.Format(storage.DateLayout),
			tx.Details,
			tx.Method,
			tx.Amount.StringFixed(2),
			strings.ToLower(string(tx.Type)),
			tx.ToMethod,
			tx.Tags,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
