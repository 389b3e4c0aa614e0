package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/storage"
)

// CreateImportCmd creates the import command.
func CreateImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.csv",
		Short: "import transactions from a CSV file",
		Long: `Import transactions from a CSV file with the columns
date,details,method,amount,type[,to_method,tags]. A header row is optional.
Every bad row is reported and nothing is imported unless all rows are valid.`,

		Args: cobra.ExactArgs(1),
		Run:  runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) {
	if err := executeImport(cmd, args[0]); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func executeImport(cmd *cobra.Command, path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	txs, err := parseCSV(f)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := storage.NewTransactionsRepo(a.db).AddBatch(cmd.Context(), txs); err != nil {
		return err
	}
	a.logger.Info("csv import finished", zap.String("path", path), zap.Int("transactions", len(txs)))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions\n", len(txs))
	return nil
}

type column int

const (
	colDate column = iota
	colDetails
	colMethod
	colAmount
	colType
	colToMethod
	colTags
)

var csvHeader = []string{"date", "details", "method", "amount", "type", "to_method", "tags"}

// parseCSV reads every row and returns all row errors combined.
func parseCSV(r io.Reader) ([]storage.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var (
		txs  []storage.Transaction
		errs error
	)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), csvHeader[colDate]) {
			continue
		}
		tx, err := parseRecord(record)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		txs = append(txs, tx)
	}
	if errs != nil {
		return nil, errs
	}
	return txs, nil
}

func parseRecord(record []string) (storage.Transaction, error) {
	if len(record) < int(colToMethod) || len(record) > len(csvHeader) {
		return storage.Transaction{}, fmt.Errorf("got %d fields, want 5 to %d", len(record), len(csvHeader))
	}
	field := func(c column) string {
		if int(c) >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[c])
	}

	d, err := time.Parse(storage.DateLayout, field(colDate))
	if err != nil {
		return storage.Transaction{}, fmt.Errorf("invalid date %q", field(colDate))
	}
	amount, err := decimal.NewFromString(field(colAmount))
	if err != nil {
		return storage.Transaction{}, fmt.Errorf("invalid amount %q", field(colAmount))
	}
	kind, err := storage.ParseTxType(field(colType))
	if err != nil {
		return storage.Transaction{}, err
	}
	return storage.Transaction{
		Date:     d,
		Details:  field(colDetails),
		Method:   field(colMethod),
		ToMethod: field(colToMethod),
		Amount:   amount,
		Type:     kind,
		Tags:     field(colTags),
	}, nil
}
