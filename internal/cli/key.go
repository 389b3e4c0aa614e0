package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lachiem1/tally/internal/auth"
	"github.com/lachiem1/tally/internal/config"
	"github.com/lachiem1/tally/internal/storage"
)

// CreateKeyCmd creates the key command group, which manages the secure
// mode encryption key.
func CreateKeyCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "key",
		Short: "manage the database encryption key used in secure mode",
	}
	c.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "store an encryption key in the system credential store",
		Long: `Read an encryption key from the terminal and store it in the system
credential store. Refused while a database exists, since it was encrypted
with the old key; run 'tally db wipe' first.`,

		Args: cobra.NoArgs,
		Run:  runKeySet,
	})
	c.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "remove the encryption key from the system credential store",

		Args: cobra.NoArgs,
		Run:  runKeyDelete,
	})
	return c
}

func runKeySet(cmd *cobra.Command, args []string) {
	if err := executeKeySet(cmd); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "key saved to your system credential store.")
}

func executeKeySet(cmd *cobra.Command) error {
	cfg, err := config.LoadDB()
	if err != nil {
		return err
	}
	exists, err := storage.Exists(cfg)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("a database already exists at %s; run `tally db wipe` before changing the key", cfg.Path)
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Enter db key: ")
	key, err := readSecret(cmd.InOrStdin())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	if strings.TrimSpace(key) == "" {
		return errors.New("empty key")
	}
	return auth.SaveDBKey(key)
}

func runKeyDelete(cmd *cobra.Command, args []string) {
	if err := auth.DeleteDBKey(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "key removed from your system credential store.")
}

// readSecret reads a line without echo when in is a terminal.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		value, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(value), nil
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}
