package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lachiem1/tally/internal/chart"
	"github.com/lachiem1/tally/internal/storage"
)

// CreateChartCmd creates the chart command.
func CreateChartCmd() *cobra.Command {
	var r chartRunner
	c := &cobra.Command{
		Use:   "chart",
		Short: "print the balance chart axes and closing balances for a scope",
		Long: `Print the fully drawn balance chart for a scope as text: the axis bounds,
the gridline labels, the date range and each method's closing balance.
Methods switched off in the TUI are listed but not drawn.`,

		Args: cobra.NoArgs,
		Run:  r.run,
	}
	r.setupFlags(c)
	return c
}

type chartRunner struct {
	scope scopeFlags
	color bool
}

func (r *chartRunner) setupFlags(c *cobra.Command) {
	r.scope.setup(c, chart.ModeMonthly)
	c.Flags().BoolVar(&r.color, "color", true, "print output in color")
}

func (r *chartRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *chartRunner) execute(cmd *cobra.Command) error {
	if !r.color {
		color.NoColor = true
	}
	scope, err := r.scope.value()
	if err != nil {
		return err
	}
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	snapshot, roster, err := storage.NewLedgerRepo(a.db).Snapshot(cmd.Context(), scope)
	if err != nil {
		return err
	}
	prefs, err := storage.NewAppConfigRepo(a.db).ChartPrefs(cmd.Context())
	if err != nil {
		return err
	}
	frame, err := chart.Build(chart.Input{
		Snapshot:  snapshot,
		Methods:   roster,
		Activated: prefs.Activation(roster),
	}, nil)
	if err != nil {
		return err
	}
	a.logger.Debug("chart printed", zap.Stringer("scope", scope), zap.Int("days", frame.DrawnDays))
	return printFrame(cmd.OutOrStdout(), scope, frame)
}

func printFrame(out io.Writer, scope chart.Scope, frame chart.Frame) error {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", bold("scope"), scope)
	if len(frame.Axis.DateLabels) == 2 {
		fmt.Fprintf(w, "%s\t%s .. %s (%d days)\n", bold("dates"), frame.Axis.DateLabels[0], frame.Axis.DateLabels[1], frame.DrawnDays)
	} else {
		fmt.Fprintf(w, "%s\t%s\n", bold("dates"), dim("no transactions in scope"))
	}
	fmt.Fprintf(w, "%s\t%.2f\n", bold("low"), frame.Axis.Low)
	fmt.Fprintf(w, "%s\t%.2f\n", bold("high"), frame.Axis.High)
	fmt.Fprintf(w, "%s\t%s\n", bold("labels"), strings.Join(frame.Axis.Labels, " "))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, s := range frame.Series {
		if !s.Activated {
			fmt.Fprintf(w, "%s\t%s\n", dim(s.Method), dim("hidden"))
			continue
		}
		last := s.Points[len(s.Points)-1].Y
		name := color.New(color.FgHiWhite).Sprint(s.Method)
		value := fmt.Sprintf("%.2f", last)
		if last < 0 {
			value = color.RedString(value)
		}
		fmt.Fprintf(w, "%s\t%s\n", name, value)
	}
	return w.Flush()
}
