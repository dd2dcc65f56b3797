package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oilslickpad/storeops/internal/report"
)

// RunFunc is the body of a tool
type RunFunc func(ctx context.Context, app *App, opts Options) error

// Command builds a tool command with the shared flags. The App is bootstrapped
// before run and closed after it.
func Command(use, short string, run RunFunc) *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := Bootstrap(ctx)
			if err != nil {
				return err
			}
			defer app.Close()
			return run(ctx, app, opts)
		},
	}
	opts.Bind(cmd)
	return cmd
}

// Main executes cmd, cancelling on SIGINT/SIGTERM, and exits 1 on any error
func Main(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	if errors.Is(err, ErrCriticalIssues) {
		fmt.Fprintf(os.Stderr, "🚨 %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	}
	os.Exit(1)
}

// Output prints v as JSON with --json, otherwise through render, and writes the
// report file with --report
func (a *App) Output(opts Options, name string, v interface{}, render func(w io.Writer)) error {
	if opts.JSON {
		if err := report.PrintJSON(os.Stdout, v); err != nil {
			return err
		}
	} else {
		render(os.Stdout)
	}

	if opts.Report {
		path, err := a.WriteReport(name, v)
		if err != nil {
			return err
		}
		// keep stdout clean JSON in --json mode
		out := io.Writer(os.Stdout)
		if opts.JSON {
			out = os.Stderr
		}
		fmt.Fprintf(out, "📄 Report written to %s\n", path)
	}
	return nil
}
