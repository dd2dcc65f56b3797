package main

import (
	"context"
	"fmt"
	"io"

	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/report"
	"github.com/oilslickpad/storeops/internal/service"
)

const (
	tool      = "pdp-audit"
	bottomN   = 30
	titleCols = 60
)

func main() {
	var vendor string
	cmd := cli.Command(tool, "Score product detail pages 0-100, worst first", func(ctx context.Context, app *cli.App, opts cli.Options) error {
		return run(ctx, app, opts, vendor)
	})
	cmd.Flags().StringVar(&vendor, "vendor", "What You Need", "only score this vendor's products (empty for all)")
	cli.Main(cmd)
}

func run(ctx context.Context, app *cli.App, opts cli.Options, vendor string) error {
	if !opts.JSON {
		fmt.Printf("🔎 PDP audit, vendor %q\n", vendor)
	}

	runID := app.StartRun(ctx, tool, opts)
	rep, err := service.NewPDPAudit(app.Shopify, app.Logger).Run(ctx, vendor, service.RunOptions{RunID: runID, Max: opts.Max})
	if err != nil {
		app.FailRun(ctx, runID, err)
		return err
	}
	app.FinishRun(ctx, runID, map[string]interface{}{
		"scanned":        rep.Scanned,
		"average":        rep.Average,
		"active_average": rep.ActiveAverage,
	})

	return app.Output(opts, tool, rep, func(w io.Writer) {
		fmt.Fprintln(w, "\nScore distribution:")
		for _, b := range service.Brackets {
			fmt.Fprintf(w, "  %6s: %4d\n", b, rep.Brackets[b])
		}

		fmt.Fprintf(w, "\nBottom %d active pages:\n", bottomN)
		shown := 0
		for _, p := range rep.Pages {
			if p.Status != "active" {
				continue
			}
			shown++
			fmt.Fprintf(w, "%2d. [%3d] %-*s (%dw, %dimg)\n", shown, p.Score, titleCols, truncate(p.Title, titleCols), p.WordCount, p.ImageCount)
			if shown == bottomN {
				break
			}
		}

		report.PrintSummary(w, "PDP AUDIT SUMMARY",
			report.Stat{Label: "Pages scored", Value: rep.Scanned},
			report.Stat{Label: "Average score", Value: fmt.Sprintf("%.1f", rep.Average)},
			report.Stat{Label: "Active average", Value: fmt.Sprintf("%.1f", rep.ActiveAverage)},
		)
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
