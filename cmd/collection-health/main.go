package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/report"
	"github.com/oilslickpad/storeops/internal/service"
)

const tool = "collection-health"

func main() {
	cli.Main(cli.Command(tool, "Diff live collections against the definitions table and fix drift", run))
}

func run(ctx context.Context, app *cli.App, opts cli.Options) error {
	if !opts.JSON {
		fmt.Printf("🩺 Collection health check (%s)\n", opts.Mode())
		if opts.Collection != "" {
			fmt.Printf("   Only: %s\n", opts.Collection)
		}
	}

	runID := app.StartRun(ctx, tool, opts)
	monitor := service.NewHealthMonitor(app.Shopify, app.Catalog, app.Config.Health, app.Repos.Audit, app.Logger)
	rep, err := monitor.Run(ctx, service.RunOptions{
		RunID:      runID,
		Apply:      opts.Writes(),
		Collection: opts.Collection,
	})
	if err != nil {
		app.FailRun(ctx, runID, err)
		return err
	}
	app.FinishRun(ctx, runID, map[string]interface{}{
		"issues":              len(rep.Issues),
		"fixed":               rep.Fixed,
		"failed":              rep.Failed,
		"skipped":             rep.Skipped,
		"unresolved_critical": rep.UnresolvedCritical,
	})

	err = app.Output(opts, tool, rep, func(w io.Writer) {
		report.PrintIssues(w, rep.Issues)
		if len(rep.Patches) > 0 {
			fmt.Fprintln(w, "\n🔧 Patches")
			for _, p := range rep.Patches {
				status := "planned"
				switch {
				case p.Applied:
					status = "✅ applied"
				case p.Error != "":
					status = "❌ " + p.Error
				}
				fmt.Fprintf(w, "   %s [%s]: %s\n", p.Handle, strings.Join(p.Fields, ", "), status)
			}
		}
		report.PrintSummary(w, "COLLECTION HEALTH SUMMARY",
			report.Stat{Label: "Products in store", Value: rep.TotalProducts},
			report.Stat{Label: "Live collections", Value: rep.LiveCollections},
			report.Stat{Label: "Definitions checked", Value: rep.Checked},
			report.Stat{Label: "Critical", Value: rep.BySeverity[domain.SeverityCritical]},
			report.Stat{Label: "High", Value: rep.BySeverity[domain.SeverityHigh]},
			report.Stat{Label: "Medium", Value: rep.BySeverity[domain.SeverityMedium]},
			report.Stat{Label: "Low", Value: rep.BySeverity[domain.SeverityLow]},
			report.Stat{Label: "Fixed", Value: rep.Fixed},
			report.Stat{Label: "Failed", Value: rep.Failed},
			report.Stat{Label: "Skipped (dry run)", Value: rep.Skipped},
		)
	})
	if err != nil {
		return err
	}

	if rep.HasCritical() {
		return fmt.Errorf("%w: %d", cli.ErrCriticalIssues, rep.UnresolvedCritical)
	}
	return nil
}
