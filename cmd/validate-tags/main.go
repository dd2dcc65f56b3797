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

const tool = "validate-tags"

func main() {
	cli.Main(cli.Command(tool, "Validate product tags against the taxonomy and apply CRITICAL/HIGH fixes", run))
}

func run(ctx context.Context, app *cli.App, opts cli.Options) error {
	if !opts.JSON {
		fmt.Printf("🏷️  Tag validation (%s)\n", opts.Mode())
	}

	runID := app.StartRun(ctx, tool, opts)
	auditor := service.NewTagAuditor(app.Shopify, app.Classifier, app.Repos.Audit, app.Logger)
	rep, err := auditor.Run(ctx, service.RunOptions{RunID: runID, Apply: opts.Writes(), Max: opts.Max})
	if err != nil {
		app.FailRun(ctx, runID, err)
		return err
	}
	app.FinishRun(ctx, runID, map[string]interface{}{
		"scanned":     rep.Scanned,
		"with_issues": rep.WithIssues,
		"fixed":       rep.Fixed,
		"failed":      rep.Failed,
	})

	return app.Output(opts, tool, rep, func(w io.Writer) {
		report.PrintIssues(w, rep.Issues())
		changed := 0
		for _, f := range rep.Findings {
			if f.After == nil {
				continue
			}
			if changed == 0 {
				fmt.Fprintln(w, "\n🔧 Tag changes")
			}
			changed++
			fmt.Fprintf(w, "   %d %s\n      before: %s\n      after:  %s\n",
				f.ProductID, f.Title, strings.Join(f.Before, ", "), strings.Join(f.After, ", "))
		}
		report.PrintSummary(w, "TAG VALIDATION SUMMARY",
			report.Stat{Label: "Products scanned", Value: rep.Scanned},
			report.Stat{Label: "With issues", Value: rep.WithIssues},
			report.Stat{Label: "Critical", Value: rep.BySeverity[domain.SeverityCritical]},
			report.Stat{Label: "High", Value: rep.BySeverity[domain.SeverityHigh]},
			report.Stat{Label: "Medium", Value: rep.BySeverity[domain.SeverityMedium]},
			report.Stat{Label: "Low", Value: rep.BySeverity[domain.SeverityLow]},
			report.Stat{Label: "Fixed", Value: rep.Fixed},
			report.Stat{Label: "Failed", Value: rep.Failed},
			report.Stat{Label: "Skipped (dry run)", Value: rep.Skipped},
		)
	})
}
