package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/report"
	"github.com/oilslickpad/storeops/internal/service"
)

const tool = "classify-products"

func main() {
	cli.Main(cli.Command(tool, "Assign family, pillar and use tags to products without a family", run))
}

func run(ctx context.Context, app *cli.App, opts cli.Options) error {
	if !opts.JSON {
		fmt.Printf("🧭 Product classification (%s)\n", opts.Mode())
	}

	runID := app.StartRun(ctx, tool, opts)
	classification := service.NewClassificationRun(app.Shopify, app.Classifier, app.Repos.Audit, app.Logger)
	rep, err := classification.Run(ctx, service.RunOptions{RunID: runID, Apply: opts.Writes(), Max: opts.Max})
	if err != nil {
		app.FailRun(ctx, runID, err)
		return err
	}
	app.FinishRun(ctx, runID, map[string]interface{}{
		"untagged":   rep.Untagged,
		"classified": rep.Classified,
		"unmatched":  rep.Unmatched,
		"fixed":      rep.Fixed,
		"failed":     rep.Failed,
	})

	return app.Output(opts, tool, rep, func(w io.Writer) {
		for _, c := range rep.Results {
			if !c.Matched {
				fmt.Fprintf(w, "   ❓ %d %s: no family matched\n", c.ProductID, c.Title)
				continue
			}
			fmt.Fprintf(w, "   ✅ %d %s → %s (%s, confidence %.2f, matches: %s)\n",
				c.ProductID, c.Title, c.Result.Family, c.Result.Source, c.Result.Confidence,
				strings.Join(c.Result.Matches, ", "))
			if len(c.Added) > 0 {
				fmt.Fprintf(w, "      add: %s\n", strings.Join(c.Added, ", "))
			}
		}
		report.PrintSummary(w, "CLASSIFICATION SUMMARY",
			report.Stat{Label: "Products scanned", Value: rep.Scanned},
			report.Stat{Label: "Without family", Value: rep.Untagged},
			report.Stat{Label: "Classified", Value: rep.Classified},
			report.Stat{Label: "Unmatched", Value: rep.Unmatched},
			report.Stat{Label: "Fixed", Value: rep.Fixed},
			report.Stat{Label: "Failed", Value: rep.Failed},
			report.Stat{Label: "Skipped (dry run)", Value: rep.Skipped},
		)
	})
}
