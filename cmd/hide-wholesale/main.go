package main

import (
	"context"
	"fmt"
	"io"

	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/report"
	"github.com/oilslickpad/storeops/internal/service"
)

const tool = "hide-wholesale"

func main() {
	cli.Main(cli.Command(tool, "Draft wholesale/bulk listings and strip dollar amounts from titles", run))
}

func run(ctx context.Context, app *cli.App, opts cli.Options) error {
	if !opts.JSON {
		fmt.Printf("📦 Wholesale cleanup (%s)\n", opts.Mode())
	}

	runID := app.StartRun(ctx, tool, opts)
	cleanup := service.NewWholesaleCleanup(app.Shopify, app.Repos.Audit, app.Logger)
	rep, err := cleanup.Run(ctx, service.RunOptions{RunID: runID, Apply: opts.Writes(), Max: opts.Max})
	if err != nil {
		app.FailRun(ctx, runID, err)
		return err
	}
	app.FinishRun(ctx, runID, map[string]interface{}{
		"drafts":         rep.Drafts,
		"titles_cleaned": rep.TitlesCleaned,
		"fixed":          rep.Fixed,
		"failed":         rep.Failed,
	})

	return app.Output(opts, tool, rep, func(w io.Writer) {
		for _, c := range rep.Changes {
			marker := "•"
			switch {
			case c.Applied:
				marker = "✅"
			case c.Error != "":
				marker = "❌"
			}
			label := "draft"
			if c.Action == domain.AuditActionTitleClean {
				label = "title"
			}
			fmt.Fprintf(w, "   %s %d %s: %q → %q\n", marker, c.ProductID, label, c.From, c.To)
		}
		report.PrintSummary(w, "WHOLESALE CLEANUP SUMMARY",
			report.Stat{Label: "Active products scanned", Value: rep.Scanned},
			report.Stat{Label: "Wholesale drafts", Value: rep.Drafts},
			report.Stat{Label: "Titles cleaned", Value: rep.TitlesCleaned},
			report.Stat{Label: "Fixed", Value: rep.Fixed},
			report.Stat{Label: "Failed", Value: rep.Failed},
			report.Stat{Label: "Skipped (dry run)", Value: rep.Skipped},
		)
	})
}
