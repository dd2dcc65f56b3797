package main

import (
	"context"
	"fmt"
	"io"

	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/report"
	"github.com/oilslickpad/storeops/internal/service"
)

const tool = "price-sync"

func main() {
	cli.Main(cli.Command(tool, "Compare WooCommerce prices and stock by SKU and correct Shopify prices", run))
}

func run(ctx context.Context, app *cli.App, opts cli.Options) error {
	source, err := app.WooCommerce()
	if err != nil {
		return err
	}
	if !opts.JSON {
		fmt.Printf("💲 Price sync (%s)\n", opts.Mode())
	}

	runID := app.StartRun(ctx, tool, opts)
	rep, err := service.NewPriceSync(app.Shopify, source, app.Repos.Audit, app.Logger).
		Run(ctx, service.RunOptions{RunID: runID, Apply: opts.Writes(), Max: opts.Max})
	if err != nil {
		app.FailRun(ctx, runID, err)
		return err
	}
	app.FinishRun(ctx, runID, map[string]interface{}{
		"matched":       rep.Matched,
		"price_changes": len(rep.PriceChanges),
		"fixed":         rep.Fixed,
		"failed":        rep.Failed,
	})

	return app.Output(opts, tool, rep, func(w io.Writer) {
		for _, c := range rep.PriceChanges {
			marker := "•"
			switch {
			case c.Applied:
				marker = "✅"
			case c.Error != "":
				marker = "❌"
			}
			fmt.Fprintf(w, "   %s %s %s: %s → %s\n", marker, c.SKU, c.Title, c.From, c.To)
		}
		if len(rep.StockMismatches) > 0 {
			fmt.Fprintln(w, "\n⚠️  Stock mismatches (report only)")
			for _, m := range rep.StockMismatches {
				fmt.Fprintf(w, "   %s: shopify %d, source %d\n", m.SKU, m.Shopify, m.Source)
			}
		}
		report.PrintSummary(w, "PRICE SYNC SUMMARY",
			report.Stat{Label: "Variants with SKU", Value: rep.Variants},
			report.Stat{Label: "Matched", Value: rep.Matched},
			report.Stat{Label: "Unmatched", Value: len(rep.Unmatched)},
			report.Stat{Label: "Price changes", Value: len(rep.PriceChanges)},
			report.Stat{Label: "Stock mismatches", Value: len(rep.StockMismatches)},
			report.Stat{Label: "Fixed", Value: rep.Fixed},
			report.Stat{Label: "Failed", Value: rep.Failed},
			report.Stat{Label: "Skipped (dry run)", Value: rep.Skipped},
		)
	})
}
