package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/oilslickpad/storeops/internal/cli"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/report"
)

const tool = "list-collections"

func main() {
	cli.Main(cli.Command(tool, "List live collections with their rules and product counts", run))
}

func run(ctx context.Context, app *cli.App, opts cli.Options) error {
	if !opts.JSON {
		fmt.Println("🔍 Fetching all collections from Shopify...")
		fmt.Println("")
	}

	collections, err := app.Shopify.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i].Handle < collections[j].Handle })

	return app.Output(opts, tool, collections, func(w io.Writer) {
		smart, defined := 0, 0
		for _, c := range collections {
			mark := "  "
			if _, ok := app.Catalog.Definition(c.Handle); ok {
				mark = "📌"
				defined++
			}
			if c.Type == domain.CollectionTypeSmart {
				smart++
			}
			fmt.Fprintf(w, "%s %-40s %-6s %5d products  %d rules  %s\n", mark, c.Handle, c.Type, c.ProductCount, len(c.Rules), c.SortOrder)
			for _, r := range c.Rules {
				fmt.Fprintf(w, "      %s %s %s\n", r.Column, r.Relation, r.Condition)
			}
		}
		report.PrintSummary(w, "COLLECTIONS",
			report.Stat{Label: "Total", Value: len(collections)},
			report.Stat{Label: "Smart", Value: smart},
			report.Stat{Label: "Custom", Value: len(collections) - smart},
			report.Stat{Label: "In definitions table", Value: defined},
		)
	})
}
