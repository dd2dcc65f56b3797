// Package cli holds the flag set and bootstrap shared by every tool.
package cli

import (
	"github.com/spf13/cobra"
)

// Options are the flags every tool accepts
type Options struct {
	Execute    bool
	DryRun     bool
	Fix        bool
	Report     bool
	JSON       bool
	Max        int
	Collection string
}

// Bind registers the shared flags on cmd
func (o *Options) Bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&o.Execute, "execute", false, "perform writes against the store")
	f.BoolVar(&o.DryRun, "dry-run", false, "print intended changes only (overrides --execute and --fix)")
	f.BoolVar(&o.Fix, "fix", false, "apply auto-fixable corrections")
	f.BoolVar(&o.Report, "report", false, "write a JSON report to REPORT_DIR")
	f.BoolVar(&o.JSON, "json", false, "print the report as JSON instead of text")
	f.IntVar(&o.Max, "max", 0, "maximum number of products to process (0 = all)")
	f.StringVar(&o.Collection, "collection", "", "only check the collection with this handle")
}

// Writes reports whether the run may write. --dry-run always wins.
func (o Options) Writes() bool {
	if o.DryRun {
		return false
	}
	return o.Execute || o.Fix
}

// Mode is the human label of the run mode
func (o Options) Mode() string {
	if o.Writes() {
		return "EXECUTE"
	}
	return "DRY RUN"
}
