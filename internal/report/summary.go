package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/amount"
	"github.com/revipro-dev/revipro/internal/model"
)

// WriteSummary writes a human-readable overview of the rule results.
func WriteSummary(w io.Writer, a model.Analysis) error {
	rep := Build(a)
	fmt.Fprintf(w, "Run %s: %d files (%d tax, %d FiBu, %d annual report, %d skipped)\n\n",
		rep.RunID, rep.FilesProcessed, rep.TaxFiles, rep.FibuFiles, rep.AnnualReportFiles, rep.SkippedFiles)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSTATUS\tTAX\tFIBU\tDIFFERENCE")
	for _, r := range a.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Rule.ID, r.Status, chf(r.TaxTotal), chf(r.LedgerTotal), amount.Format(r.Difference))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	for _, r := range a.Results {
		if r.Hint != "" {
			fmt.Fprintf(w, "\n%s: %s\n", r.Rule.ID, r.Hint)
		}
	}
	if len(rep.Findings) > 0 {
		fmt.Fprintln(w, "\nFindings:")
		for _, f := range rep.Findings {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	return nil
}

func chf(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return amount.Format(*d)
}
