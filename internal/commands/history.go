package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/revipro-dev/revipro/internal/runlog"
)

func newHistoryCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses recorded in logs/audit-log.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			entries, err := runlog.Read(absDir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No analyses recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tRUN\tRULE\tSTATUS\tDIFFERENCE\tDOCUMENTS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					e.Timestamp.Format(time.DateTime), e.RunID, e.Rule, e.Status, e.Difference.StringFixed(2), e.Documents)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}
