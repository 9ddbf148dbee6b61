package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/revipro-dev/revipro/internal/classify"
	"github.com/revipro-dev/revipro/internal/intake"
)

func newClassifyCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <paths...>",
		Short: "Show the category and matching rule of each document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := intake.DefaultRegistry().Collect(args)
			if err != nil {
				return err
			}

			c := classify.New()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tCATEGORY\tRULE")
			for _, d := range docs {
				doc, err := d.Load(cmd.Context())
				if err != nil {
					g.log.WithError(err).Warn("skipping document")
					fmt.Fprintf(tw, "%s\t-\t%s\n", d.Name(), "unreadable")
					continue
				}
				cat, rule := c.Explain(doc.Text(), doc.Filename)
				if rule == "" {
					rule = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", doc.Filename, cat, rule)
			}
			return tw.Flush()
		},
	}
}
