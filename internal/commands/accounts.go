package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/revipro-dev/revipro/internal/accounts"
)

func newAccountsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			svc, err := accounts.LoadOrDefault(absDir)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ACCOUNT\tNAME\tROLE")
			for _, a := range svc.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.Name, a.Role)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}
