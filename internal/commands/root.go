package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/revipro-dev/revipro/internal/buildinfo"
	"github.com/revipro-dev/revipro/internal/logging"
)

// globals holds state shared by all subcommands.
type globals struct {
	logLevel  string
	logFormat string
	log       *logrus.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "revipro",
		Short:   "Reconcile municipal tax statements against the FiBu ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(g.logLevel, g.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g.log = log
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", logging.FormatText, "log format (text, json)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAnalyzeCommand(g))
	rootCmd.AddCommand(newClassifyCommand(g))
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
