package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/revipro-dev/revipro/internal/accounts"
	"github.com/revipro-dev/revipro/internal/config"
	"github.com/revipro-dev/revipro/internal/gitops"
	"github.com/revipro-dev/revipro/internal/intake"
	"github.com/revipro-dev/revipro/internal/model"
	"github.com/revipro-dev/revipro/internal/pipeline"
	"github.com/revipro-dev/revipro/internal/report"
	"github.com/revipro-dev/revipro/internal/runlog"
)

// Output formats of analyze.
const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

type analyzeFlags struct {
	dir        string
	configPath string
	format     string
	out        string
	workers    int
	timeout    time.Duration
	column     string
	archive    bool
	commit     bool
}

func newAnalyzeCommand(g *globals) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Reconcile tax statements against ledger balances (R805/R806)",
		Long: "Classifies every PDF or JSON sidecar in the given files or directories " +
			"(default: <dir>/import), extracts residuals and closing balances, and " +
			"reports rules R805 and R806.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(f.dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			f.dir = absDir

			cfg, inProject, err := loadConfig(f.dir, f.configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("workers") {
				cfg.Pipeline.Workers = f.workers
			}
			if flags.Changed("timeout") {
				cfg.Pipeline.DocumentTimeout = f.timeout.String()
			}
			if flags.Changed("column") {
				cfg.Organization.Column = f.column
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			chart, err := accounts.LoadOrDefault(f.dir)
			if err != nil {
				return err
			}
			opts, err := cfg.PipelineOptions(chart.LedgerTokens())
			if err != nil {
				return err
			}
			opts.Accounts = chart
			opts.Log = g.log

			paths := args
			if len(paths) == 0 {
				paths = []string{intake.ImportDir(f.dir)}
			}
			docs, err := intake.DefaultRegistry().Collect(paths)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return fmt.Errorf("no documents found in %v", paths)
			}
			inputs := make([]pipeline.Input, len(docs))
			for i, d := range docs {
				inputs[i] = d
			}

			analysis, err := pipeline.Analyze(cmd.Context(), inputs, opts)
			if err != nil {
				return fmt.Errorf("analyzing documents: %w", err)
			}

			if err := writeReport(cmd.OutOrStdout(), f, analysis); err != nil {
				return err
			}

			if inProject {
				if err := runlog.Append(f.dir, runlog.FromAnalysis(analysis, time.Now().UTC())); err != nil {
					g.log.WithError(err).Warn("failed to write audit log")
				}
			}
			if f.archive {
				if err := archive(f.dir, docs, analysis); err != nil {
					return err
				}
			}
			if f.commit {
				return commitRun(cmd, f.dir, cfg, analysis)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default <dir>/revipro.yaml)")
	cmd.Flags().StringVar(&f.format, "format", formatText, "output format (text, json, csv)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().IntVar(&f.workers, "workers", 4, "documents processed in parallel")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "per-document processing timeout")
	cmd.Flags().StringVar(&f.column, "column", "", "organization column in tax statements (e.g. Kirchgemeinde)")
	cmd.Flags().BoolVar(&f.archive, "archive", false, "move processed files from import/ to import/processed/")
	cmd.Flags().BoolVar(&f.commit, "commit", false, "commit the audit log to the project's git repository")

	return cmd
}

// loadConfig reads the project config. Outside a project (no config file
// and no --config) the defaults apply.
func loadConfig(dir, path string) (*config.Config, bool, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, config.FileName)
	}
	cfg, err := config.Load(path)
	switch {
	case err == nil:
		return cfg, true, nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return config.Default(""), false, nil
	default:
		return nil, false, err
	}
}

func writeReport(stdout io.Writer, f analyzeFlags, a model.Analysis) error {
	w := stdout
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch f.format {
	case formatJSON:
		return report.WriteJSON(w, a)
	case formatCSV:
		return report.WriteItemsCSV(w, a)
	case formatText:
		return report.WriteSummary(w, a)
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}
}

// archive moves documents that were read from the import directory and
// extracted into import/processed.
func archive(dir string, docs []*intake.Document, a model.Analysis) error {
	importDir := intake.ImportDir(dir)
	for i, d := range docs {
		if filepath.Dir(d.Path) != importDir || a.Documents[i].Status != model.DocumentExtracted {
			continue
		}
		if err := intake.MarkProcessed(dir, d.Name()); err != nil {
			return err
		}
	}
	return nil
}

// commitRun records the updated audit log in git.
func commitRun(cmd *cobra.Command, dir string, cfg *config.Config, a model.Analysis) error {
	if !gitops.IsRepo(dir) {
		return fmt.Errorf("%s is not a git repository (run init --git)", dir)
	}
	verdicts := make([]string, 0, len(a.Results))
	for _, r := range a.Results {
		verdicts = append(verdicts, fmt.Sprintf("%s %s", r.Rule.ID, r.Status))
	}
	msg := fmt.Sprintf("audit: run %s (%s)", a.RunID, strings.Join(verdicts, ", "))

	hash, err := gitops.Commit(cmd.Context(), dir, msg, projectAuthor(cfg.Organization.Name), runlog.Path)
	if err != nil {
		return err
	}
	if hash != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Committed audit log (%s)\n", hash)
	}
	return nil
}
