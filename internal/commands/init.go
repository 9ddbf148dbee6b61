package commands

import (
	"fmt"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/revipro-dev/revipro/internal/accounts"
	"github.com/revipro-dev/revipro/internal/config"
	"github.com/revipro-dev/revipro/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var (
		name   string
		useGit bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new revipro project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(cmd.OutOrStdout(), absDir, name); err != nil {
				return err
			}
			if useGit {
				return initRepo(cmd.Context(), cmd.OutOrStdout(), absDir, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the project files")

	return cmd
}

func runInit(out io.Writer, dir, name string) error {
	// Create directory structure.
	dirs := []string{
		"accounts",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write revipro.yaml.
	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Uploaded statements hold taxpayer data and stay out of version control.
	gitignore := "import/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized revipro project for %s at %s\n", name, dir)
	return nil
}

func initRepo(ctx context.Context, out io.Writer, dir, name string) error {
	if err := gitops.Init(ctx, dir); err != nil {
		return err
	}
	hash, err := gitops.Commit(ctx, dir, "init: revipro project for "+name, projectAuthor(name),
		config.FileName, "accounts", ".gitignore")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Committed project files (%s)\n", hash)
	return nil
}

func projectAuthor(name string) gitops.Author {
	if name == "" {
		name = "revipro"
	}
	return gitops.Author{Name: name, Email: gitops.DefaultEmail}
}
