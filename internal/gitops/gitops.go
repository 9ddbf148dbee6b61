// Package gitops versions a revipro project with git so every recorded
// analysis leaves an auditable commit.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who recorded a commit.
type Author struct {
	Name  string
	Email string
}

// DefaultEmail is used when the project has no mail address.
const DefaultEmail = "revipro@localhost"

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	if _, err := git(ctx, dir, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages paths (relative to dir) and commits them. It returns the
// short hash, or "" when nothing changed.
func Commit(ctx context.Context, dir, message string, author Author, paths ...string) (string, error) {
	add := append([]string{"add", "--"}, paths...)
	if _, err := git(ctx, dir, add...); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}

	// "diff --cached --quiet" exits 1 when something is staged.
	if _, err := git(ctx, dir, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	_, err := git(ctx, dir,
		"-c", "user.name="+author.Name,
		"-c", "user.email="+author.Email,
		"commit", "--quiet", "-m", message)
	if err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}

	out, err := git(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return out, nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w", msg, err)
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
