package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const gitBinary = "git"

// ExecRunner runs commands through os/exec without a timeout.
type ExecRunner struct {
	Binary string
}

// Run executes the binary with args in dir.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = gitBinary
	}

	// #nosec G204 -- arguments are fixed git subcommands chosen by this package.
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// NewGitClient returns a Client backed by the git CLI. A nil runner uses ExecRunner.
func NewGitClient(runner Runner) Client {
	if runner == nil {
		runner = ExecRunner{Binary: gitBinary}
	}
	return gitClient{runner: runner}
}

type gitClient struct {
	runner Runner
}

func (c gitClient) IsRepository(ctx context.Context, dir string) error {
	out, err := c.runner.Run(ctx, dir, "rev-parse", "--git-dir")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	if out == "" {
		return ErrNotRepository
	}
	return nil
}

func (c gitClient) HeadCommit(ctx context.Context, dir string) (string, error) {
	out, err := c.runner.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	if out == "" {
		return "", errors.New("resolving HEAD: empty output")
	}
	return out, nil
}

func (c gitClient) NearestTag(ctx context.Context, dir string) (string, error) {
	out, err := c.runner.Run(ctx, dir, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return "", fmt.Errorf("describing tags: %w", err)
	}
	if out == "" {
		return "", errors.New("describing tags: empty output")
	}
	return out, nil
}
