package vcs

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const headHash = "0123456789abcdef0123456789abcdef01234567"

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
	dirs    []string
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	f.dirs = append(f.dirs, dir)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{
			"rev-parse --git-dir":        ".git",
			"rev-parse HEAD":             headHash,
			"describe --tags --abbrev=0": "v1.1.0",
		},
		errs: map[string]error{},
	}
}

func TestReaderResolvesCommitAndTag(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	info := NewReader(NewGitClient(runner), nil).Read(context.Background(), "/work")

	if info.Commit != headHash {
		t.Fatalf("commit: want %s got %s", headHash, info.Commit)
	}
	if info.Tag != "v1.1.0" {
		t.Fatalf("tag: want v1.1.0 got %s", info.Tag)
	}
	if len(runner.calls) != 3 {
		t.Fatalf("expected 3 git invocations got %v", runner.calls)
	}
	for _, dir := range runner.dirs {
		if dir != "/work" {
			t.Fatalf("expected commands to run in /work, got %s", dir)
		}
	}
}

func TestReaderNotRepository(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.errs["rev-parse --git-dir"] = errors.New("fatal: not a git repository")

	info := NewReader(NewGitClient(runner), nil).Read(context.Background(), ".")

	if info.HasCommit() || info.HasTag() {
		t.Fatalf("expected empty info got %+v", info)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected only the presence check, got %v", runner.calls)
	}
}

func TestReaderLookupsAreIndependent(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.errs["rev-parse HEAD"] = errors.New("fatal: ambiguous argument 'HEAD'")

	info := NewReader(NewGitClient(runner), nil).Read(context.Background(), ".")
	if info.HasCommit() {
		t.Fatalf("expected no commit got %s", info.Commit)
	}
	if info.Tag != "v1.1.0" {
		t.Fatalf("tag: want v1.1.0 got %s", info.Tag)
	}

	runner = newFakeRunner()
	runner.errs["describe --tags --abbrev=0"] = errors.New("fatal: No names found")

	info = NewReader(NewGitClient(runner), nil).Read(context.Background(), ".")
	if info.Commit != headHash {
		t.Fatalf("commit: want %s got %s", headHash, info.Commit)
	}
	if info.HasTag() {
		t.Fatalf("expected no tag got %s", info.Tag)
	}
}

func TestReaderDiscardsNonReleaseTag(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	runner := newFakeRunner()
	runner.outputs["describe --tags --abbrev=0"] = "v2.0.0-rc.1"

	info := NewReader(NewGitClient(runner), zap.New(core)).Read(context.Background(), ".")

	if info.HasTag() {
		t.Fatalf("expected prerelease tag to be discarded, got %s", info.Tag)
	}
	if info.Commit != headHash {
		t.Fatalf("commit should still resolve, got %q", info.Commit)
	}
	if logs.FilterMessage("tag discarded").Len() != 1 {
		t.Fatalf("expected a tag discarded log entry, got %v", logs.All())
	}
}

func TestReaderEmptyPresenceOutput(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.outputs["rev-parse --git-dir"] = ""

	info := NewReader(NewGitClient(runner), nil).Read(context.Background(), ".")
	if info.HasCommit() || info.HasTag() {
		t.Fatalf("expected empty info got %+v", info)
	}
}

func TestReaderNilClient(t *testing.T) {
	t.Parallel()

	info := NewReader(nil, nil).Read(context.Background(), ".")
	if info != (Info{}) {
		t.Fatalf("expected empty info got %+v", info)
	}
}

func TestGitClientAgainstRealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runner := ExecRunner{}
	ctx := context.Background()
	git := func(args ...string) {
		t.Helper()
		if _, err := runner.Run(ctx, dir, args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}

	client := NewGitClient(runner)
	if err := client.IsRepository(ctx, dir); !errors.Is(err, ErrNotRepository) {
		t.Skipf("temp dir unexpectedly inside a repository: %v", err)
	}

	git("init", "-q")
	git("-c", "user.name=meta", "-c", "user.email=meta@example.com", "-c", "commit.gpgsign=false", "commit", "-q", "--allow-empty", "-m", "init")
	git("-c", "tag.gpgsign=false", "tag", "v0.3.0")

	info := NewReader(client, nil).Read(ctx, dir)
	if len(info.Commit) != 40 {
		t.Fatalf("expected full commit hash got %q", info.Commit)
	}
	if info.Tag != "v0.3.0" {
		t.Fatalf("tag: want v0.3.0 got %q", info.Tag)
	}
}
