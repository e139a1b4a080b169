package vcs

import (
	"context"
	"errors"
)

// ErrNotRepository indicates the working directory is not inside a checkout.
var ErrNotRepository = errors.New("vcs: not a repository")

// Info is the commit and release tag resolved for the working tree. Empty
// strings mean the value could not be resolved.
type Info struct {
	Commit string
	Tag    string
}

// HasCommit reports whether a commit hash was resolved.
func (i Info) HasCommit() bool {
	return i.Commit != ""
}

// HasTag reports whether a valid release tag was resolved.
func (i Info) HasTag() bool {
	return i.Tag != ""
}

// Runner executes a VCS command in dir and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// Client describes the version-control queries the generator performs.
type Client interface {
	// IsRepository checks whether dir is inside a checkout.
	IsRepository(ctx context.Context, dir string) error

	// HeadCommit returns the full hash of HEAD.
	HeadCommit(ctx context.Context, dir string) (string, error)

	// NearestTag returns the closest tag reachable from HEAD.
	NearestTag(ctx context.Context, dir string) (string, error)
}
