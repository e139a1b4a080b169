package vcs

import (
	"context"

	"go.uber.org/zap"

	"github.com/launchbynttdata/launch-meta-gen/internal/domain/semtag"
)

// Reader resolves Info on a best-effort basis.
type Reader struct {
	client Client
	logger *zap.Logger
}

// NewReader constructs a Reader. A nil logger discards debug output.
func NewReader(client Client, logger *zap.Logger) Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Reader{client: client, logger: logger}
}

// Read never fails: each lookup that errors leaves its field empty, and a tag
// that is not a release version is discarded.
func (r Reader) Read(ctx context.Context, dir string) Info {
	var info Info
	if r.client == nil {
		return info
	}

	if err := r.client.IsRepository(ctx, dir); err != nil {
		r.logger.Debug("vcs unavailable", zap.String("dir", dir), zap.Error(err))
		return info
	}

	if commit, err := r.client.HeadCommit(ctx, dir); err != nil {
		r.logger.Debug("commit unresolved", zap.Error(err))
	} else {
		info.Commit = commit
	}

	tag, err := r.client.NearestTag(ctx, dir)
	switch {
	case err != nil:
		r.logger.Debug("tag unresolved", zap.Error(err))
	case !semtag.Valid(tag):
		r.logger.Debug("tag discarded", zap.String("tag", tag), zap.String("reason", "not a release version"))
	default:
		info.Tag = tag
	}

	return info
}
