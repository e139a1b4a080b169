package staging

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/launchbynttdata/launch-meta-gen/internal/domain/layout"
	"github.com/launchbynttdata/launch-meta-gen/internal/fsx"
)

// Mirror duplicates writes made under the packs tree into the orchestrator's
// staging directory so the running build sees them.
type Mirror struct {
	enabled    bool
	packsDir   string
	stagingDir string
	layout     layout.Layout
	logger     *zap.Logger
}

// New returns a Mirror for l. Mirroring is disabled outside orchestrated mode.
func New(l layout.Layout, logger *zap.Logger) Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Mirror{
		enabled:    l.Orchestrated() && l.StagingPacksDir != "" && l.StagingDir != "",
		packsDir:   l.StagingPacksDir,
		stagingDir: l.StagingDir,
		layout:     l,
		logger:     logger,
	}
}

// Target returns the staging path for path, or false when mirroring is
// disabled or path lies outside the packs tree.
func (m Mirror) Target(path string) (string, bool) {
	if !m.enabled {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(m.packsDir, abs)
	if err != nil || escapes(rel) {
		return "", false
	}
	return filepath.Join(m.stagingDir, rel), true
}

// Write copies content to the staging path for path. It reports the mirrored
// path, or an empty string when nothing was written.
func (m Mirror) Write(path string, content []byte) (string, error) {
	target, ok := m.Target(path)
	if !ok {
		return "", nil
	}
	if err := fsx.WriteFileCreatingDirs(target, content); err != nil {
		return "", fmt.Errorf("mirroring %s: %w", path, err)
	}
	m.logger.Info("mirrored to staging", zap.String("path", m.layout.Display(target)))
	return target, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel)
}
