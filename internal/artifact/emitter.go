package artifact

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/launchbynttdata/launch-meta-gen/internal/domain/layout"
	"github.com/launchbynttdata/launch-meta-gen/internal/fsx"
	"github.com/launchbynttdata/launch-meta-gen/internal/staging"
)

// Emission describes what Emit did.
type Emission struct {
	Path     string
	Changed  bool
	Written  bool
	Mirrored string
}

// Emitter writes the generated file only when its content changes.
type Emitter struct {
	layout layout.Layout
	mirror staging.Mirror
	logger *zap.Logger
	dryRun bool
}

// NewEmitter constructs an Emitter. With dryRun set, changes are reported but not written.
func NewEmitter(l layout.Layout, mirror staging.Mirror, logger *zap.Logger, dryRun bool) Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Emitter{layout: l, mirror: mirror, logger: logger, dryRun: dryRun}
}

// Emit writes content to path and mirrors it, unless the file already holds
// exactly content.
func (e Emitter) Emit(path string, content []byte) (Emission, error) {
	result := Emission{Path: path}

	existing, present, err := fsx.ReadIfExists(path)
	if err != nil {
		return result, fmt.Errorf("reading existing output %s: %w", path, err)
	}
	if present && bytes.Equal(existing, content) {
		e.logger.Debug("meta file unchanged", zap.String("path", e.layout.Display(path)))
		return result, nil
	}
	result.Changed = true

	if e.dryRun {
		e.logger.Info("meta file would be written", zap.String("path", e.layout.Display(path)))
		return result, nil
	}

	if err := fsx.WriteFileCreatingDirs(path, content); err != nil {
		return result, fmt.Errorf("writing output %s: %w", path, err)
	}
	result.Written = true
	e.logger.Info("meta file written", zap.String("path", e.layout.Display(path)))

	mirrored, err := e.mirror.Write(path, content)
	if err != nil {
		return result, err
	}
	result.Mirrored = mirrored
	return result, nil
}
