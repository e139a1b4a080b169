package metagen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/launchbynttdata/launch-meta-gen/internal/artifact"
	"github.com/launchbynttdata/launch-meta-gen/internal/config"
	"github.com/launchbynttdata/launch-meta-gen/internal/domain/layout"
	"github.com/launchbynttdata/launch-meta-gen/internal/domain/semtag"
	"github.com/launchbynttdata/launch-meta-gen/internal/fsx"
	"github.com/launchbynttdata/launch-meta-gen/internal/manifest"
	"github.com/launchbynttdata/launch-meta-gen/internal/staging"
	"github.com/launchbynttdata/launch-meta-gen/internal/vcs"
)

// SkipReason explains why a run stopped before producing output.
type SkipReason string

const (
	SkipReasonNone               SkipReason = ""
	SkipReasonNoOutputFile       SkipReason = "no-output-file"
	SkipReasonNoGametests        SkipReason = "no-gametests-dir"
	SkipReasonOrchestratorConfig SkipReason = "invalid-orchestrator-config"
)

// Config captures the inputs of one generator run.
type Config struct {
	Settings config.Settings
	WorkDir  string
	RootDir  string
	DryRun   bool
}

// PackUpdate records a manifest rewritten by version sync.
type PackUpdate struct {
	Pack     manifest.Pack
	Path     string
	Version  semtag.Version
	Changed  bool
	Written  bool
	Mirrored string
}

// Result summarizes a run.
type Result struct {
	Skipped   SkipReason
	Layout    layout.Layout
	Manifests manifest.Pair
	VCS       vcs.Info
	Synced    bool
	Version   semtag.Version
	Updates   []PackUpdate
	Artifact  artifact.Emission
}

// Service runs the metadata generator.
type Service struct {
	reader vcs.Reader
	logger *zap.Logger
}

// NewService constructs a Service.
func NewService(reader vcs.Reader, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Service{reader: reader, logger: logger}
}

// Run resolves paths, loads manifests and VCS info, optionally syncs manifest
// versions to the tag, and emits the generated file. Configuration problems
// end the run early with a warning and a nil error; write failures are returned.
func (s Service) Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Settings.Validate(); err != nil {
		s.logger.Warn("no output file specified", zap.String("hint", "set outputFile in the settings argument"))
		return Result{Skipped: SkipReasonNoOutputFile}, nil
	}

	l, err := layout.Resolve(cfg.WorkDir, cfg.RootDir)
	if err != nil {
		if errors.Is(err, layout.ErrOrchestratorConfig) {
			s.logger.Warn("could not read orchestrator config", zap.Error(err))
			return Result{Skipped: SkipReasonOrchestratorConfig}, nil
		}
		return Result{}, err
	}
	result := Result{Layout: l}

	if !l.GametestsPresent() {
		s.logger.Warn("could not find gametests directory",
			zap.String("path", l.GametestsDir),
			zap.String("hint", "make sure the gametests directory is present in the dataPath"),
		)
		result.Skipped = SkipReasonNoGametests
		return result, nil
	}
	s.logger.Debug("layout resolved",
		zap.String("mode", string(l.Mode)),
		zap.String("packs", l.PacksDir),
		zap.String("gametests", l.GametestsDir),
	)

	result.Manifests = manifest.LoadPair(func(p manifest.Pack) string {
		return l.ManifestPath(string(p))
	})
	for _, pack := range manifest.Packs {
		record := result.Manifests.Get(pack)
		if !record.Loaded {
			s.logger.Debug("manifest not loaded", zap.String("pack", string(pack)), zap.String("path", l.ManifestPath(string(pack))))
		}
	}

	result.VCS = s.reader.Read(ctx, l.WorkDir)

	mirror := staging.New(l, s.logger)

	if cfg.Settings.SyncVersionFromTag && result.VCS.HasTag() {
		if version, ok := semtag.Parse(result.VCS.Tag); ok {
			updates, err := s.sync(&result.Manifests, version, mirror, cfg.DryRun)
			result.Synced = true
			result.Version = version
			result.Updates = updates
			if err != nil {
				return result, err
			}
		}
	}

	emitter := artifact.NewEmitter(l, mirror, s.logger, cfg.DryRun)
	emission, err := emitter.Emit(l.OutputPath(cfg.Settings.OutputFile), artifact.Render(metadataFor(result)))
	result.Artifact = emission
	if err != nil {
		return result, err
	}
	return result, nil
}

func (s Service) sync(pair *manifest.Pair, version semtag.Version, mirror staging.Mirror, dryRun bool) ([]PackUpdate, error) {
	before := make(map[manifest.Pack]string, len(manifest.Packs))
	for _, pack := range manifest.Packs {
		if record := pair.Get(pack); record.Loaded {
			before[pack], _ = manifest.Digest(record.Document)
		}
	}

	packs, err := pair.ApplyVersion(version)
	if err != nil {
		return nil, fmt.Errorf("applying version %s: %w", version, err)
	}

	updates := make([]PackUpdate, 0, len(packs))
	for _, pack := range packs {
		record := pair.Get(pack)
		content, err := record.Encode()
		if err != nil {
			return updates, fmt.Errorf("encoding %s manifest: %w", pack, err)
		}

		after, _ := manifest.Digest(record.Document)
		update := PackUpdate{
			Pack:    pack,
			Path:    record.Path,
			Version: version,
			Changed: before[pack] == "" || after != before[pack],
		}

		if dryRun {
			s.logger.Info("manifest version would be updated", zap.String("pack", string(pack)), zap.String("version", version.String()))
			updates = append(updates, update)
			continue
		}

		if err := fsx.WriteFileAtomic(record.Path, content, fsx.FileMode); err != nil {
			return updates, fmt.Errorf("writing %s manifest %s: %w", pack, record.Path, err)
		}
		update.Written = true
		s.logger.Info("updated manifest version",
			zap.String("pack", string(pack)),
			zap.String("version", version.String()),
			zap.Bool("changed", update.Changed),
		)

		mirrored, err := mirror.Write(record.Path, content)
		if err != nil {
			return append(updates, update), err
		}
		update.Mirrored = mirrored
		updates = append(updates, update)
	}
	return updates, nil
}

// metadataFor builds the generated-file values. After a sync both packs report
// the synced version, loaded or not.
func metadataFor(result Result) artifact.Metadata {
	meta := artifact.Metadata{
		BP:     packMeta(result.Manifests.BP),
		RP:     packMeta(result.Manifests.RP),
		Commit: result.VCS.Commit,
		Tag:    result.VCS.Tag,
	}
	if result.Synced {
		meta.BP.Version = result.Version
		meta.RP.Version = result.Version
	}
	return meta
}

func packMeta(record manifest.Record) artifact.PackMeta {
	if !record.Loaded {
		return artifact.PackMeta{}
	}
	return artifact.PackMeta{
		Version:          record.Version,
		MinEngineVersion: record.MinEngineVersion,
	}
}
