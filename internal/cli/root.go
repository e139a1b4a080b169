package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/launchbynttdata/launch-meta-gen/internal/config"
	"github.com/launchbynttdata/launch-meta-gen/internal/logging"
	"github.com/launchbynttdata/launch-meta-gen/internal/services/metagen"
	"github.com/launchbynttdata/launch-meta-gen/internal/vcs"
	"github.com/launchbynttdata/launch-meta-gen/internal/version"
)

const (
	envRootDir    = "ROOT_DIR"
	envWorkDir    = "METAGEN_WORK_DIR"
	envLogLevel   = "METAGEN_LOG_LEVEL"
	envOutputFile = "METAGEN_OUTPUT_FILE"
	envSync       = "METAGEN_SYNC_VERSION_FROM_TAG"
	envDryRun     = "METAGEN_DRY_RUN"
)

const (
	flagRootDir    = "root-dir"
	flagWorkDir    = "work-dir"
	flagLogLevel   = "log-level"
	flagOutputFile = "output-file"
	flagSync       = "sync-version-from-tag"
	flagDryRun     = "dry-run"
)

// Execute runs the CLI root command with the provided context.
func Execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return newRootCommand(dependencies{}).ExecuteContext(ctx)
}

type rootFlagSet struct {
	rootDir    *stringFlag
	workDir    *stringFlag
	logLevel   *stringFlag
	outputFile *stringFlag
	sync       *boolFlag
	dryRun     *boolFlag
}

// dependencies are the process collaborators tests substitute.
type dependencies struct {
	newClient func() vcs.Client
	lookupEnv config.LookupFunc
}

func (d dependencies) withDefaults() dependencies {
	if d.newClient == nil {
		d.newClient = func() vcs.Client { return vcs.NewGitClient(nil) }
	}
	if d.lookupEnv == nil {
		d.lookupEnv = os.LookupEnv
	}
	return d
}

func newRootCommand(deps dependencies) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "meta-gen [settings-json]",
		Short: "Generate pack metadata from manifests and git",
		Long: "meta-gen reads the BP and RP pack manifests and the surrounding git checkout,\n" +
			"optionally syncs manifest versions to the latest release tag, and writes a\n" +
			"generated TypeScript module describing the build.\n\n" +
			`Settings are passed as an optional JSON object, e.g. '{"outputFile":"Meta.ts","syncVersionFromTag":true}'.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Version = version.Version
	cmd.SetVersionTemplate("meta-gen {{.Version}}\n")

	flags := bindRootFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, flags, args, deps)
	}
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "meta-gen %s\n", version.Summary()); err != nil {
				return fmt.Errorf("writing version info: %w", err)
			}
			return nil
		},
	}
}

func bindRootFlags(cmd *cobra.Command) *rootFlagSet {
	fs := cmd.PersistentFlags()
	return &rootFlagSet{
		rootDir:    bindStringFlag(fs, flagRootDir, "", envRootDir, "", "Build orchestrator root directory; enables orchestrated mode when it contains config.json"),
		workDir:    bindStringFlag(fs, flagWorkDir, "C", envWorkDir, ".", "Directory relative paths and git queries resolve against"),
		logLevel:   bindStringFlag(fs, flagLogLevel, "", envLogLevel, logging.LevelTerse, "Log verbosity (quiet, terse or verbose)"),
		outputFile: bindStringFlag(fs, flagOutputFile, "o", envOutputFile, "", "Override the generated file name"),
		sync:       bindBoolFlag(fs, flagSync, "", envSync, false, "Sync manifest versions to the latest release tag"),
		dryRun:     bindBoolFlag(fs, flagDryRun, "n", envDryRun, false, "Report changes without writing any file"),
	}
}

func runGenerate(cmd *cobra.Command, flags *rootFlagSet, args []string, deps dependencies) error {
	nopResolver := config.NewResolverWithLookup(zap.NewNop(), deps.lookupEnv)
	logger, err := logging.New(flags.logLevel.Value(nopResolver))
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	return generate(cmd.Context(), logger, config.NewResolverWithLookup(logger, deps.lookupEnv), flags, args, deps.newClient)
}

func generate(ctx context.Context, logger *zap.Logger, resolver config.Resolver, flags *rootFlagSet, args []string, newClient func() vcs.Client) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}

	settings, err := config.ParseSettings(raw, logger)
	if err != nil {
		return err
	}

	settings.OutputFile = flags.outputFile.ValueOr(resolver, settings.OutputFile)
	settings.SyncVersionFromTag, err = flags.sync.ValueOr(resolver, settings.SyncVersionFromTag)
	if err != nil {
		return err
	}

	dryRun, err := flags.dryRun.Value(resolver)
	if err != nil {
		return err
	}

	service := metagen.NewService(vcs.NewReader(newClient(), logger), logger)
	result, err := service.Run(ctx, metagen.Config{
		Settings: settings,
		WorkDir:  flags.workDir.Value(resolver),
		RootDir:  flags.rootDir.Value(resolver),
		DryRun:   dryRun,
	})
	if err != nil {
		return err
	}

	if result.Skipped != metagen.SkipReasonNone {
		logger.Debug("run skipped", zap.String("reason", string(result.Skipped)))
		return nil
	}

	log := logger.With(
		zap.String("mode", string(result.Layout.Mode)),
		zap.Bool("bpLoaded", result.Manifests.BP.Loaded),
		zap.Bool("rpLoaded", result.Manifests.RP.Loaded),
		zap.String("commit", result.VCS.Commit),
		zap.String("tag", result.VCS.Tag),
		zap.Bool("changed", result.Artifact.Changed),
	)
	if result.Synced {
		log = log.With(zap.String("syncedVersion", result.Version.String()))
	}
	log.Debug("meta generation complete")
	return nil
}
