package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonschema"
	"github.com/tidwall/gjson"

	"github.com/launchbynttdata/launch-meta-gen/internal/fsx"
)

// Mode identifies which path layout is active for a run.
type Mode string

const (
	// ModeStandalone resolves packs relative to the working directory.
	ModeStandalone Mode = "standalone"
	// ModeOrchestrated resolves paths from the build orchestrator root.
	ModeOrchestrated Mode = "orchestrated"
)

const (
	// ConfigFileName is the orchestrator config file looked up under the root.
	ConfigFileName = "config.json"
	manifestName   = "manifest.json"
	gametestsName  = "gametests"
	outputSrcDir   = "src"
)

var (
	standalonePacksDir     = "packs"
	standaloneGametestsDir = filepath.Join("packs", "data", gametestsName)
	stagingDir             = filepath.Join(".regolith", "tmp")
)

// ErrOrchestratorConfig indicates the orchestrator config.json could not be used.
var ErrOrchestratorConfig = errors.New("layout: invalid orchestrator config")

const orchestratorSchema = `{
	"type": "object",
	"required": ["regolith"],
	"properties": {
		"regolith": {
			"type": "object",
			"required": ["dataPath"],
			"properties": {
				"dataPath": {"type": "string"}
			}
		}
	}
}`

// Layout holds every directory a run reads from or writes to.
type Layout struct {
	Mode         Mode
	WorkDir      string
	RootDir      string
	PacksDir     string
	GametestsDir string
	// StagingPacksDir is the tree mirrored writes are made relative to.
	StagingPacksDir string
	// StagingDir receives mirrored writes.
	StagingDir string
}

// Resolve picks standalone or orchestrated mode. Orchestrated mode requires rootDir
// to be non-empty and to contain config.json.
func Resolve(workDir, rootDir string) (Layout, error) {
	work, err := filepath.Abs(defaultString(workDir, "."))
	if err != nil {
		return Layout{}, fmt.Errorf("resolving work dir: %w", err)
	}

	root := strings.TrimSpace(rootDir)
	if root != "" && !filepath.IsAbs(root) {
		root = filepath.Join(work, root)
	}

	configPath := filepath.Join(root, ConfigFileName)
	if root == "" || !fsx.IsFile(configPath) {
		return Layout{
			Mode:         ModeStandalone,
			WorkDir:      work,
			RootDir:      root,
			PacksDir:     filepath.Join(work, standalonePacksDir),
			GametestsDir: filepath.Join(work, standaloneGametestsDir),
		}, nil
	}

	dataPath, err := readDataPath(configPath)
	if err != nil {
		return Layout{}, err
	}

	return Layout{
		Mode:            ModeOrchestrated,
		WorkDir:         work,
		RootDir:         root,
		PacksDir:        work,
		GametestsDir:    filepath.Join(root, dataPath, gametestsName),
		StagingPacksDir: filepath.Join(root, standalonePacksDir),
		StagingDir:      filepath.Join(root, stagingDir),
	}, nil
}

// Orchestrated reports whether the layout came from the build orchestrator.
func (l Layout) Orchestrated() bool {
	return l.Mode == ModeOrchestrated
}

// ManifestPath returns the manifest location for the pack directory (e.g. "BP").
func (l Layout) ManifestPath(packDir string) string {
	return filepath.Join(l.PacksDir, packDir, manifestName)
}

// OutputPath returns where the generated file is written.
func (l Layout) OutputPath(outputFile string) string {
	return filepath.Join(l.GametestsDir, outputSrcDir, outputFile)
}

// GametestsPresent reports whether the generated-output root exists.
func (l Layout) GametestsPresent() bool {
	return fsx.IsDir(l.GametestsDir)
}

// Display returns path relative to the root in orchestrated mode, or the work dir otherwise.
func (l Layout) Display(path string) string {
	base := l.WorkDir
	if l.RootDir != "" {
		base = l.RootDir
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

func readDataPath(configPath string) (string, error) {
	// #nosec G304 -- config path is derived from the orchestrator root directory.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrOrchestratorConfig, configPath, err)
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: %s is not valid JSON", ErrOrchestratorConfig, configPath)
	}

	schema, err := jsonschema.NewCompiler().Compile([]byte(orchestratorSchema))
	if err != nil {
		return "", fmt.Errorf("compiling orchestrator schema: %w", err)
	}
	if result := schema.ValidateJSON(data); !result.IsValid() {
		return "", fmt.Errorf("%w: %v", ErrOrchestratorConfig, result.Errors)
	}

	return gjson.GetBytes(data, "regolith.dataPath").String(), nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
