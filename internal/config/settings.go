package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// DefaultOutputFile is the generated file name used when none is configured.
	DefaultOutputFile = "Meta.ts"

	keyOutputFile         = "outputFile"
	keySyncVersionFromTag = "syncVersionFromTag"
)

var (
	// ErrNoOutputFile indicates the resolved output file name is empty.
	ErrNoOutputFile = errors.New("config: no output file specified")
	// ErrInvalidSettings indicates the settings argument is not a valid settings object.
	ErrInvalidSettings = errors.New("config: invalid settings")
)

const settingsSchema = `{
	"type": "object",
	"properties": {
		"outputFile": {"type": ["string", "null"]},
		"syncVersionFromTag": {"type": ["boolean", "null"]}
	}
}`

// Settings is the immutable run configuration.
type Settings struct {
	OutputFile         string
	SyncVersionFromTag bool
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{OutputFile: DefaultOutputFile}
}

// ParseSettings overlays the JSON object in raw onto Defaults. Recognized keys
// are type checked; any other key is ignored and reported at debug level. A
// null value for a recognized key clears it. Empty raw yields Defaults.
func ParseSettings(raw string, logger *zap.Logger) (Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := Defaults()
	if strings.TrimSpace(raw) == "" {
		return settings, nil
	}

	if !gjson.Valid(raw) {
		return Settings{}, fmt.Errorf("%w: argument is not valid JSON", ErrInvalidSettings)
	}

	schema, err := jsonschema.NewCompiler().Compile([]byte(settingsSchema))
	if err != nil {
		return Settings{}, fmt.Errorf("compiling settings schema: %w", err)
	}
	if result := schema.ValidateJSON([]byte(raw)); !result.IsValid() {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, result.Errors)
	}

	var unknown []string
	gjson.Parse(raw).ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case keyOutputFile:
			settings.OutputFile = value.Str
		case keySyncVersionFromTag:
			settings.SyncVersionFromTag = value.Type == gjson.True
		default:
			unknown = append(unknown, key.Str)
		}
		return true
	})

	if len(unknown) > 0 {
		sort.Strings(unknown)
		logger.Debug("ignoring unknown settings keys", zap.Strings("keys", unknown))
	}

	return settings, nil
}

// Validate reports ErrNoOutputFile when no output file is configured.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.OutputFile) == "" {
		return ErrNoOutputFile
	}
	return nil
}
