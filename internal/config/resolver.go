package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Resolver applies env > CLI > default precedence to process options.
// Environment variables holding only whitespace count as unset.
type Resolver struct {
	logger *zap.Logger
	lookup LookupFunc
}

// NewResolver creates a Resolver reading the process environment.
func NewResolver(logger *zap.Logger) Resolver {
	return NewResolverWithLookup(logger, os.LookupEnv)
}

// NewResolverWithLookup creates a Resolver reading variables through lookup.
func NewResolverWithLookup(logger *zap.Logger, lookup LookupFunc) Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return Resolver{logger: logger, lookup: lookup}
}

func (r Resolver) env(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	value, ok := r.lookup(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (r Resolver) logConflict(setting, envKey, envVal, cliVal string) {
	r.logger.Warn(
		"config: conflict for "+setting,
		zap.String("envKey", envKey),
		zap.String("env", envVal),
		zap.String("cli", cliVal),
		zap.String("decision", "using env value"),
	)
}

// String resolves a string setting.
func (r Resolver) String(setting, envKey, cliVal string, cliSet bool, defaultVal string) string {
	envVal, envSet := r.env(envKey)
	switch {
	case envSet:
		if cliSet && envVal != cliVal {
			r.logConflict(setting, envKey, envVal, cliVal)
		}
		return envVal
	case cliSet:
		return cliVal
	default:
		return defaultVal
	}
}

// Bool resolves a boolean setting. An unparseable env value is an error.
func (r Resolver) Bool(setting, envKey string, cliVal bool, cliSet bool, defaultVal bool) (bool, error) {
	envVal, envSet := r.env(envKey)
	if !envSet {
		if cliSet {
			return cliVal, nil
		}
		return defaultVal, nil
	}

	parsed, err := strconv.ParseBool(envVal)
	if err != nil {
		return false, fmt.Errorf("config %s: invalid boolean %q in %s: %w", setting, envVal, envKey, err)
	}
	if cliSet && parsed != cliVal {
		r.logConflict(setting, envKey, envVal, strconv.FormatBool(cliVal))
	}
	return parsed, nil
}
