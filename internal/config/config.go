// Package config resolves the settings of a validation run.
package config

import (
	"fmt"
	"strings"

	"github.com/mehmetkoksal-w/lorawan-devices/internal/logger"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/repository"
)

// EnvLogLevel selects the diagnostic log level (off, info, debug).
const EnvLogLevel = "LORAWAN_DEVICES_LOG"

// Config is the resolved configuration of one run.
type Config struct {
	// VendorIndex is the path of the root vendors index.
	VendorIndex string
	// Root is the repository root that vendor folders are resolved against.
	Root     string
	LogLevel logger.Level
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		VendorIndex: repository.DefaultVendorsIndex,
		Root:        ".",
		LogLevel:    logger.LevelOff,
	}
}

// Resolve merges the --vendor flag value and the environment into a Config.
// getenv is usually os.Getenv.
func Resolve(vendorIndex string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if v := strings.TrimSpace(vendorIndex); v != "" {
		cfg.VendorIndex = v
	}
	if getenv != nil {
		level, err := logger.ParseLevel(getenv(EnvLogLevel))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}
