// Package paths provides centralized path handling for homesync,
// following the XDG Base Directory specification.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/homesync/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for homesync
	EnvConfigDir = "HOMESYNC_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for homesync-specific files
	AppDirName = "homesync"

	// CustomAppsDirName is the subdirectory holding user-provided
	// application definitions
	CustomAppsDirName = "apps"

	// ConfigFileName is the name of the main configuration file
	ConfigFileName = "homesync.toml"

	// LegacyConfigFileName is the dotfile location also accepted for the
	// main configuration
	LegacyConfigFileName = ".homesync.toml"
)

// HomeRoot returns the user's home directory, preferring the HOME
// environment variable for testability
func HomeRoot() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to determine home directory")
	}
	return home, nil
}

// ConfigDir returns the directory holding homesync's own configuration
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// CustomAppsDir returns the directory scanned for user-provided
// application definitions
func CustomAppsDir() string {
	return filepath.Join(ConfigDir(), CustomAppsDirName)
}

// ConfigFilePath returns the primary main-config location
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// LegacyConfigFilePath returns the dotfile main-config location under home
func LegacyConfigFilePath(homeRoot string) string {
	return filepath.Join(homeRoot, LegacyConfigFileName)
}

// XDGConfigHome returns the XDG config base for tracked-path resolution.
// It must live inside the home directory, since tracked paths are stored
// relative to home.
func XDGConfigHome(homeRoot string) (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		return filepath.Join(homeRoot, ".config"), nil
	}
	if !strings.HasPrefix(configHome, homeRoot) {
		return "", errors.Newf(errors.ErrConfigInvalid,
			"$XDG_CONFIG_HOME: %s must be somewhere within your home directory: %s", configHome, homeRoot)
	}
	return configHome, nil
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "~" {
		home, _ := HomeRoot()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := HomeRoot()
		return filepath.Join(home, path[2:])
	}
	return path
}
