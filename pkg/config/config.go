// Package config loads homesync's main configuration: which storage
// engine holds the backup, where it lives and which applications to
// include. Layering is defaults, then the user's config file, then
// HOMESYNC_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/paths"
	"github.com/arthur-debert/homesync/pkg/storage"
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"storage.engine":    storage.EngineDropbox,
		"storage.directory": paths.AppDirName,
	}
}

// Config is the loaded main configuration
type Config struct {
	Storage struct {
		// Engine is one of storage.EngineDropbox, EngineGoogleDrive,
		// EngineICloud, EngineFileSystem
		Engine string `koanf:"engine"`

		// Path is the sync-root subpath for the file_system engine
		Path string `koanf:"path"`

		// Directory is the folder name created inside the sync root
		Directory string `koanf:"directory"`
	} `koanf:"storage"`

	Applications struct {
		ToSync   []string `koanf:"to-sync"`
		ToIgnore []string `koanf:"to-ignore"`
	} `koanf:"applications"`
}

// Load reads the configuration for the given home root
func Load(homeRoot string) (*Config, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default config")
	}

	// First existing config file wins; the XDG location is preferred
	for _, path := range []string{paths.ConfigFilePath(), paths.LegacyConfigFilePath(homeRoot)} {
		if _, err := os.Stat(path); err == nil {
			logger.Debug().Str("path", path).Msg("Loading config file")
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
			}
			break
		}
	}

	err := k.Load(env.Provider("HOMESYNC_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "HOMESYNC_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Engine {
	case storage.EngineDropbox, storage.EngineGoogleDrive, storage.EngineICloud:
	case storage.EngineFileSystem:
		if c.Storage.Path == "" {
			return errors.New(errors.ErrConfigInvalid,
				"the required 'path' can't be found while the 'file_system' engine is used")
		}
	default:
		return errors.Newf(errors.ErrEngineUnknown, "unknown storage engine: %s", c.Storage.Engine)
	}

	dir := c.Storage.Directory
	if dir == "" {
		return errors.New(errors.ErrConfigInvalid, "storage directory cannot be empty")
	}
	if filepath.IsAbs(dir) || strings.ContainsAny(dir, "/\\") {
		return errors.Newf(errors.ErrConfigInvalid, "storage directory must be a plain folder name: %s", dir)
	}
	if dir == paths.CustomAppsDirName {
		return errors.Newf(errors.ErrConfigInvalid, "%s cannot be used as a storage directory", dir)
	}

	return nil
}

// AppsToSync returns the configured allow-list as a lowercase set
func (c *Config) AppsToSync() map[string]struct{} {
	return toSet(c.Applications.ToSync)
}

// AppsToIgnore returns the configured ignore-list as a lowercase set
func (c *Config) AppsToIgnore() map[string]struct{} {
	return toSet(c.Applications.ToIgnore)
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return out
}
