// Package appsdb loads the application definitions that tell homesync
// which configuration files each application keeps in the home directory.
//
// Built-in definitions are embedded; user definitions in the config
// directory's apps/ folder override built-ins of the same application
// name, whole file.
package appsdb

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/paths"
	"github.com/pelletier/go-toml/v2"
)

//go:embed apps/*.toml
var builtinApps embed.FS

// definition is the on-disk shape of an application definition
type definition struct {
	Application struct {
		Name                  string   `toml:"name"`
		ConfigurationFiles    []string `toml:"configuration_files"`
		XDGConfigurationFiles []string `toml:"xdg_configuration_files"`
	} `toml:"application"`
}

// App is one loaded application: a display name and the set of tracked
// relative paths. The path set is immutable for the duration of a run.
type App struct {
	Name        string
	DisplayName string
	files       map[string]struct{}
}

// Files returns the tracked relative paths, sorted
func (a *App) Files() []string {
	out := make([]string, 0, len(a.files))
	for f := range a.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// DB is the registry of all known applications
type DB struct {
	apps map[string]*App
}

// Load builds the registry from the embedded definitions plus any custom
// definitions under the config directory. homeRoot anchors the XDG
// tracked-path rewrite.
func Load(homeRoot string) (*DB, error) {
	return LoadFrom(homeRoot, paths.CustomAppsDir())
}

// LoadFrom is Load with an explicit custom-definitions directory
func LoadFrom(homeRoot, customDir string) (*DB, error) {
	logger := logging.GetLogger("appsdb")

	xdgConfigHome, err := paths.XDGConfigHome(homeRoot)
	if err != nil {
		return nil, err
	}

	db := &DB{apps: make(map[string]*App)}

	entries, err := fs.ReadDir(builtinApps, "apps")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to read embedded app definitions")
	}
	for _, entry := range entries {
		data, err := builtinApps.ReadFile(filepath.Join("apps", entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read embedded definition %s", entry.Name())
		}
		if err := db.add(entry.Name(), data, homeRoot, xdgConfigHome); err != nil {
			return nil, err
		}
	}

	// Custom definitions win over built-ins of the same name
	customEntries, err := os.ReadDir(customDir)
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read custom app definitions from %s", customDir)
	}
	for _, entry := range customEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(customDir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read custom definition %s", entry.Name())
		}
		logger.Debug().Str("app", entry.Name()).Msg("Loading custom app definition")
		if err := db.add(entry.Name(), data, homeRoot, xdgConfigHome); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// add parses one definition file and registers it, replacing any earlier
// definition with the same application name
func (db *DB) add(filename string, data []byte, homeRoot, xdgConfigHome string) error {
	appName := strings.TrimSuffix(filename, ".toml")

	var def definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return errors.Wrapf(err, errors.ErrAppInvalid, "failed to parse app definition %s", filename)
	}
	if def.Application.Name == "" {
		return errors.Newf(errors.ErrAppInvalid, "app definition %s has no application name", filename)
	}

	app := &App{
		Name:        appName,
		DisplayName: def.Application.Name,
		files:       make(map[string]struct{}),
	}

	for _, p := range def.Application.ConfigurationFiles {
		if filepath.IsAbs(p) {
			return errors.Newf(errors.ErrInvalidPath, "unsupported absolute path: %s", p)
		}
		app.files[p] = struct{}{}
	}

	// XDG entries are resolved against the XDG config base and rewritten
	// relative to home, so the engine only ever sees home-relative paths
	for _, p := range def.Application.XDGConfigurationFiles {
		if filepath.IsAbs(p) {
			return errors.Newf(errors.ErrInvalidPath, "unsupported absolute path: %s", p)
		}
		full := filepath.Join(xdgConfigHome, p)
		rel, err := filepath.Rel(homeRoot, full)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInvalidPath, "cannot make %s relative to home", full)
		}
		app.files[rel] = struct{}{}
	}

	db.apps[appName] = app
	return nil
}

// Names returns all application names, sorted
func (db *DB) Names() []string {
	out := make([]string, 0, len(db.apps))
	for name := range db.apps {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Get returns the application with the given name
func (db *DB) Get(name string) (*App, error) {
	app, ok := db.apps[name]
	if !ok {
		return nil, errors.Newf(errors.ErrAppNotFound, "unknown application: %s", name)
	}
	return app, nil
}

// Has reports whether an application is known
func (db *DB) Has(name string) bool {
	_, ok := db.apps[name]
	return ok
}

// PrettyNames returns the display names of all applications, sorted
func (db *DB) PrettyNames() []string {
	out := make([]string, 0, len(db.apps))
	for _, app := range db.apps {
		out = append(out, app.DisplayName)
	}
	sort.Strings(out)
	return out
}
