// Package commands implements the homesync verbs on top of the
// relocation engine: environment checks, application selection and the
// per-application run loop.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/homesync/pkg/appsdb"
	"github.com/arthur-debert/homesync/pkg/config"
	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/filesystem"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/paths"
	"github.com/arthur-debert/homesync/pkg/relocate"
	"github.com/arthur-debert/homesync/pkg/storage"
	"github.com/arthur-debert/homesync/pkg/types"
	"github.com/arthur-debert/homesync/pkg/ui/confirm"
)

// Options holds the flags shared by all verbs
type Options struct {
	// DryRun reports without mutating
	DryRun bool

	// Verbose switches to multi-line per-path reporting
	Verbose bool

	// ForceYes answers yes to every confirmation without prompting
	ForceYes bool

	// AllowRoot permits running as the superuser
	AllowRoot bool

	// FileSystem allows injecting a filesystem for testing; defaults to OS
	FileSystem types.FS

	// Policy overrides the confirmation policy; defaults to a console
	// prompt, or force-yes when ForceYes is set
	Policy relocate.Policy

	// Reporter receives progress lines; defaults to stdout
	Reporter relocate.Reporter
}

// runContext is everything a verb needs once the environment checks pass
type runContext struct {
	cfg         *config.Config
	db          *appsdb.DB
	engine      *relocate.Engine
	policy      relocate.Policy
	reporter    relocate.Reporter
	homeRoot    string
	syncRoot    string
	storageRoot string
}

func prepare(opts Options) (*runContext, error) {
	logger := logging.GetLogger("commands")

	if os.Geteuid() == 0 && !opts.AllowRoot {
		return nil, errors.New(errors.ErrInvalidInput,
			"running homesync as superuser can be dangerous, don't do it unless you know what you're doing (see --root)")
	}

	homeRoot, err := paths.HomeRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(homeRoot)
	if err != nil {
		return nil, err
	}

	syncRoot, err := storage.Locate(cfg.Storage.Engine, homeRoot, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(syncRoot); err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrStorageNotFound, "unable to find the storage folder: %s", syncRoot)
	}

	db, err := appsdb.Load(homeRoot)
	if err != nil {
		return nil, err
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	policy := opts.Policy
	if policy == nil {
		if opts.ForceYes {
			policy = confirm.ForceYes{}
		} else {
			policy = confirm.NewConsole()
		}
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = relocate.ReporterFunc(func(line string) { fmt.Println(line) })
	}

	engine, err := relocate.New(relocate.Options{
		FileSystem: fs,
		Policy:     policy,
		Reporter:   reporter,
		DryRun:     opts.DryRun,
		Verbose:    opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("engine", cfg.Storage.Engine).
		Str("sync_root", syncRoot).
		Str("storage_dir", cfg.Storage.Directory).
		Msg("Environment ready")

	return &runContext{
		cfg:         cfg,
		db:          db,
		engine:      engine,
		policy:      policy,
		reporter:    reporter,
		homeRoot:    homeRoot,
		syncRoot:    syncRoot,
		storageRoot: filepath.Join(syncRoot, cfg.Storage.Directory),
	}, nil
}

// selectApps applies the allow and ignore lists to the registry. An empty
// allow list means every known application.
func (rc *runContext) selectApps() []string {
	toSync := rc.cfg.AppsToSync()
	toIgnore := rc.cfg.AppsToIgnore()

	var selected []string
	if len(toSync) > 0 {
		for name := range toSync {
			if rc.db.Has(name) {
				selected = append(selected, name)
			} else {
				logger := logging.GetLogger("commands")
				logger.Warn().Str("app", name).Msg("Unknown application in to-sync list, skipping")
			}
		}
	} else {
		selected = rc.db.Names()
	}

	var out []string
	for _, name := range selected {
		if _, ignored := toIgnore[strings.ToLower(name)]; !ignored {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ensureStorageDir creates the storage directory, after confirmation,
// when it does not exist yet. Backup is the only verb allowed to create
// it.
func (rc *runContext) ensureStorageDir(dryRun bool) error {
	if info, err := os.Stat(rc.storageRoot); err == nil && info.IsDir() {
		return nil
	}
	if dryRun {
		return nil
	}

	prompt := fmt.Sprintf(
		"homesync needs a directory to store your configuration files\nDo you want to create it now? <%s>",
		rc.storageRoot)
	if !rc.policy.Confirm(prompt) {
		return errors.New(errors.ErrStorageNotFound, "homesync can't do anything without a home")
	}
	if err := os.MkdirAll(rc.storageRoot, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", rc.storageRoot)
	}
	return nil
}

// requireStorageDir fails when the storage directory does not exist,
// which is the rule for restore and uninstall
func (rc *runContext) requireStorageDir() error {
	if info, err := os.Stat(rc.storageRoot); err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrStorageNotFound,
			"unable to find the homesync folder: %s\nYou might want to back up some files or get your storage directory synced first",
			rc.storageRoot)
	}
	return nil
}

// Backup moves every selected application's live configuration into
// storage and links it back
func Backup(opts Options) error {
	rc, err := prepare(opts)
	if err != nil {
		return err
	}
	if err := rc.ensureStorageDir(opts.DryRun); err != nil {
		return err
	}

	for _, name := range rc.selectApps() {
		app, err := rc.db.Get(name)
		if err != nil {
			return err
		}
		rc.reporter.Report(fmt.Sprintf("\n%s", app.DisplayName))
		if err := rc.engine.Backup(rc.homeRoot, rc.storageRoot, app.Files()); err != nil {
			return err
		}
	}
	return nil
}

// Restore recreates the home symlinks from existing storage
func Restore(opts Options) error {
	rc, err := prepare(opts)
	if err != nil {
		return err
	}
	if err := rc.requireStorageDir(); err != nil {
		return err
	}

	for _, name := range rc.selectApps() {
		app, err := rc.db.Get(name)
		if err != nil {
			return err
		}
		rc.reporter.Report(fmt.Sprintf("\n%s", app.DisplayName))
		if err := rc.engine.Restore(rc.homeRoot, rc.storageRoot, app.Files()); err != nil {
			return err
		}
	}
	return nil
}

// Uninstall copies everything in storage back into home as real files,
// after one global confirmation. The storage content itself is kept.
func Uninstall(opts Options) error {
	rc, err := prepare(opts)
	if err != nil {
		return err
	}
	if err := rc.requireStorageDir(); err != nil {
		return err
	}

	// One consent for the whole run; never prompted in dry-run
	if !opts.DryRun {
		prompt := "You are going to uninstall homesync.\n" +
			"Every configuration file will be unlinked and copied back to your home folder.\n" +
			"Are you sure?"
		if !rc.policy.Confirm(prompt) {
			return nil
		}
	}

	for _, name := range rc.selectApps() {
		app, err := rc.db.Get(name)
		if err != nil {
			return err
		}
		rc.reporter.Report(fmt.Sprintf("\n%s", app.DisplayName))
		if err := rc.engine.Uninstall(rc.homeRoot, rc.storageRoot, app.Files()); err != nil {
			return err
		}
	}
	return nil
}

// ListedApp is one row of the list command's output
type ListedApp struct {
	Name        string
	DisplayName string
}

// List returns every known application, custom definitions included
func List() ([]ListedApp, error) {
	homeRoot, err := paths.HomeRoot()
	if err != nil {
		return nil, err
	}
	db, err := appsdb.Load(homeRoot)
	if err != nil {
		return nil, err
	}

	var out []ListedApp
	for _, name := range db.Names() {
		app, err := db.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ListedApp{Name: name, DisplayName: app.DisplayName})
	}
	return out, nil
}
