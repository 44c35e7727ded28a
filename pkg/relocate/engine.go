// Package relocate implements the per-path file relocation state machine:
// backup moves a live config file into storage and links it back, restore
// recreates links from existing storage, and uninstall materializes real
// copies in the home directory again.
//
// State is always inspected fresh at each decision point and re-inspected
// after every mutation, since user prompts can be arbitrarily long-lived.
package relocate

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/filesystem"
	"github.com/arthur-debert/homesync/pkg/fileops"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/types"
	"github.com/rs/zerolog"
)

// Policy answers confirmation prompts before destructive overwrites
type Policy interface {
	// Confirm asks the user a yes/no question and blocks for the answer
	Confirm(prompt string) bool
}

// Reporter receives the engine's human-readable progress lines
type Reporter interface {
	Report(line string)
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(line string)

func (f ReporterFunc) Report(line string) { f(line) }

// Options configures an Engine
type Options struct {
	// FileSystem allows injecting a filesystem for testing; defaults to OS
	FileSystem types.FS

	// Ops performs the filesystem mutations; defaults to fileops over FileSystem
	Ops *fileops.Ops

	// Policy gates destructive overwrites; required
	Policy Policy

	// Reporter receives progress lines; defaults to discarding them
	Reporter Reporter

	// DryRun reports what would happen without mutating anything.
	// Prompts are never issued in dry-run mode.
	DryRun bool

	// Verbose switches to multi-line reporting and reports skipped paths
	Verbose bool

	// CanSync decides whether a tracked path may be restored on this
	// platform; defaults to CanSyncOnPlatform
	CanSync func(homeRoot, trackedPath string) bool
}

// Engine drives the backup/restore/uninstall transition for tracked paths,
// one path at a time. A path's mutation sequence completes or aborts fully
// before the next path begins.
type Engine struct {
	fs       types.FS
	ops      *fileops.Ops
	policy   Policy
	reporter Reporter
	dryRun   bool
	verbose  bool
	canSync  func(homeRoot, trackedPath string) bool
	logger   zerolog.Logger
}

type discardReporter struct{}

func (discardReporter) Report(string) {}

// New creates an Engine from the given options
func New(opts Options) (*Engine, error) {
	if opts.Policy == nil {
		return nil, errors.New(errors.ErrInvalidInput, "a confirmation policy is required")
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	ops := opts.Ops
	if ops == nil {
		ops = fileops.New(fs, nil)
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = discardReporter{}
	}
	canSync := opts.CanSync
	if canSync == nil {
		canSync = CanSyncOnPlatform
	}

	return &Engine{
		fs:       fs,
		ops:      ops,
		policy:   opts.Policy,
		reporter: reporter,
		dryRun:   opts.DryRun,
		verbose:  opts.Verbose,
		canSync:  canSync,
		logger:   logging.GetLogger("relocate"),
	}, nil
}

// Backup moves each tracked path's home entry into storage and replaces it
// with a symlink. Paths already linked to storage, broken links and absent
// entries are skipped. An existing storage entry is only replaced after
// confirmation; declining skips the path with no mutation.
func (e *Engine) Backup(homeRoot, storageRoot string, trackedPaths []string) error {
	for _, tracked := range sorted(trackedPaths) {
		if err := e.backupOne(homeRoot, storageRoot, tracked); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) backupOne(homeRoot, storageRoot, tracked string) error {
	homePath, storagePath, err := Resolve(homeRoot, storageRoot, tracked)
	if err != nil {
		return err
	}

	homeState := Classify(e.fs, homePath)
	e.logger.Debug().Str("path", tracked).Stringer("home_state", homeState).Msg("Inspecting for backup")

	switch homeState {
	case Absent:
		e.skip("Doing nothing\n  %s\n  does not exist", homePath)
		return nil
	case Unsupported:
		return errors.Newf(errors.ErrUnsupportedEntry, "unsupported entry: %s", homePath)
	case Symlink:
		if !Exists(e.fs, homePath) {
			e.skip("Doing nothing\n  %s\n  is a broken link, you might want to fix it.", homePath)
			return nil
		}
		if SameEntry(e.fs, homePath, storagePath) {
			e.skip("Doing nothing\n  %s\n  is already backed up to\n  %s", homePath, storagePath)
			return nil
		}
		// A link pointing somewhere else is backed up like a real entry
	}

	if e.verbose {
		e.reporter.Report(fmt.Sprintf("Backing up\n  %s\n  to\n  %s ...", homePath, storagePath))
	} else {
		e.reporter.Report(fmt.Sprintf("Backing up %s ...", tracked))
	}

	if e.dryRun {
		return nil
	}

	storageState := Classify(e.fs, storagePath)
	if storageState != Absent {
		if storageState == Unsupported {
			return errors.Newf(errors.ErrUnsupportedEntry, "unsupported entry: %s", storagePath)
		}
		prompt := fmt.Sprintf(
			"A %s named %s already exists in the backup.\nAre you sure that you want to replace it?",
			storageState, storagePath)
		if !e.policy.Confirm(prompt) {
			e.logger.Info().Str("path", tracked).Msg("Backup declined by user")
			return nil
		}
		if err := e.ops.Delete(storagePath); err != nil {
			return err
		}
	}

	if err := e.ops.Copy(homePath, storagePath); err != nil {
		return err
	}
	if err := e.ops.Delete(homePath); err != nil {
		return err
	}
	return e.ops.CreateSymlink(storagePath, homePath)
}

// Restore recreates the home symlink for each tracked path whose storage
// entry exists. An existing home entry is only replaced after
// confirmation. Paths excluded on the current platform are skipped.
func (e *Engine) Restore(homeRoot, storageRoot string, trackedPaths []string) error {
	for _, tracked := range sorted(trackedPaths) {
		if err := e.restoreOne(homeRoot, storageRoot, tracked); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) restoreOne(homeRoot, storageRoot, tracked string) error {
	homePath, storagePath, err := Resolve(homeRoot, storageRoot, tracked)
	if err != nil {
		return err
	}

	storageExists := existsAsFileOrDir(e.fs, storagePath)
	pointing := Classify(e.fs, homePath) == Symlink && SameEntry(e.fs, homePath, storagePath)
	supported := e.canSync(homeRoot, tracked)

	e.logger.Debug().
		Str("path", tracked).
		Bool("storage_exists", storageExists).
		Bool("already_linked", pointing).
		Bool("platform_supported", supported).
		Msg("Inspecting for restore")

	if !storageExists || pointing || !supported {
		// A home entry that resolves wins the skip message over an absent
		// storage entry; a dangling home link reports as broken either way.
		switch {
		case Exists(e.fs, homePath):
			e.skip("Doing nothing\n  %s\n  already linked by\n  %s", storagePath, homePath)
		case Classify(e.fs, homePath) == Symlink:
			e.skip("Doing nothing\n  %s\n  is a broken link, you might want to fix it.", homePath)
		default:
			e.skip("Doing nothing\n  %s\n  does not exist", storagePath)
		}
		return nil
	}

	if e.verbose {
		e.reporter.Report(fmt.Sprintf("Restoring\n  linking %s\n  to      %s ...", homePath, storagePath))
	} else {
		e.reporter.Report(fmt.Sprintf("Restoring %s ...", tracked))
	}

	if e.dryRun {
		return nil
	}

	homeState := Classify(e.fs, homePath)
	if homeState != Absent {
		if homeState == Unsupported {
			return errors.Newf(errors.ErrUnsupportedEntry, "unsupported entry: %s", homePath)
		}
		prompt := fmt.Sprintf(
			"You already have a %s named %s in your home.\nDo you want to replace it with your backup?",
			homeState, tracked)
		if !e.policy.Confirm(prompt) {
			e.logger.Info().Str("path", tracked).Msg("Restore declined by user")
			return nil
		}
		if err := e.ops.Delete(homePath); err != nil {
			return err
		}
	}

	return e.ops.CreateSymlink(storagePath, homePath)
}

// Uninstall copies each tracked path's storage entry back over its home
// entry, breaking the link and materializing a real copy. The storage
// entry itself is left in place. No per-path prompt is issued; invocation
// is the consent.
func (e *Engine) Uninstall(homeRoot, storageRoot string, trackedPaths []string) error {
	for _, tracked := range sorted(trackedPaths) {
		if err := e.uninstallOne(homeRoot, storageRoot, tracked); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) uninstallOne(homeRoot, storageRoot, tracked string) error {
	homePath, storagePath, err := Resolve(homeRoot, storageRoot, tracked)
	if err != nil {
		return err
	}

	if !existsAsFileOrDir(e.fs, storagePath) {
		e.skip("Doing nothing, %s does not exist", storagePath)
		return nil
	}

	// Nothing to revert if the home entry (or the link) is already gone
	if !Exists(e.fs, homePath) {
		return nil
	}

	if e.verbose {
		e.reporter.Report(fmt.Sprintf("Reverting %s\n  at %s ...", storagePath, homePath))
	} else {
		e.reporter.Report(fmt.Sprintf("Reverting %s ...", tracked))
	}

	if e.dryRun {
		return nil
	}

	if err := e.ops.Delete(homePath); err != nil {
		return err
	}
	return e.ops.Copy(storagePath, homePath)
}

// skip reports a skipped path, verbose mode only
func (e *Engine) skip(format string, args ...interface{}) {
	if e.verbose {
		e.reporter.Report(fmt.Sprintf(format, args...))
	}
}

// existsAsFileOrDir reports whether path resolves to a regular file or a
// directory, following symlinks
func existsAsFileOrDir(filesystem types.FS, path string) bool {
	info, err := filesystem.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() || info.IsDir()
}

// sorted returns a sorted copy so runs are deterministic while the
// caller's set stays untouched
func sorted(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}
