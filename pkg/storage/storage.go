// Package storage locates the cloud-synced folder that holds the backup.
// The actual file transport is the sync client's job; homesync only needs
// the folder's path.
package storage

import (
	"database/sql"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	// Pure-Go sqlite driver, used to read Google Drive's sync_config.db
	_ "github.com/glebarez/go-sqlite"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
)

// Supported storage engines
const (
	EngineDropbox     = "dropbox"
	EngineGoogleDrive = "google_drive"
	EngineICloud      = "icloud"
	EngineFileSystem  = "file_system"
)

// Locate returns the sync root for the given engine. configuredPath is
// only consulted by the file_system engine, where it is taken relative to
// home. Failure to locate the folder is fatal for the run.
func Locate(engine, homeRoot, configuredPath string) (string, error) {
	logger := logging.GetLogger("storage")
	logger.Debug().Str("engine", engine).Msg("Locating sync root")

	switch engine {
	case EngineDropbox:
		return dropboxFolder(homeRoot)
	case EngineGoogleDrive:
		return googleDriveFolder(homeRoot)
	case EngineICloud:
		return icloudFolder(homeRoot)
	case EngineFileSystem:
		return filepath.Join(homeRoot, configuredPath), nil
	default:
		return "", errors.Newf(errors.ErrEngineUnknown, "unknown storage engine: %s", engine)
	}
}

// dropboxFolder reads the Dropbox host.db, whose second token is the
// base64-encoded path of the synced folder
func dropboxFolder(homeRoot string) (string, error) {
	hostDB := filepath.Join(homeRoot, ".dropbox", "host.db")

	data, err := os.ReadFile(hostDB)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrStorageNotFound, "unable to find the Dropbox install")
	}

	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return "", errors.Newf(errors.ErrStorageNotFound, "unexpected Dropbox host.db format in %s", hostDB)
	}

	decoded, err := base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrStorageNotFound, "unable to decode the Dropbox folder path")
	}

	return string(decoded), nil
}

// googleDriveFolder reads local_sync_root_path from the Drive client's
// sync_config.db. Two db locations are known, the user_default one being
// the newer.
func googleDriveFolder(homeRoot string) (string, error) {
	candidates := []string{
		filepath.Join(homeRoot, "Library", "Application Support", "Google", "Drive", "user_default", "sync_config.db"),
		filepath.Join(homeRoot, "Library", "Application Support", "Google", "Drive", "sync_config.db"),
	}

	for _, dbPath := range candidates {
		if _, err := os.Stat(dbPath); err != nil {
			continue
		}
		root, err := readDriveSyncRoot(dbPath)
		if err != nil {
			return "", err
		}
		if root != "" {
			return root, nil
		}
	}

	return "", errors.New(errors.ErrStorageNotFound, "unable to find the Google Drive install")
}

func readDriveSyncRoot(dbPath string) (string, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrStorageNotFound, "unable to open %s", dbPath)
	}
	defer func() { _ = db.Close() }()

	var root string
	err = db.QueryRow("SELECT data_value FROM data WHERE entry_key = 'local_sync_root_path'").Scan(&root)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrStorageNotFound, "unable to read sync root from %s", dbPath)
	}
	return root, nil
}

// icloudFolder returns the iCloud Drive folder, which lives at a fixed
// location
func icloudFolder(homeRoot string) (string, error) {
	icloudHome := filepath.Join(homeRoot, "Library", "Mobile Documents", "com~apple~CloudDocs")

	info, err := os.Stat(icloudHome)
	if err != nil || !info.IsDir() {
		return "", errors.New(errors.ErrStorageNotFound, "unable to find the iCloud Drive folder")
	}

	return icloudHome, nil
}
