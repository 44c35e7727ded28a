package relocate

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/homesync/pkg/errors"
)

// Resolve maps a tracked relative path to its two absolute locations:
// the live location under the home root and the backed-up location under
// the storage root. Pure path joining, no filesystem access.
//
// Absolute tracked paths are rejected, as is anything that would make the
// home-side entry collide with the storage root itself (a link there
// would point the storage folder at its own content).
func Resolve(homeRoot, storageRoot, trackedPath string) (homePath, storagePath string, err error) {
	if trackedPath == "" {
		return "", "", errors.New(errors.ErrInvalidPath, "tracked path is empty")
	}
	if filepath.IsAbs(trackedPath) {
		return "", "", errors.Newf(errors.ErrInvalidPath, "unsupported absolute path: %s", trackedPath)
	}

	cleaned := filepath.Clean(trackedPath)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", "", errors.Newf(errors.ErrInvalidPath, "tracked path escapes its root: %s", trackedPath)
	}

	homePath = filepath.Join(homeRoot, cleaned)
	storagePath = filepath.Join(storageRoot, cleaned)

	if homePath == storageRoot {
		return "", "", errors.Newf(errors.ErrInvalidPath, "tracked path refers to the storage folder itself: %s", trackedPath)
	}

	return homePath, storagePath, nil
}
