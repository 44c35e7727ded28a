package relocate

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CanSyncOnPlatform reports whether the tracked path may be restored on
// the current platform. Subfolders of ~/Library are macOS preference
// domains and are never restored on GNU/Linux.
func CanSyncOnPlatform(homeRoot, trackedPath string) bool {
	return canSyncOn(runtime.GOOS, homeRoot, trackedPath)
}

func canSyncOn(goos, homeRoot, trackedPath string) bool {
	if goos != "linux" {
		return true
	}
	fullPath := filepath.Join(homeRoot, trackedPath)
	libraryPath := filepath.Join(homeRoot, "Library")
	// Boundary-aware: ~/LibraryNotes is not inside ~/Library
	return fullPath != libraryPath && !strings.HasPrefix(fullPath, libraryPath+string(filepath.Separator))
}
