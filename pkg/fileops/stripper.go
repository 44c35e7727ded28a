package fileops

import (
	"os"
	"os/exec"

	"github.com/arthur-debert/homesync/pkg/logging"
)

// SecurityAttributeStripper removes extended permission bits that can block
// deletion or chmod even with owner write access. Both operations are
// best-effort: a missing tool or a failed invocation is not an error.
type SecurityAttributeStripper interface {
	// StripACL removes access control lists from path, recursively.
	StripACL(path string)

	// StripImmutable removes immutable/append-only flags from path, recursively.
	StripImmutable(path string)
}

// NewStripper selects the stripper for the current platform.
// Platforms without ACL/immutable-flag tooling get a no-op.
func NewStripper() SecurityAttributeStripper {
	return newPlatformStripper()
}

// noopStripper is used where no stripping mechanism is available
type noopStripper struct{}

func (noopStripper) StripACL(string)       {}
func (noopStripper) StripImmutable(string) {}

// runQuiet invokes an external tool, swallowing any failure.
// Absence of the tool is expected on minimal systems.
func runQuiet(tool string, args ...string) {
	if _, err := os.Stat(tool); err != nil {
		return
	}
	if err := exec.Command(tool, args...).Run(); err != nil {
		logger := logging.GetLogger("fileops.stripper")
		logger.Trace().Err(err).Str("tool", tool).Strs("args", args).Msg("attribute strip failed, ignoring")
	}
}
