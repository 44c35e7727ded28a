// Package testutil provides isolated test environments and the small
// doubles the engine tests need.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homesync/pkg/filesystem"
	"github.com/arthur-debert/homesync/pkg/types"
)

// Env is an isolated home/storage pair on the real filesystem
type Env struct {
	HomeDir    string
	StorageDir string
	FS         types.FS

	t *testing.T
}

// NewEnv creates a temp home and storage directory and points HOME at the
// former for the duration of the test
func NewEnv(t *testing.T) *Env {
	t.Helper()

	root := t.TempDir()
	homeDir := filepath.Join(root, "home")
	storageDir := filepath.Join(root, "storage")
	for _, dir := range []string{homeDir, storageDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", homeDir)

	return &Env{
		HomeDir:    homeDir,
		StorageDir: storageDir,
		FS:         filesystem.NewOS(),
		t:          t,
	}
}

// WriteHome writes a file under the home directory, creating parents
func (e *Env) WriteHome(rel, content string) string {
	return e.write(filepath.Join(e.HomeDir, rel), content)
}

// WriteStorage writes a file under the storage directory, creating parents
func (e *Env) WriteStorage(rel, content string) string {
	return e.write(filepath.Join(e.StorageDir, rel), content)
}

func (e *Env) write(path, content string) string {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content at path, failing the test on error
func (e *Env) ReadFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		e.t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// IsSymlinkTo reports whether link is a symlink resolving to target
func (e *Env) IsSymlinkTo(link, target string) bool {
	e.t.Helper()
	info, err := os.Lstat(link)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	linkInfo, err := os.Stat(link)
	if err != nil {
		return false
	}
	targetInfo, err := os.Stat(target)
	if err != nil {
		return false
	}
	return os.SameFile(linkInfo, targetInfo)
}

// RecordingReporter captures every reported line
type RecordingReporter struct {
	Lines []string
}

// Report implements relocate.Reporter
func (r *RecordingReporter) Report(line string) {
	r.Lines = append(r.Lines, line)
}

// StaticPolicy answers every prompt the same way and records the prompts
type StaticPolicy struct {
	Answer  bool
	Prompts []string
}

// Confirm implements relocate.Policy
func (p *StaticPolicy) Confirm(prompt string) bool {
	p.Prompts = append(p.Prompts, prompt)
	return p.Answer
}
