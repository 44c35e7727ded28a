package relocate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/homesync/pkg/relocate"
	"github.com/arthur-debert/homesync/pkg/testutil"
)

func TestClassify(t *testing.T) {
	env := testutil.NewEnv(t)

	filePath := env.WriteHome("file", "data")
	dirPath := filepath.Join(env.HomeDir, "dir")
	require.NoError(t, os.Mkdir(dirPath, 0755))
	linkPath := filepath.Join(env.HomeDir, "link")
	require.NoError(t, os.Symlink(filePath, linkPath))
	danglingPath := filepath.Join(env.HomeDir, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(env.HomeDir, "gone"), danglingPath))

	tests := []struct {
		name string
		path string
		want relocate.FileState
	}{
		{"regular file", filePath, relocate.RegularFile},
		{"directory", dirPath, relocate.Directory},
		{"symlink", linkPath, relocate.Symlink},
		{"dangling symlink", danglingPath, relocate.Symlink},
		{"absent", filepath.Join(env.HomeDir, "missing"), relocate.Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relocate.Classify(env.FS, tt.path))
		})
	}
}

func TestFileStateString(t *testing.T) {
	assert.Equal(t, "file", relocate.RegularFile.String())
	assert.Equal(t, "folder", relocate.Directory.String())
	assert.Equal(t, "link", relocate.Symlink.String())
}

func TestSameEntry(t *testing.T) {
	env := testutil.NewEnv(t)

	filePath := env.WriteHome("file", "data")
	otherPath := env.WriteHome("other", "data")
	linkPath := filepath.Join(env.HomeDir, "link")
	require.NoError(t, os.Symlink(filePath, linkPath))

	assert.True(t, relocate.SameEntry(env.FS, linkPath, filePath))
	assert.True(t, relocate.SameEntry(env.FS, filePath, filePath))
	assert.False(t, relocate.SameEntry(env.FS, linkPath, otherPath))
	assert.False(t, relocate.SameEntry(env.FS, filePath, filepath.Join(env.HomeDir, "missing")))
}

func TestExists(t *testing.T) {
	env := testutil.NewEnv(t)

	filePath := env.WriteHome("file", "data")
	danglingPath := filepath.Join(env.HomeDir, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(env.HomeDir, "gone"), danglingPath))

	assert.True(t, relocate.Exists(env.FS, filePath))
	assert.False(t, relocate.Exists(env.FS, danglingPath), "a dangling link does not exist")
	assert.False(t, relocate.Exists(env.FS, filepath.Join(env.HomeDir, "missing")))
}
