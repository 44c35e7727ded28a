package fileops_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/fileops"
	"github.com/arthur-debert/homesync/pkg/testutil"
)

func newOps(env *testutil.Env) *fileops.Ops {
	return fileops.New(env.FS, nil)
}

func TestDeleteFile(t *testing.T) {
	env := testutil.NewEnv(t)
	path := env.WriteHome("file", "data")

	require.NoError(t, newOps(env).Delete(path))

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteDirectoryRecursively(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteHome("dir/nested/file", "data")
	path := filepath.Join(env.HomeDir, "dir")

	require.NoError(t, newOps(env).Delete(path))

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteSymlinkLeavesTarget(t *testing.T) {
	env := testutil.NewEnv(t)
	target := env.WriteHome("target", "data")
	link := filepath.Join(env.HomeDir, "link")
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, newOps(env).Delete(link))

	_, err := os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "data", env.ReadFile(target))
}

func TestDeleteMissingPathIsNoOp(t *testing.T) {
	env := testutil.NewEnv(t)
	assert.NoError(t, newOps(env).Delete(filepath.Join(env.HomeDir, "missing")))
}

func TestCopyFile(t *testing.T) {
	env := testutil.NewEnv(t)
	src := env.WriteHome("src", "content")
	dst := filepath.Join(env.StorageDir, "deep", "dst")

	require.NoError(t, newOps(env).Copy(src, dst))

	assert.Equal(t, "content", env.ReadFile(dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permissions are normalized after copy")
}

func TestCopyDirectoryTree(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteHome("dir/a", "A")
	env.WriteHome("dir/sub/b", "B")
	inner := filepath.Join(env.HomeDir, "dir", "link")
	require.NoError(t, os.Symlink("a", inner))

	src := filepath.Join(env.HomeDir, "dir")
	dst := filepath.Join(env.StorageDir, "dir")
	require.NoError(t, newOps(env).Copy(src, dst))

	assert.Equal(t, "A", env.ReadFile(filepath.Join(dst, "a")))
	assert.Equal(t, "B", env.ReadFile(filepath.Join(dst, "sub", "b")))

	target, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "a", target, "internal links are recreated, not followed")

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestCopyMissingSourceFails(t *testing.T) {
	env := testutil.NewEnv(t)
	err := newOps(env).Copy(filepath.Join(env.HomeDir, "missing"), filepath.Join(env.StorageDir, "dst"))
	assert.Error(t, err)
}

func TestNormalizePermissions(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteHome("dir/file", "data")
	dir := filepath.Join(env.HomeDir, "dir")
	require.NoError(t, os.Chmod(dir, 0755))
	require.NoError(t, os.Chmod(filepath.Join(dir, "file"), 0444))

	require.NoError(t, newOps(env).NormalizePermissions(dir))

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(dir, "file"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
}

func TestCreateSymlink(t *testing.T) {
	env := testutil.NewEnv(t)
	target := env.WriteStorage("target", "data")
	link := filepath.Join(env.HomeDir, "deep", "link")

	require.NoError(t, newOps(env).CreateSymlink(target, link))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
	assert.Equal(t, "data", env.ReadFile(link))
}

func TestCreateSymlinkMissingTarget(t *testing.T) {
	env := testutil.NewEnv(t)
	err := newOps(env).CreateSymlink(filepath.Join(env.StorageDir, "missing"), filepath.Join(env.HomeDir, "link"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetMissing))
}

func TestCreateSymlinkExistingLinkPath(t *testing.T) {
	env := testutil.NewEnv(t)
	target := env.WriteStorage("target", "data")
	link := env.WriteHome("link", "occupied")

	err := newOps(env).CreateSymlink(target, link)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	assert.Equal(t, "occupied", env.ReadFile(link))
}
