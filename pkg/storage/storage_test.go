package storage_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/storage"
)

func TestLocateFileSystem(t *testing.T) {
	home := t.TempDir()

	root, err := storage.Locate(storage.EngineFileSystem, home, "SyncDrive")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "SyncDrive"), root)
}

func TestLocateDropbox(t *testing.T) {
	home := t.TempDir()
	dropboxDir := filepath.Join(home, "Dropbox")
	encoded := base64.StdEncoding.EncodeToString([]byte(dropboxDir))
	hostDB := "somehash " + encoded + "\n"

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".dropbox"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".dropbox", "host.db"), []byte(hostDB), 0644))

	root, err := storage.Locate(storage.EngineDropbox, home, "")
	require.NoError(t, err)
	assert.Equal(t, dropboxDir, root)
}

func TestLocateDropboxMissingInstall(t *testing.T) {
	home := t.TempDir()

	_, err := storage.Locate(storage.EngineDropbox, home, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStorageNotFound))
}

func TestLocateDropboxMalformedHostDB(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".dropbox"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".dropbox", "host.db"), []byte("onlyonefield"), 0644))

	_, err := storage.Locate(storage.EngineDropbox, home, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStorageNotFound))
}

func TestLocateICloud(t *testing.T) {
	home := t.TempDir()
	icloud := filepath.Join(home, "Library", "Mobile Documents", "com~apple~CloudDocs")
	require.NoError(t, os.MkdirAll(icloud, 0755))

	root, err := storage.Locate(storage.EngineICloud, home, "")
	require.NoError(t, err)
	assert.Equal(t, icloud, root)
}

func TestLocateICloudMissing(t *testing.T) {
	home := t.TempDir()

	_, err := storage.Locate(storage.EngineICloud, home, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStorageNotFound))
}

func TestLocateGoogleDriveMissingInstall(t *testing.T) {
	home := t.TempDir()

	_, err := storage.Locate(storage.EngineGoogleDrive, home, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStorageNotFound))
}

func TestLocateUnknownEngine(t *testing.T) {
	_, err := storage.Locate("carrier-pigeon", t.TempDir(), "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEngineUnknown))
}
