//go:build linux || darwin

package fileops_test

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/testutil"
)

func TestCopyFIFOFailsWithNothingCopied(t *testing.T) {
	env := testutil.NewEnv(t)
	fifo := filepath.Join(env.HomeDir, "fifo")
	require.NoError(t, syscall.Mkfifo(fifo, 0600))

	dst := filepath.Join(env.StorageDir, "fifo")
	err := newOps(env).Copy(fifo, dst)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedEntry))

	_, statErr := os.Lstat(dst)
	assert.True(t, os.IsNotExist(statErr), "no partial copy is left behind")
}
