package relocate_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/relocate"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		tracked     string
		wantHome    string
		wantStorage string
		wantErr     bool
	}{
		{
			name:        "plain file",
			tracked:     ".vimrc",
			wantHome:    "/home/user/.vimrc",
			wantStorage: "/home/user/Dropbox/homesync/.vimrc",
		},
		{
			name:        "nested path",
			tracked:     ".config/git/config",
			wantHome:    "/home/user/.config/git/config",
			wantStorage: "/home/user/Dropbox/homesync/.config/git/config",
		},
		{
			name:    "absolute path rejected",
			tracked: "/etc/passwd",
			wantErr: true,
		},
		{
			name:    "empty path rejected",
			tracked: "",
			wantErr: true,
		},
		{
			name:    "dot rejected",
			tracked: ".",
			wantErr: true,
		},
		{
			name:    "escape rejected",
			tracked: "../outside",
			wantErr: true,
		},
		{
			name:    "storage folder itself rejected",
			tracked: "Dropbox/homesync",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, storage, err := relocate.Resolve("/home/user", "/home/user/Dropbox/homesync", tt.tracked)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.wantHome), home)
			assert.Equal(t, filepath.FromSlash(tt.wantStorage), storage)
		})
	}
}
