package main

// Short messages (one-liners)
const (
	MsgRootShort = "Keep your application settings in sync"
	MsgRootLong = `homesync keeps your application settings in sync between your home
directory and a cloud-synced storage folder (Dropbox, Google Drive,
iCloud Drive or any plain directory).

backup moves a config file into storage and replaces it with a symlink,
restore recreates the symlinks on a fresh machine, and uninstall copies
everything back into your home as real files.`

	MsgBackupShort    = "Back up your configuration files to storage"
	MsgRestoreShort   = "Restore your configuration files from storage"
	MsgUninstallShort = "Copy everything back into home and remove the links"
	MsgListShort      = "List the supported applications"
	MsgVersionShort   = "Print version information"
)
