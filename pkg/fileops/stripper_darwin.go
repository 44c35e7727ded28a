//go:build darwin

package fileops

// darwinStripper shells out to the macOS chmod and chflags tools
type darwinStripper struct{}

func newPlatformStripper() SecurityAttributeStripper {
	return darwinStripper{}
}

func (darwinStripper) StripACL(path string) {
	runQuiet("/bin/chmod", "-R", "-N", path)
}

func (darwinStripper) StripImmutable(path string) {
	runQuiet("/usr/bin/chflags", "-R", "nouchg", path)
}
