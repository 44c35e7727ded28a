//go:build linux

package fileops

// linuxStripper shells out to setfacl and chattr
type linuxStripper struct{}

func newPlatformStripper() SecurityAttributeStripper {
	return linuxStripper{}
}

func (linuxStripper) StripACL(path string) {
	runQuiet("/bin/setfacl", "-R", "-b", path)
}

func (linuxStripper) StripImmutable(path string) {
	runQuiet("/usr/bin/chattr", "-R", "-f", "-i", path)
}
