//go:build !darwin && !linux

package fileops

func newPlatformStripper() SecurityAttributeStripper {
	return noopStripper{}
}
