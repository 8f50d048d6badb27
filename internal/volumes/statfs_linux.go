//go:build linux

package volumes

import "golang.org/x/sys/unix"

// capacity returns the size in bytes of the filesystem mounted at path, or 0.
func capacity(path string) uint64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0
	}
	return st.Blocks * uint64(st.Bsize)
}
