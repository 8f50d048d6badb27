package volumes

import (
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"mediabrowse/internal/logging"
)

// MountTable holds the known mountpoints, each with a trailing separator and
// sorted descending, so the first prefix match is the most specific one.
type MountTable struct {
	partitions  []Partition
	mountpoints []string
}

// NewMountTable builds a table from a fixed partition list.
func NewMountTable(parts []Partition) *MountTable {
	t := &MountTable{}
	t.set(parts)
	return t
}

// Refresh rebuilds the table from src. On error the previous table stays in
// place, so calling it at any time is safe.
func (t *MountTable) Refresh(src Source) error {
	parts, err := src.Partitions()
	if err != nil {
		logging.Named("volumes").Warn("mount refresh failed, keeping previous table", zap.Error(err))
		return err
	}
	t.set(parts)
	logging.Named("volumes").Debug("mount table refreshed", zap.Strings("mountpoints", t.mountpoints))
	return nil
}

func (t *MountTable) set(parts []Partition) {
	mps := make([]string, 0, len(parts))
	for _, p := range parts {
		mps = append(mps, WithSlash(p.Mountpoint))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(mps)))
	t.partitions = append([]Partition(nil), parts...)
	t.mountpoints = mps
}

// Partitions returns the partitions of the last refresh, in source order.
func (t *MountTable) Partitions() []Partition {
	return append([]Partition(nil), t.partitions...)
}

// Mountpoints returns the sorted mountpoint prefixes.
func (t *MountTable) Mountpoints() []string {
	return append([]string(nil), t.mountpoints...)
}

// OwnerOf returns the longest mountpoint that is a prefix of the resolved
// path, or "" when the path is not on any known mount.
func (t *MountTable) OwnerOf(path string) string {
	file := WithSlash(RealPath(path))
	for _, m := range t.mountpoints {
		if strings.HasPrefix(file, m) {
			return m
		}
	}
	return ""
}

// OwnerOfLink is OwnerOf for paths that may go through a symlink. It walks up
// from path while the owning mountpoint stays the same and returns the
// highest such ancestor, so a link like /hdd -> /media/hdd yields "/hdd/".
func (t *MountTable) OwnerOfLink(path string) string {
	file := filepath.Clean(path)
	if RealPath(file) == file {
		return t.OwnerOf(file)
	}
	mp := t.OwnerOf(file)
	last := file
	file = filepath.Dir(file)
	for last != "/" && mp == t.OwnerOf(file) {
		last = file
		file = filepath.Dir(file)
	}
	return WithSlash(last)
}

// RealPath makes path absolute and resolves symlinks in the longest existing
// prefix; the missing remainder is kept as is.
func RealPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r
	}
	dir := filepath.Dir(abs)
	if dir == abs {
		return abs
	}
	return filepath.Join(RealPath(dir), filepath.Base(abs))
}

// WithSlash appends a trailing separator unless one is present.
func WithSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
