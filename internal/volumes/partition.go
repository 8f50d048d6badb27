// Package volumes enumerates mounted storage and resolves the mountpoint
// that owns a path.
package volumes

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Partition is one mounted storage volume.
type Partition struct {
	Mountpoint  string
	Description string
	Device      string
	FSType      string
}

// Source enumerates the partitions that are currently mounted.
type Source interface {
	Partitions() ([]Partition, error)
}

// Static is a fixed partition list, used for configured mounts and tests.
type Static []Partition

// Partitions returns a copy of the list.
func (s Static) Partitions() ([]Partition, error) {
	return append([]Partition(nil), s...), nil
}

// ParseStatic parses "mountpoint=description" specs. A missing description
// defaults to the mountpoint's base name.
func ParseStatic(specs []string) (Static, error) {
	var out Static
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		mp, desc, _ := strings.Cut(spec, "=")
		mp = strings.TrimSpace(mp)
		if !filepath.IsAbs(mp) {
			return nil, fmt.Errorf("mount %q: mountpoint must be absolute", spec)
		}
		desc = strings.TrimSpace(desc)
		if desc == "" {
			desc = describe(mp)
		}
		out = append(out, Partition{Mountpoint: filepath.Clean(mp), Description: desc})
	}
	return out, nil
}

// ProcMounts reads a mount table in /proc/mounts format and keeps the root
// filesystem plus everything mounted below MediaRoot.
type ProcMounts struct {
	Path      string // defaults to /proc/self/mounts
	MediaRoot string // defaults to /media
}

// Partitions parses the mount table.
func (p ProcMounts) Partitions() ([]Partition, error) {
	path := p.Path
	if path == "" {
		path = "/proc/self/mounts"
	}
	mediaRoot := p.MediaRoot
	if mediaRoot == "" {
		mediaRoot = "/media"
	}
	mediaPrefix := WithSlash(filepath.Clean(mediaRoot))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading mount table %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var out []Partition
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mp := unescapeMount(fields[1])
		if mp != "/" && !strings.HasPrefix(mp, mediaPrefix) {
			continue
		}
		if _, ok := seen[mp]; ok {
			continue
		}
		seen[mp] = struct{}{}
		desc := describe(mp)
		if size := capacity(mp); size > 0 {
			desc = fmt.Sprintf("%s (%s)", desc, humanSize(size))
		}
		out = append(out, Partition{
			Mountpoint:  mp,
			Description: desc,
			Device:      fields[0],
			FSType:      fields[2],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading mount table %s: %w", path, err)
	}
	return out, nil
}

// unescapeMount decodes the octal escapes (\040 for space and friends) the
// kernel uses in mount tables.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var knownMounts = map[string]string{
	"hdd":    "Harddisk",
	"usb":    "USB stick",
	"net":    "Network mount",
	"cf":     "Compact flash",
	"mmc":    "SD card",
	"sdcard": "SD card",
}

func describe(mp string) string {
	if mp == "/" {
		return "Internal flash"
	}
	base := filepath.Base(mp)
	if d, ok := knownMounts[strings.ToLower(base)]; ok {
		return d
	}
	return base
}

func humanSize(b uint64) string {
	const unit = 1000
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "kMGTPE"[exp])
}
