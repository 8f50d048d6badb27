package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediabrowse/internal/filelist"
)

// Items describes each path with what the filesystem and mount table report.
// Paths that fail to stat are skipped.
func Items(paths []string, ownerOf func(string) string) []Item {
	out := make([]Item, 0, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		it := Item{Path: p, Name: filepath.Base(p), IsDir: fi.IsDir()}
		if !it.IsDir {
			it.Size = fi.Size()
			it.Type = string(filelist.MediaTypeOf(p))
		}
		if ownerOf != nil {
			it.Mountpoint = ownerOf(p)
		}
		out = append(out, it)
	}
	return out
}

// WriteJSON writes items as an indented JSON array to path.
func WriteJSON(path string, items []Item) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("json report: empty path")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if items == nil {
		items = []Item{}
	}
	return enc.Encode(items)
}
