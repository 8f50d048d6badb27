package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Item is one confirmed path.
type Item struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	IsDir      bool   `json:"isDirectory"`
	Type       string `json:"type,omitempty"`
	Mountpoint string `json:"mountpoint,omitempty"`
	Size       int64  `json:"size"`
}

// Summary captures high-level details of a selection session.
type Summary struct {
	StartDir   string
	StartedAt  time.Time
	FinishedAt time.Time
	Selected   int
	Dropped    int
	JSONPath   string
}

// WriteMarkdown writes a Markdown report of items to path. If path is empty,
// it derives a safe filename from s.StartDir.
func WriteMarkdown(path string, items []Item, s Summary) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = fmt.Sprintf("%s.md", safeBase(s.StartDir))
	}

	var buf bytes.Buffer
	buf.WriteString("## Media Selection\n\n")
	buf.WriteString(fmt.Sprintf("- **Start**: %s\n", escapeMD(s.StartDir)))
	buf.WriteString(fmt.Sprintf("- **Started**: %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST")))
	buf.WriteString(fmt.Sprintf("- **Finished**: %s\n", s.FinishedAt.Format("2006-01-02 15:04:05 MST")))
	buf.WriteString(fmt.Sprintf("- **Selected**: %d  •  **Dropped**: %d\n", s.Selected, s.Dropped))
	if s.JSONPath != "" {
		buf.WriteString(fmt.Sprintf("- **JSON**: %s\n", escapeMD(filepath.Base(s.JSONPath))))
	}
	buf.WriteString("\n")

	// group by mountpoint
	byMount := make(map[string][]Item)
	for _, it := range items {
		byMount[it.Mountpoint] = append(byMount[it.Mountpoint], it)
	}
	var mounts []string
	for m := range byMount {
		mounts = append(mounts, m)
	}
	sort.Strings(mounts)

	for _, m := range mounts {
		title := m
		if title == "" {
			title = "unknown volume"
		}
		buf.WriteString(fmt.Sprintf("### %s\n\n", escapeMD(title)))
		buf.WriteString("| Path | Type | Size |\n|---|---|---|\n")
		for _, it := range byMount[m] {
			kind := it.Type
			if it.IsDir {
				kind = "directory"
			}
			buf.WriteString(fmt.Sprintf("| [%s](%s) | %s | %s |\n",
				escapeMD(it.Name), escapeLinkPath(it.Path), escapeMD(kind), sizeCell(it)))
		}
		buf.WriteString("\n")
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

func safeBase(dir string) string {
	base := filepath.Base(dir)
	if strings.TrimSpace(base) == "" || base == "." || base == string(filepath.Separator) {
		base = "selection"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func sizeCell(it Item) string {
	if it.IsDir {
		return ""
	}
	return fmt.Sprintf("%d", it.Size)
}

func escapeMD(s string) string {
	// Basic HTML escape to be safe in Markdown table cells
	s = html.EscapeString(s)
	return strings.ReplaceAll(s, "|", "&#124;")
}

// escapeLinkPath escapes a path for inclusion in a Markdown link URL.
// Only spaces and parentheses are encoded.
func escapeLinkPath(p string) string {
	p = strings.ReplaceAll(p, " ", "%20")
	p = strings.ReplaceAll(p, "(", "%28")
	p = strings.ReplaceAll(p, ")", "%29")
	return p
}
