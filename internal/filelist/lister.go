package filelist

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"mediabrowse/internal/logging"
	"mediabrowse/internal/volumes"
)

// Labels of the synthetic rows.
const (
	LabelStorageList = "<List of storage devices>"
	LabelParent      = "<Parent directory>"
	LabelNothing     = "nothing connected"
)

// Options configures a Lister.
type Options struct {
	ShowDirectories bool
	ShowFiles       bool
	ShowMountpoints bool

	// Pattern filters files by full path; nil keeps every file.
	Pattern Matcher

	// InhibitDirs hides directories resolving below any of these prefixes.
	InhibitDirs []string
	// InhibitMounts hides directories on these mountpoints and stops the
	// parent row from leaving them.
	InhibitMounts []string

	// IsTop suppresses the parent row everywhere; TopDir only at that directory.
	IsTop  bool
	TopDir string

	// IgnoreLines are gitignore-style patterns for paths relative to TopDir.
	// A .browseignore file in TopDir is added to them.
	IgnoreLines []string

	// Services lists directories instead of the filesystem when set.
	Services             ServiceLister
	AdditionalExtensions string

	EnableWrapAround bool
}

// DefaultOptions shows directories, files and the storage list.
func DefaultOptions() Options {
	return Options{ShowDirectories: true, ShowFiles: true, ShowMountpoints: true}
}

// Lister lists directories and keeps the browsing position.
type Lister struct {
	opts   Options
	source volumes.Source
	mounts *volumes.MountTable
	ignore *ignore.GitIgnore

	current      string
	currentMount string
	entries      []Entry
	cursor       int

	// set by MultiSelect
	decorate      func(*Entry)
	noPlaceholder bool
}

// New builds a Lister over the volumes reported by src and lists directory.
// A failing source starts with an empty mount table.
func New(directory string, src volumes.Source, opts Options) *Lister {
	l := newLister(src, opts)
	l.ChangeDir(directory, "")
	return l
}

func newLister(src volumes.Source, opts Options) *Lister {
	if src == nil {
		src = volumes.Static(nil)
	}
	top := opts.TopDir
	if top != "" {
		top = volumes.WithSlash(filepath.Clean(top))
		opts.TopDir = top
	}
	l := &Lister{
		opts:   opts,
		source: src,
		mounts: volumes.NewMountTable(nil),
		ignore: loadIgnore(top, opts.IgnoreLines),
	}
	l.RefreshMountpoints()
	return l
}

func logger() *zap.Logger { return logging.Named("filelist") }

// RefreshMountpoints rebuilds the mount table from the volume source.
func (l *Lister) RefreshMountpoints() {
	_ = l.mounts.Refresh(l.source)
}

// OwnerOf returns the mountpoint holding path, "" if none.
func (l *Lister) OwnerOf(path string) string { return l.mounts.OwnerOf(path) }

// OwnerOfLink resolves the mountpoint as seen through symlinks in path.
func (l *Lister) OwnerOfLink(path string) string { return l.mounts.OwnerOfLink(path) }

// List returns the rows for directory. A nil pattern uses the configured one.
// Unreadable directories list as empty.
func (l *Lister) List(directory string, pattern Matcher) []Entry {
	if pattern == nil {
		pattern = l.opts.Pattern
	}
	directory = cleanDir(directory)

	var list []Entry
	var dirs []string
	var files []Entry

	switch {
	case directory == StorageRoot && l.opts.ShowMountpoints:
		for _, p := range l.mounts.Partitions() {
			path := volumes.WithSlash(p.Mountpoint)
			if slices.Contains(l.opts.InhibitMounts, path) || l.inParentDirs(path, l.opts.InhibitDirs) {
				continue
			}
			list = append(list, l.entry(Entry{
				Name:       p.Description,
				Path:       path,
				IsDir:      true,
				Kind:       KindDir,
				Ref:        PathRef(path),
				Mountpoint: path,
			}))
		}
	case directory == StorageRoot:
	case l.opts.Services != nil:
		dirs, files = l.listServices(directory)
	default:
		dirs, files = l.listFilesystem(directory)
	}

	if l.opts.ShowDirectories {
		if directory != StorageRoot && !l.opts.IsTop && directory != l.opts.TopDir {
			if directory == l.currentMount && l.opts.ShowMountpoints {
				list = append(list, l.entry(Entry{Name: LabelStorageList, IsDir: true, Kind: KindStorageList}))
			} else if directory != "/" && !l.mountInhibited(directory) {
				parent := parentDir(directory)
				list = append(list, l.entry(Entry{Name: LabelParent, Path: parent, IsDir: true, Kind: KindParent, Ref: PathRef(parent)}))
			}
		}
		for _, d := range dirs {
			if l.mountInhibited(d) || l.inParentDirs(d, l.opts.InhibitDirs) || l.ignored(d) {
				continue
			}
			list = append(list, l.entry(Entry{
				Name:       filepath.Base(d),
				Path:       d,
				IsDir:      true,
				Kind:       KindDir,
				Ref:        PathRef(d),
				Mountpoint: l.mounts.OwnerOf(d),
			}))
		}
	}

	if l.opts.ShowFiles {
		for _, f := range files {
			if pattern != nil && !pattern.Match(f.Path) {
				continue
			}
			if l.ignored(f.Path) {
				continue
			}
			f.Mountpoint = l.mounts.OwnerOf(f.Path)
			list = append(list, l.entry(f))
		}
	}

	if l.opts.ShowMountpoints && len(list) == 0 && !l.noPlaceholder {
		list = append(list, Entry{Name: LabelNothing, Kind: KindPlaceholder})
	}
	return list
}

func (l *Lister) entry(e Entry) Entry {
	if l.decorate != nil {
		l.decorate(&e)
	}
	return e
}

// listFilesystem returns sorted subdirectory paths (with trailing separator)
// and sorted file entries of directory.
func (l *Lister) listFilesystem(directory string) ([]string, []Entry) {
	if st, err := os.Stat(directory); err != nil || !st.IsDir() {
		logger().Debug("not a directory", zap.String("dir", directory))
		return nil, nil
	}
	des, err := os.ReadDir(directory)
	if err != nil {
		logger().Debug("listing failed", zap.String("dir", directory),
			zap.Error(fmt.Errorf("%w: %w", ErrDirectoryUnreadable, err)))
		return nil, nil
	}
	names := make([]string, 0, len(des))
	isDir := make(map[string]bool, len(des))
	for _, de := range des {
		names = append(names, de.Name())
		dir := de.IsDir()
		if de.Type()&fs.ModeSymlink != 0 {
			if st, err := os.Stat(directory + de.Name()); err == nil {
				dir = st.IsDir()
			}
		}
		isDir[de.Name()] = dir
	}
	sort.Strings(names)

	var dirs []string
	var files []Entry
	for _, n := range names {
		path := directory + n
		if isDir[n] {
			dirs = append(dirs, path+"/")
			continue
		}
		files = append(files, Entry{Name: n, Path: path, Kind: KindFile, Ref: PathRef(path), Type: MediaTypeOf(n)})
	}
	return dirs, files
}

func (l *Lister) listServices(directory string) ([]string, []Entry) {
	refs, err := l.opts.Services.List(directory, l.opts.AdditionalExtensions)
	if err != nil {
		logger().Debug("service listing failed", zap.String("dir", directory),
			zap.Error(fmt.Errorf("%w: %w", ErrDirectoryUnreadable, err)))
		return nil, nil
	}
	var dirs []string
	var files []Entry
	for _, r := range refs {
		if r.MustDescend {
			dirs = append(dirs, volumes.WithSlash(r.Path))
			continue
		}
		name := r.Name
		if name == "" {
			name = filepath.Base(r.Path)
		}
		files = append(files, Entry{Name: name, Path: r.Path, Kind: KindFile, Ref: ServiceRefOf(r), Type: MediaTypeOf(r.Path)})
	}
	sort.Strings(dirs)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return dirs, files
}

func (l *Lister) mountInhibited(path string) bool {
	return len(l.opts.InhibitMounts) > 0 && slices.Contains(l.opts.InhibitMounts, l.mounts.OwnerOf(path))
}

// inParentDirs reports whether path resolves below one of parents.
func (l *Lister) inParentDirs(path string, parents []string) bool {
	if len(parents) == 0 {
		return false
	}
	resolved := volumes.WithSlash(volumes.RealPath(path))
	for _, p := range parents {
		if strings.HasPrefix(resolved, volumes.WithSlash(filepath.Clean(p))) {
			return true
		}
	}
	return false
}

func (l *Lister) ignored(path string) bool {
	if l.ignore == nil {
		return false
	}
	rel := filepath.Base(path)
	if l.opts.TopDir != "" {
		r, err := filepath.Rel(l.opts.TopDir, path)
		if err != nil || strings.HasPrefix(r, "..") {
			return false
		}
		rel = r
	}
	if strings.HasSuffix(path, "/") {
		rel += "/"
	}
	return l.ignore.MatchesPath(rel)
}

// ChangeDir lists directory and puts the cursor on the row whose target is
// selectPath, or on the first row.
func (l *Lister) ChangeDir(directory, selectPath string) {
	directory = cleanDir(directory)
	// entering from the storage list: remember which mount we came in through
	if l.current == StorageRoot {
		if directory != StorageRoot && l.opts.ShowMountpoints {
			l.currentMount = l.mounts.OwnerOfLink(directory)
		} else {
			l.currentMount = ""
		}
	}
	l.current = directory
	l.entries = l.List(directory, nil)
	l.cursor = 0
	if selectPath != "" {
		for i, e := range l.entries {
			if e.Ref.Path() == selectPath {
				l.cursor = i
			}
		}
	}
	logger().Debug("changed directory", zap.String("dir", directory), zap.Int("entries", len(l.entries)))
}

// Refresh re-lists the current directory keeping the cursor on the same target.
func (l *Lister) Refresh() {
	l.ChangeDir(l.current, l.Filename())
}

// PartitionsChanged is the storage-change callback: it rebuilds the mount
// table and re-lists if the storage list is showing.
func (l *Lister) PartitionsChanged() {
	l.RefreshMountpoints()
	if l.current == StorageRoot {
		l.Refresh()
	}
}

// CurrentDirectory returns the listed directory, StorageRoot for the volumes.
func (l *Lister) CurrentDirectory() string { return l.current }

// CurrentMountpoint is the mountpoint the user entered from the storage list.
func (l *Lister) CurrentMountpoint() string { return l.currentMount }

// Entries returns the current rows.
func (l *Lister) Entries() []Entry { return l.entries }

// Cursor returns the index of the highlighted row.
func (l *Lister) Cursor() int { return l.cursor }

// Current returns the highlighted row.
func (l *Lister) Current() (Entry, bool) {
	if l.cursor < 0 || l.cursor >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[l.cursor], true
}

// CanDescend reports whether the highlighted row is a directory.
func (l *Lister) CanDescend() bool {
	e, ok := l.Current()
	return ok && e.IsDir
}

// Descend enters the highlighted directory and highlights the one we left.
func (l *Lister) Descend() {
	e, ok := l.Current()
	if !ok || !e.IsDir {
		return
	}
	l.ChangeDir(e.Ref.Path(), l.current)
}

// Filename returns the target path of the highlighted row.
func (l *Lister) Filename() string {
	e, ok := l.Current()
	if !ok {
		return ""
	}
	return e.Ref.Path()
}

// ServiceRef returns the service reference of the highlighted row, if any.
func (l *Lister) ServiceRef() (ServiceRef, bool) {
	e, ok := l.Current()
	if !ok {
		return ServiceRef{}, false
	}
	return e.Ref.Service()
}

// MoveTo highlights row i, clamped to the listing.
func (l *Lister) MoveTo(i int) {
	if len(l.entries) == 0 {
		l.cursor = 0
		return
	}
	l.cursor = max(0, min(i, len(l.entries)-1))
}

// Up moves the cursor one row up.
func (l *Lister) Up() {
	if l.cursor == 0 && l.opts.EnableWrapAround {
		l.MoveTo(len(l.entries) - 1)
		return
	}
	l.MoveTo(l.cursor - 1)
}

// Down moves the cursor one row down.
func (l *Lister) Down() {
	if l.cursor == len(l.entries)-1 && l.opts.EnableWrapAround {
		l.MoveTo(0)
		return
	}
	l.MoveTo(l.cursor + 1)
}

// PageUp moves the cursor n rows up.
func (l *Lister) PageUp(n int) { l.MoveTo(l.cursor - n) }

// PageDown moves the cursor n rows down.
func (l *Lister) PageDown(n int) { l.MoveTo(l.cursor + n) }

// cleanDir gives directories a single trailing separator.
func cleanDir(d string) string {
	if d == StorageRoot {
		return d
	}
	return volumes.WithSlash(filepath.Clean(d))
}

// parentDir drops the last component: /media/hdd/movie/ -> /media/hdd/.
func parentDir(d string) string {
	return volumes.WithSlash(filepath.Dir(strings.TrimSuffix(d, "/")))
}
