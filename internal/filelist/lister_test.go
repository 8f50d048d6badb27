package filelist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediabrowse/internal/volumes"
)

// setupHDD builds <tmp>/media/hdd with two directories and three files and
// returns the mount path without trailing separator.
func setupHDD(t *testing.T) string {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("eval tempdir: %v", err)
	}
	hdd := filepath.Join(base, "media", "hdd")
	for _, d := range []string{"Music", "Movies"} {
		if err := os.MkdirAll(filepath.Join(hdd, d), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	for _, f := range []string{"b.mp4", "notes.txt", "a.mp4", "Movies/clip.ts"} {
		if err := os.WriteFile(filepath.Join(hdd, f), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return hdd
}

func names(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func assertNames(t *testing.T, entries []Entry, want ...string) {
	t.Helper()
	got := names(entries)
	if len(got) != len(want) {
		t.Fatalf("expected rows %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected rows %v, got %v", want, got)
		}
	}
}

type mutableSource struct {
	parts []volumes.Partition
	err   error
}

func (s *mutableSource) Partitions() ([]volumes.Partition, error) {
	return s.parts, s.err
}

func TestList_DirectoriesBeforeFiles(t *testing.T) {
	hdd := setupHDD(t)
	src := volumes.Static{{Mountpoint: hdd, Description: "Harddisk"}}
	l := New(hdd, src, DefaultOptions())

	entries := l.Entries()
	assertNames(t, entries, LabelStorageList, "Movies", "Music", "a.mp4", "b.mp4", "notes.txt")

	if entries[0].Kind != KindStorageList || !entries[0].IsDir {
		t.Fatalf("expected storage list row first, got %+v", entries[0])
	}
	if entries[1].Path != hdd+"/Movies/" || !entries[1].IsDir {
		t.Fatalf("unexpected directory row %+v", entries[1])
	}
	if entries[3].Path != hdd+"/a.mp4" || entries[3].Type != TypeMovie {
		t.Fatalf("unexpected file row %+v", entries[3])
	}
	for _, e := range entries[1:] {
		if e.Mountpoint != hdd+"/" {
			t.Errorf("row %s: expected mountpoint %s, got %q", e.Name, hdd+"/", e.Mountpoint)
		}
	}
	if l.CurrentMountpoint() != hdd+"/" {
		t.Fatalf("expected entered mountpoint %s, got %s", hdd+"/", l.CurrentMountpoint())
	}
}

func TestList_PatternFiltersFilesOnly(t *testing.T) {
	hdd := setupHDD(t)
	opts := DefaultOptions()
	re, err := NewRegex(`^.*\.(mp4|ts)$`)
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	opts.Pattern = re
	l := New(hdd, volumes.Static{{Mountpoint: hdd}}, opts)
	assertNames(t, l.Entries(), LabelStorageList, "Movies", "Music", "a.mp4", "b.mp4")

	// explicit pattern overrides the configured one
	g, err := NewGlob("*.txt")
	if err != nil {
		t.Fatalf("NewGlob: %v", err)
	}
	assertNames(t, l.List(hdd, g), LabelStorageList, "Movies", "Music", "notes.txt")
}

func TestNewRegex_Invalid(t *testing.T) {
	if _, err := NewRegex("("); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := NewGlob("[a"); err == nil {
		t.Fatalf("expected invalid glob error")
	}
}

func TestList_StorageRoot(t *testing.T) {
	hdd := setupHDD(t)
	src := volumes.Static{{Mountpoint: "/", Description: "Internal flash"}, {Mountpoint: hdd, Description: "Harddisk"}}

	l := New(StorageRoot, src, DefaultOptions())
	assertNames(t, l.Entries(), "Internal flash", "Harddisk")
	if l.Entries()[1].Path != hdd+"/" {
		t.Fatalf("expected volume path with separator, got %q", l.Entries()[1].Path)
	}

	opts := DefaultOptions()
	opts.InhibitMounts = []string{hdd + "/"}
	opts.InhibitDirs = []string{"/"}
	l = New(StorageRoot, src, opts)
	assertNames(t, l.Entries(), LabelNothing)
	if l.CanDescend() {
		t.Fatalf("placeholder row must not be descendable")
	}

	opts = DefaultOptions()
	opts.ShowMountpoints = false
	l = New(StorageRoot, src, opts)
	if len(l.Entries()) != 0 {
		t.Fatalf("expected empty root without mountpoints, got %v", names(l.Entries()))
	}
}

func TestDescend_ParentAndStorageList(t *testing.T) {
	hdd := setupHDD(t)
	src := volumes.Static{{Mountpoint: hdd, Description: "Harddisk"}}
	l := New(StorageRoot, src, DefaultOptions())

	l.Descend() // into Harddisk
	if l.CurrentDirectory() != hdd+"/" {
		t.Fatalf("expected to be in %s, got %s", hdd+"/", l.CurrentDirectory())
	}

	l.MoveTo(1) // Movies
	l.Descend()
	assertNames(t, l.Entries(), LabelParent, "clip.ts")
	if l.Entries()[0].Path != hdd+"/" {
		t.Fatalf("parent row should point at %s, got %s", hdd+"/", l.Entries()[0].Path)
	}

	l.MoveTo(0)
	l.Descend() // back up
	if cur, _ := l.Current(); cur.Name != "Movies" {
		t.Fatalf("expected cursor on the directory we left, got %q", cur.Name)
	}

	l.MoveTo(0)
	l.Descend() // <List of storage devices>
	if l.CurrentDirectory() != StorageRoot {
		t.Fatalf("expected storage root, got %q", l.CurrentDirectory())
	}
	if cur, _ := l.Current(); cur.Path != hdd+"/" {
		t.Fatalf("expected cursor on the volume we left, got %+v", cur)
	}
}

func TestList_TopBoundary(t *testing.T) {
	hdd := setupHDD(t)
	src := volumes.Static{{Mountpoint: hdd}}

	opts := DefaultOptions()
	opts.TopDir = hdd
	l := New(hdd, src, opts)
	if l.Entries()[0].Synthetic() {
		t.Fatalf("no navigation row expected at the top directory, got %q", l.Entries()[0].Name)
	}
	l.ChangeDir(hdd+"/Movies", "")
	if l.Entries()[0].Kind != KindParent {
		t.Fatalf("expected parent row below the top directory")
	}

	opts = DefaultOptions()
	opts.IsTop = true
	l = New(hdd+"/Movies/", src, opts)
	assertNames(t, l.Entries(), "clip.ts")
}

func TestList_RootDirectoryHasNoParent(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowFiles = false
	opts.ShowMountpoints = false
	l := New("/", nil, opts)
	for _, e := range l.Entries() {
		if e.Synthetic() {
			t.Fatalf("unexpected synthetic row %q at /", e.Name)
		}
	}
}

func TestList_Inhibit(t *testing.T) {
	hdd := setupHDD(t)
	usb := filepath.Join(hdd, "Music")
	src := volumes.Static{{Mountpoint: hdd}, {Mountpoint: usb}}

	opts := DefaultOptions()
	opts.InhibitDirs = []string{hdd + "/Movies/"}
	l := New(hdd, src, opts)
	assertNames(t, l.Entries(), LabelStorageList, "Music", "a.mp4", "b.mp4", "notes.txt")

	opts = DefaultOptions()
	opts.InhibitMounts = []string{usb + "/"}
	l = New(hdd, src, opts)
	assertNames(t, l.Entries(), LabelStorageList, "Movies", "a.mp4", "b.mp4", "notes.txt")

	// an inhibited mount cannot be left through the parent row
	l.ChangeDir(usb, "")
	for _, e := range l.Entries() {
		if e.Kind == KindParent {
			t.Fatalf("parent row should be hidden inside an inhibited mount")
		}
	}
}

func TestList_UnreadableDirectoryIsEmpty(t *testing.T) {
	hdd := setupHDD(t)
	l := New(filepath.Join(hdd, "missing"), volumes.Static{{Mountpoint: hdd}}, DefaultOptions())
	assertNames(t, l.Entries(), LabelParent)

	opts := DefaultOptions()
	opts.ShowDirectories = false
	l = New(filepath.Join(hdd, "missing"), volumes.Static{{Mountpoint: hdd}}, opts)
	assertNames(t, l.Entries(), LabelNothing)
}

func TestList_SymlinkedDirectory(t *testing.T) {
	hdd := setupHDD(t)
	if err := os.Symlink(filepath.Join(hdd, "Movies"), filepath.Join(hdd, "Films")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	l := New(hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())
	assertNames(t, l.Entries(), LabelStorageList, "Films", "Movies", "Music", "a.mp4", "b.mp4", "notes.txt")
	if !l.Entries()[1].IsDir {
		t.Fatalf("symlink to a directory should list as a directory")
	}
}

func TestList_IgnoreLines(t *testing.T) {
	hdd := setupHDD(t)
	if err := os.WriteFile(filepath.Join(hdd, IgnoreFile), []byte("Music\n"), 0o644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}
	opts := DefaultOptions()
	opts.TopDir = hdd
	opts.IgnoreLines = []string{"*.txt", IgnoreFile}
	l := New(hdd, volumes.Static{{Mountpoint: hdd}}, opts)
	assertNames(t, l.Entries(), "Movies", "a.mp4", "b.mp4")
}

type fakeServices struct {
	refs []ServiceRef
	err  error
	exts string
}

func (f *fakeServices) List(dir string, extensions string) ([]ServiceRef, error) {
	f.exts = extensions
	return f.refs, f.err
}

func TestList_ServiceReferences(t *testing.T) {
	svc := &fakeServices{refs: []ServiceRef{
		{Path: "/media/hdd/rec/b.ts", Name: "b.ts"},
		{Path: "/media/hdd/rec/sub", MustDescend: true},
		{Path: "/media/hdd/rec/a.ts"},
	}}
	opts := DefaultOptions()
	opts.Services = svc
	opts.AdditionalExtensions = "4098:m3u"
	l := New("/media/hdd/rec/", volumes.Static{{Mountpoint: "/media/hdd"}}, opts)

	assertNames(t, l.Entries(), LabelParent, "sub", "a.ts", "b.ts")
	if svc.exts != "4098:m3u" {
		t.Fatalf("expected extensions passed through, got %q", svc.exts)
	}
	l.MoveTo(2)
	ref, ok := l.ServiceRef()
	if !ok || ref.Path != "/media/hdd/rec/a.ts" {
		t.Fatalf("expected service ref for a.ts, got %+v ok=%v", ref, ok)
	}
	if l.Filename() != "/media/hdd/rec/a.ts" {
		t.Fatalf("Filename should unwrap the service ref, got %q", l.Filename())
	}

	svc.err = errors.New("service down")
	l.Refresh()
	assertNames(t, l.Entries(), LabelParent)
}

func TestPartitionsChanged_RelistsStorageRoot(t *testing.T) {
	src := &mutableSource{parts: []volumes.Partition{{Mountpoint: "/media/hdd", Description: "Harddisk"}}}
	l := New(StorageRoot, src, DefaultOptions())
	assertNames(t, l.Entries(), "Harddisk")

	src.parts = append(src.parts, volumes.Partition{Mountpoint: "/media/usb", Description: "USB stick"})
	l.PartitionsChanged()
	assertNames(t, l.Entries(), "Harddisk", "USB stick")

	// a broken source keeps the previous table
	src.err = errors.New("gone")
	l.PartitionsChanged()
	assertNames(t, l.Entries(), "Harddisk", "USB stick")
}

func TestPartitionsChanged_KeepsDirectoryListing(t *testing.T) {
	hdd := setupHDD(t)
	src := &mutableSource{parts: []volumes.Partition{{Mountpoint: hdd}}}
	l := New(hdd, src, DefaultOptions())
	before := names(l.Entries())

	src.parts = nil
	l.PartitionsChanged()
	assertNames(t, l.Entries(), before...)
	if l.OwnerOf(hdd+"/a.mp4") != "" {
		t.Fatalf("mount table should be rebuilt even when not re-listing")
	}
}

func TestCursorMovement(t *testing.T) {
	hdd := setupHDD(t)
	opts := DefaultOptions()
	l := New(hdd, volumes.Static{{Mountpoint: hdd}}, opts)
	n := len(l.Entries())

	l.Up()
	if l.Cursor() != 0 {
		t.Fatalf("cursor should clamp at top, got %d", l.Cursor())
	}
	l.PageDown(100)
	if l.Cursor() != n-1 {
		t.Fatalf("cursor should clamp at bottom, got %d", l.Cursor())
	}
	l.Down()
	if l.Cursor() != n-1 {
		t.Fatalf("cursor should not wrap by default, got %d", l.Cursor())
	}

	opts.EnableWrapAround = true
	l = New(hdd, volumes.Static{{Mountpoint: hdd}}, opts)
	l.Up()
	if l.Cursor() != n-1 {
		t.Fatalf("cursor should wrap to bottom, got %d", l.Cursor())
	}
	l.Down()
	if l.Cursor() != 0 {
		t.Fatalf("cursor should wrap to top, got %d", l.Cursor())
	}
}

func TestRefresh_KeepsCursorTarget(t *testing.T) {
	hdd := setupHDD(t)
	l := New(hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())
	l.MoveTo(4) // b.mp4
	if err := os.WriteFile(filepath.Join(hdd, "0.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l.Refresh()
	if cur, _ := l.Current(); cur.Name != "b.mp4" {
		t.Fatalf("expected cursor to stay on b.mp4, got %q", cur.Name)
	}
}

func TestMediaTypeOf(t *testing.T) {
	cases := map[string]MediaType{
		"song.MP3":   TypeMusic,
		"photo.jpeg": TypePicture,
		"rec.ts":     TypeMovie,
		"README":     TypeNone,
		"image.nfi":  TypeNone,
	}
	for in, want := range cases {
		if got := MediaTypeOf(in); got != want {
			t.Errorf("MediaTypeOf(%q) = %q, want %q", in, got, want)
		}
	}
}
