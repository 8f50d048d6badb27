package filelist

import (
	"os"
	"path/filepath"
	"testing"

	"mediabrowse/internal/volumes"
)

func findRow(t *testing.T, entries []Entry, name string) Entry {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("row %q not found in %v", name, names(entries))
	return Entry{}
}

func TestSelectionSet_Order(t *testing.T) {
	s := NewSelectionSet("/b", "/a", "/b/", "")
	if s.Len() != 2 {
		t.Fatalf("expected 2 members, got %v", s.Paths())
	}
	if got := s.Paths(); got[0] != "/b" || got[1] != "/a" {
		t.Fatalf("expected insertion order, got %v", got)
	}
	if !s.Remove("/b/") || s.Contains("/b") {
		t.Fatalf("remove should accept the unnormalized spelling")
	}
	if s.Remove("/missing") {
		t.Fatalf("remove of a missing path should report false")
	}
}

func TestToggle_TwiceRestoresState(t *testing.T) {
	hdd := setupHDD(t)
	m := NewMultiSelect(nil, hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())

	row := findRow(t, m.Entries(), "a.mp4")
	if row.Selected {
		t.Fatalf("row should start unselected")
	}
	if !m.Toggle(row) {
		t.Fatalf("first toggle should select")
	}
	row = findRow(t, m.Entries(), "a.mp4")
	if !row.Selected || !m.Selection().Contains(hdd+"/a.mp4") {
		t.Fatalf("row and set should agree after select")
	}
	if m.Toggle(row) {
		t.Fatalf("second toggle should deselect")
	}
	if findRow(t, m.Entries(), "a.mp4").Selected || m.Selection().Len() != 0 {
		t.Fatalf("state should be restored after two toggles")
	}
}

func TestToggle_SurvivesNavigation(t *testing.T) {
	hdd := setupHDD(t)
	m := NewMultiSelect(nil, hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())

	m.Toggle(findRow(t, m.Entries(), "a.mp4"))
	m.ChangeDir(hdd+"/Movies/", "")
	if m.Selection().Len() != 1 {
		t.Fatalf("selection must survive navigation")
	}
	m.ChangeDir(hdd, "")
	if !findRow(t, m.Entries(), "a.mp4").Selected {
		t.Fatalf("a.mp4 should show as selected after coming back")
	}
	if findRow(t, m.Entries(), "b.mp4").Selected {
		t.Fatalf("b.mp4 should not be selected")
	}
}

func TestToggle_NormalizesPreselectedPaths(t *testing.T) {
	hdd := setupHDD(t)
	raw := hdd + "//Movies/../a.mp4"
	m := NewMultiSelect([]string{raw, hdd + "/Music/"}, hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())

	row := findRow(t, m.Entries(), "a.mp4")
	if !row.Selected {
		t.Fatalf("preselected raw path should mark the row")
	}
	if !findRow(t, m.Entries(), "Music").Selected {
		t.Fatalf("preselected directory should mark the row")
	}
	m.Toggle(row)
	for _, p := range m.ConfirmedSelection() {
		if p == hdd+"/a.mp4" {
			t.Fatalf("deselected path still confirmed: %v", m.ConfirmedSelection())
		}
	}
	if got := m.ConfirmedSelection(); len(got) != 1 || got[0] != hdd+"/Music" {
		t.Fatalf("expected only the Music directory, got %v", got)
	}
}

func TestToggle_SyntheticRowsIgnored(t *testing.T) {
	hdd := setupHDD(t)
	m := NewMultiSelect(nil, hdd+"/Movies", volumes.Static{{Mountpoint: hdd}}, DefaultOptions())
	parent := m.Entries()[0]
	if parent.Kind != KindParent {
		t.Fatalf("expected parent row first, got %+v", parent)
	}
	m.MoveTo(0)
	if m.ToggleCurrent() {
		t.Fatalf("parent row must not become selected")
	}
	if m.Selection().Len() != 0 {
		t.Fatalf("selection should stay empty, got %v", m.Selection().Paths())
	}
}

func TestToggle_SameEntryValueTwice(t *testing.T) {
	hdd := setupHDD(t)
	m := NewMultiSelect(nil, hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())
	e := findRow(t, m.Entries(), "a.mp4")

	if !m.Toggle(e) {
		t.Fatalf("first toggle should select")
	}
	if m.Toggle(e) {
		t.Fatalf("second toggle of the same value should deselect")
	}
	if m.Selection().Len() != 0 || findRow(t, m.Entries(), "a.mp4").Selected {
		t.Fatalf("state not restored: set=%v", m.Selection().Paths())
	}
}

func TestToggle_StaleEntryFollowsSet(t *testing.T) {
	hdd := setupHDD(t)
	m := NewMultiSelect(nil, hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())
	stale := Entry{Name: "b.mp4", Path: hdd + "/b.mp4", Kind: KindFile, Selected: true}
	if !m.Toggle(stale) {
		t.Fatalf("a path missing from the set should become selected")
	}
	if !m.Selection().Contains(hdd + "/b.mp4") {
		t.Fatalf("set should hold b.mp4, got %v", m.Selection().Paths())
	}
}

func TestConfirmedSelection_DropsDeleted(t *testing.T) {
	hdd := setupHDD(t)
	m := NewMultiSelect(nil, hdd, volumes.Static{{Mountpoint: hdd}}, DefaultOptions())
	m.Toggle(findRow(t, m.Entries(), "a.mp4"))
	m.Toggle(findRow(t, m.Entries(), "b.mp4"))

	if err := os.Remove(filepath.Join(hdd, "a.mp4")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got := m.ConfirmedSelection()
	if len(got) != 1 || got[0] != hdd+"/b.mp4" {
		t.Fatalf("expected only b.mp4, got %v", got)
	}
	if m.Selection().Len() != 2 {
		t.Fatalf("the set itself keeps stale paths until deselected")
	}
}

func TestMultiSelect_NoPlaceholder(t *testing.T) {
	opts := DefaultOptions()
	m := NewMultiSelect(nil, StorageRoot, volumes.Static(nil), opts)
	if len(m.Entries()) != 0 {
		t.Fatalf("multi-select list should not add a placeholder, got %v", names(m.Entries()))
	}
}

func TestMultiSelect_MountRefreshKeepsSelection(t *testing.T) {
	hdd := setupHDD(t)
	src := &mutableSource{parts: []volumes.Partition{{Mountpoint: hdd}}}
	m := NewMultiSelect(nil, hdd, src, DefaultOptions())
	m.Toggle(findRow(t, m.Entries(), "b.mp4"))

	src.parts = append(src.parts, volumes.Partition{Mountpoint: "/media/usb"})
	m.PartitionsChanged()
	m.PartitionsChanged()

	if got := m.ConfirmedSelection(); len(got) != 1 || got[0] != hdd+"/b.mp4" {
		t.Fatalf("mount refresh changed selection: %v", got)
	}
	if !findRow(t, m.Entries(), "b.mp4").Selected {
		t.Fatalf("listing lost its selected flag")
	}
}
