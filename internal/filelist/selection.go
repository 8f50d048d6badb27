package filelist

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"mediabrowse/internal/volumes"
)

// SelectionSet is an insertion-ordered set of normalized paths.
type SelectionSet struct {
	order []string
	index map[string]struct{}
}

// NewSelectionSet returns a set holding paths.
func NewSelectionSet(paths ...string) *SelectionSet {
	s := &SelectionSet{index: make(map[string]struct{})}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts p; it reports false if p was already present.
func (s *SelectionSet) Add(p string) bool {
	p = Normalize(p)
	if p == "" {
		return false
	}
	if _, ok := s.index[p]; ok {
		return false
	}
	s.index[p] = struct{}{}
	s.order = append(s.order, p)
	return true
}

// Remove deletes p; it reports false if p was not present.
func (s *SelectionSet) Remove(p string) bool {
	p = Normalize(p)
	if _, ok := s.index[p]; !ok {
		return false
	}
	delete(s.index, p)
	for i, q := range s.order {
		if q == p {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports membership of p in any spelling.
func (s *SelectionSet) Contains(p string) bool {
	_, ok := s.index[Normalize(p)]
	return ok
}

// Paths returns the members in insertion order.
func (s *SelectionSet) Paths() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of members.
func (s *SelectionSet) Len() int { return len(s.order) }

// MultiSelect is a Lister whose rows carry a selected flag backed by a
// SelectionSet.
type MultiSelect struct {
	*Lister
	set *SelectionSet
}

// NewMultiSelect builds a multi-select list preloaded with preselected paths.
func NewMultiSelect(preselected []string, directory string, src volumes.Source, opts Options) *MultiSelect {
	m := &MultiSelect{set: NewSelectionSet(preselected...)}
	m.Lister = newLister(src, opts)
	m.Lister.decorate = m.mark
	m.Lister.noPlaceholder = true
	m.ChangeDir(directory, "")
	return m
}

func (m *MultiSelect) mark(e *Entry) {
	if e.Synthetic() {
		return
	}
	e.Selected = m.set.Contains(e.Path)
}

// Selection exposes the underlying set.
func (m *MultiSelect) Selection() *SelectionSet { return m.set }

// Toggle flips the selected state of e's path and updates the listed rows.
// The state comes from set membership, not from e.Selected, so a stale
// entry value toggles correctly. It returns the new state. Synthetic rows
// are left alone.
func (m *MultiSelect) Toggle(e Entry) bool {
	if e.Synthetic() || e.Path == "" {
		return e.Selected
	}
	state := !m.set.Contains(e.Path)
	if state {
		m.set.Add(e.Path)
	} else if !m.set.Remove(e.Path) {
		logger().Debug("deselect ignored",
			zap.Error(fmt.Errorf("%w: %s", ErrRemovalMiss, e.Path)))
	}
	for i := range m.entries {
		if Normalize(m.entries[i].Path) == Normalize(e.Path) && !m.entries[i].Synthetic() {
			m.entries[i].Selected = state
		}
	}
	return state
}

// ToggleCurrent toggles the highlighted row.
func (m *MultiSelect) ToggleCurrent() bool {
	e, ok := m.Current()
	if !ok {
		return false
	}
	return m.Toggle(e)
}

// ConfirmedSelection returns the selected paths that still exist.
func (m *MultiSelect) ConfirmedSelection() []string {
	var out []string
	for _, p := range m.set.Paths() {
		if _, err := os.Stat(p); err != nil {
			logger().Debug("dropping selection",
				zap.Error(fmt.Errorf("%w: %s", ErrPathNoLongerExists, p)))
			continue
		}
		out = append(out, p)
	}
	return out
}
