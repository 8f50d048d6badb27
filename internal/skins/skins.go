// Package skins discovers installed GUI and front-panel skins and applies a
// choice through the settings store.
package skins

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"mediabrowse/internal/logging"
	"mediabrowse/internal/settings"
)

const (
	// SkipDir is never offered as a skin.
	SkipDir = "skin_default"
	// NoPreview is shown when a skin has no preview image.
	NoPreview = "noprev.png"

	RestartPrompt = "GUI needs a restart to apply a new skin\nDo you want to restart the GUI now?"
	RestartTitle  = "Restart GUI now?"
	AboutText     = "Enigma2 skin selector"
	Introduction  = "Press OK to activate the selected skin."
)

// Variant is a skin XML shipped directly in a profile root.
type Variant struct {
	Label   string
	XML     string
	Preview string
}

// Profile describes one skin family: where it lives and which setting it
// writes.
type Profile struct {
	Title     string
	Root      string
	XML       string
	ConfigKey string
	Builtins  []Variant
}

// Primary is the main GUI profile rooted at dataDir/enigma2.
func Primary(dataDir string) Profile {
	return Profile{
		Title:     "Skin setup",
		Root:      filepath.Join(dataDir, "enigma2"),
		XML:       "skin.xml",
		ConfigKey: settings.KeyPrimarySkin,
		Builtins: []Variant{
			{Label: "< Default >", XML: "skin.xml", Preview: "prev.png"},
		},
	}
}

// Display is the front-panel (LCD) profile rooted at dataDir/enigma2/display.
func Display(dataDir string) Profile {
	return Profile{
		Title:     "LCD Skin Setup",
		Root:      filepath.Join(dataDir, "enigma2", "display") + "/",
		XML:       "skin_display.xml",
		ConfigKey: settings.KeyDisplaySkin,
		Builtins: []Variant{
			{Label: "< Default >", XML: "skin_display.xml", Preview: "prev.png"},
			{Label: "< Default with Picon >", XML: "skin_display_picon.xml", Preview: "piconprev.png"},
			{Label: "< Alternate Skin >", XML: "skin_display_alternate.xml", Preview: "alternate.png"},
			{Label: "< User Skin >", XML: "skin_display_usr.xml", Preview: "userskin.png"},
		},
	}
}

// Skin is one selectable entry.
type Skin struct {
	Name    string
	Builtin *Variant
}

func (p Profile) builtin(name string) (Variant, bool) {
	for _, v := range p.Builtins {
		if v.Label == name {
			return v, true
		}
	}
	return Variant{}, false
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Discover lists the builtin variants present in the root and every
// subdirectory below it that carries the profile's XML, sorted by name.
func (p Profile) Discover() ([]Skin, error) {
	log := logging.Named("skins")
	var out []Skin
	for i := range p.Builtins {
		v := p.Builtins[i]
		if exists(filepath.Join(p.Root, v.XML)) {
			out = append(out, Skin{Name: v.Label, Builtin: &v})
		}
	}

	root := filepath.Clean(p.Root)
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("skin root: %w", err)
	}
	seen := make(map[string]bool)
	var walk func(dir string) error
	walk = func(dir string) error {
		resolved, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return nil
		}
		if seen[resolved] {
			return nil
		}
		seen[resolved] = true
		ents, err := os.ReadDir(dir)
		if err != nil {
			log.Debug("skip unreadable skin dir", zap.String("dir", dir), zap.Error(err))
			return nil
		}
		for _, e := range ents {
			sub := filepath.Join(dir, e.Name())
			if !isDir(sub, e) || e.Name() == SkipDir {
				continue
			}
			if exists(filepath.Join(sub, p.XML)) {
				out = append(out, Skin{Name: e.Name()})
			}
			if err := walk(sub); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	log.Debug("discovered skins", zap.String("root", p.Root), zap.Int("count", len(out)))
	return out, nil
}

// isDir follows symlinks.
func isDir(path string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// ConfigValue is what gets stored for the skin named name.
func (p Profile) ConfigValue(name string) string {
	if v, ok := p.builtin(name); ok {
		return v.XML
	}
	return filepath.Join(name, p.XML)
}

// PreviewPath returns the preview image for name, or the GUI skin's
// noprev.png when the skin ships none.
func (p Profile) PreviewPath(name, guiSkinDir string) string {
	var png string
	if v, ok := p.builtin(name); ok {
		png = filepath.Join(p.Root, v.Preview)
	} else {
		png = filepath.Join(p.Root, name, "prev.png")
	}
	if !exists(png) {
		return filepath.Join(guiSkinDir, NoPreview)
	}
	return png
}

// InitialIndex returns the position of the skin the current config value
// points at, or 0.
func InitialIndex(p Profile, list []Skin, current string) int {
	i := strings.Index(current, "/"+p.XML)
	if i < 0 {
		return 0
	}
	name := current[:i]
	for idx, s := range list {
		if s.Name == name {
			return idx
		}
	}
	return 0
}

// Restarter restarts the GUI after a skin change.
type Restarter interface {
	Restart() error
}

var (
	// ErrNoSkin is returned when Apply is asked for an empty name.
	ErrNoSkin = errors.New("no skin selected")
	// ErrUnknownSkin is returned when name is not among the discovered skins.
	ErrUnknownSkin = errors.New("unknown skin")
)

// Apply stores the config value for name and restarts the GUI. Only names
// Discover currently reports are accepted.
func (p Profile) Apply(name string, store *settings.Store, r Restarter) error {
	if name == "" {
		return ErrNoSkin
	}
	list, err := p.Discover()
	if err != nil {
		return err
	}
	known := false
	for _, s := range list {
		if s.Name == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownSkin, name)
	}
	value := p.ConfigValue(name)
	logging.Named("skins").Info("selected skin",
		zap.String("profile", p.Title), zap.String("path", filepath.Join(p.Root, value)))
	if err := store.Set(p.ConfigKey, value); err != nil {
		return fmt.Errorf("save %s: %w", p.ConfigKey, err)
	}
	if r == nil {
		return nil
	}
	if err := r.Restart(); err != nil {
		return fmt.Errorf("restart gui: %w", err)
	}
	return nil
}
