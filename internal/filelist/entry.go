// Package filelist lists directories the way a set-top-box file browser
// does: storage volumes at the top, subdirectories before files, and
// mountpoint-aware inhibit rules. MultiSelect adds a selection set that
// survives navigation.
package filelist

import (
	"path/filepath"
	"strings"
)

// StorageRoot is the pseudo-directory whose listing is the mounted volumes.
const StorageRoot = ""

// Kind distinguishes real rows from the synthetic navigation rows.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindParent      // <Parent directory>
	KindStorageList // <List of storage devices>
	KindPlaceholder // nothing connected
)

// Entry is one row of a listing.
type Entry struct {
	Name       string
	Path       string // absolute; directories end in "/", "" means the storage root
	IsDir      bool
	Selected   bool
	Kind       Kind
	Ref        Ref
	Mountpoint string
	Type       MediaType
}

// Synthetic reports whether the row is a navigation helper rather than a
// filesystem object. Synthetic rows cannot be selected.
func (e Entry) Synthetic() bool {
	return e.Kind >= KindParent
}

// RefKind tags the Ref union.
type RefKind int

const (
	RefNone RefKind = iota
	RefPath
	RefService
)

// Ref points an entry at its target: a plain filesystem path or a reference
// handed out by a ServiceLister.
type Ref struct {
	kind    RefKind
	path    string
	service ServiceRef
}

// PathRef wraps a filesystem path.
func PathRef(p string) Ref { return Ref{kind: RefPath, path: p} }

// ServiceRefOf wraps a service reference.
func ServiceRefOf(s ServiceRef) Ref { return Ref{kind: RefService, path: s.Path, service: s} }

// Kind returns the variant.
func (r Ref) Kind() RefKind { return r.kind }

// Path returns the target path as listed; "" for RefNone.
func (r Ref) Path() string { return r.path }

// Service returns the service reference for RefService.
func (r Ref) Service() (ServiceRef, bool) {
	return r.service, r.kind == RefService
}

// Normalize cleans a path for set membership. Directory paths lose their
// trailing separator; "" stays "".
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// MediaType is the icon class of a file.
type MediaType string

const (
	TypeNone    MediaType = ""
	TypeMusic   MediaType = "music"
	TypePicture MediaType = "picture"
	TypeMovie   MediaType = "movie"
)

var extensions = map[string]MediaType{
	"m4a":  TypeMusic,
	"mp2":  TypeMusic,
	"mp3":  TypeMusic,
	"wav":  TypeMusic,
	"ogg":  TypeMusic,
	"wma":  TypeMusic,
	"flac": TypeMusic,
	"jpg":  TypePicture,
	"jpeg": TypePicture,
	"png":  TypePicture,
	"bmp":  TypePicture,
	"ts":   TypeMovie,
	"avi":  TypeMovie,
	"divx": TypeMovie,
	"m4v":  TypeMovie,
	"mpg":  TypeMovie,
	"mpeg": TypeMovie,
	"mkv":  TypeMovie,
	"mp4":  TypeMovie,
	"mov":  TypeMovie,
	"m2ts": TypeMovie,
	"3gp":  TypeMovie,
	"3g2":  TypeMovie,
	"asf":  TypeMovie,
	"wmv":  TypeMovie,
	"webm": TypeMovie,
}

// MediaTypeOf classifies a file name by its extension.
func MediaTypeOf(name string) MediaType {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return TypeNone
	}
	return extensions[strings.ToLower(name[i+1:])]
}
