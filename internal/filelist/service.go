package filelist

// ServiceRef is a playable reference produced by a media service rather than
// a bare path.
type ServiceRef struct {
	Path        string
	Name        string
	MustDescend bool // directory-like; entering it lists its children
}

// ServiceLister lists a directory through a media service. extensions is
// the extra file-extension filter the service should accept, if any.
type ServiceLister interface {
	List(dir string, extensions string) ([]ServiceRef, error)
}
