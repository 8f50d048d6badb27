package filelist

import "errors"

// None of these reach callers of the listing API; they are logged and the
// result shrinks instead.
var (
	// ErrDirectoryUnreadable means a directory could not be read; it lists as empty.
	ErrDirectoryUnreadable = errors.New("directory unreadable")

	// ErrPathNoLongerExists means a selected path vanished; it is dropped from the confirmed selection.
	ErrPathNoLongerExists = errors.New("path no longer exists")

	// ErrRemovalMiss means a deselected path was not in the selection set.
	ErrRemovalMiss = errors.New("path not in selection")
)
