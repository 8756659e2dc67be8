package mkparents

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why a parent directory could not be ensured.
type Kind int

const (
	// NotADirectory means a path component exists but is not a directory.
	NotADirectory Kind = iota + 1
	// LookupFailed means a path component could not be opened for a
	// reason other than not existing.
	LookupFailed
	// CreateFailed means mkdir failed for a reason other than a directory
	// being created concurrently.
	CreateFailed
	// StatFailed means fstat on an opened path component failed.
	StatFailed
	// OwnershipChangeFailed means a newly created directory could not be
	// chowned. It is logged and never returned.
	OwnershipChangeFailed
)

func (k Kind) String() string {
	switch k {
	case NotADirectory:
		return "not a directory"
	case LookupFailed:
		return "lookup failed"
	case CreateFailed:
		return "create failed"
	case StatFailed:
		return "stat failed"
	case OwnershipChangeFailed:
		return "ownership change failed"
	default:
		return fmt.Sprintf("unknown (%d)", int(k))
	}
}

// Error describes the path component that stopped MkdirParents.
type Error struct {
	Kind Kind
	Path string
	// Mode is the raw st_mode found at Path. Only set for NotADirectory.
	Mode uint32
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case NotADirectory:
		// the mode says it all, no need for the errno text
		return fmt.Sprintf("%s exists but is not a directory (0%o)", e.Path, e.Mode)
	case LookupFailed:
		msg = "unable to open " + e.Path
	case CreateFailed:
		msg = "unable to mkdir " + e.Path
	case StatFailed:
		msg = "unable to stat " + e.Path
	case OwnershipChangeFailed:
		msg = "unable to chown " + e.Path
	default:
		msg = e.Kind.String() + ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// IsNotADirectory reports whether err was caused by a path component that is
// not a directory.
func IsNotADirectory(err error) bool {
	return isKind(err, NotADirectory)
}

// IsLookupFailed reports whether err was caused by a path component that
// could not be opened.
func IsLookupFailed(err error) bool {
	return isKind(err, LookupFailed)
}

// IsCreateFailed reports whether err was caused by a failed mkdir.
func IsCreateFailed(err error) bool {
	return isKind(err, CreateFailed)
}

// IsStatFailed reports whether err was caused by a failed fstat.
func IsStatFailed(err error) bool {
	return isKind(err, StatFailed)
}
