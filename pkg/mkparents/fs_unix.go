//go:build !windows

package mkparents

import (
	"os"

	"github.com/moby/mkparents/internal/unix_noeintr"
	"golang.org/x/sys/unix"
)

// FS is the set of filesystem primitives MkdirParents is built on. Errors
// are expected to carry the underlying errno so that ENOENT and EEXIST can be
// told apart with errors.Is.
type FS interface {
	// Open opens path for inspection only.
	Open(path string) (fd int, err error)
	// Fstat returns the raw st_mode of fd.
	Fstat(fd int) (mode uint32, err error)
	Close(fd int) error
	Mkdir(path string, mode os.FileMode) error
	Chown(path string, uid, gid int) error
}

// unixFS talks to the kernel directly.
type unixFS struct{}

// Open uses O_NONBLOCK so that a fifo or a device sitting where a directory
// is expected can be inspected without hanging. The descriptor is never
// used for I/O and is closed right after fstat.
func (unixFS) Open(path string) (int, error) {
	return unix_noeintr.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
}

func (unixFS) Fstat(fd int) (uint32, error) {
	var st unix.Stat_t
	if err := unix_noeintr.Fstat(fd, &st); err != nil {
		return 0, err
	}
	return uint32(st.Mode), nil // nolint: unconvert
}

func (unixFS) Close(fd int) error {
	return unix_noeintr.Close(fd)
}

func (unixFS) Mkdir(path string, mode os.FileMode) error {
	return unix_noeintr.Mkdir(path, syscallMode(mode))
}

func (unixFS) Chown(path string, uid, gid int) error {
	return unix_noeintr.Chown(path, uid, gid)
}

// syscallMode converts mode to the bits mkdir(2) expects.
func syscallMode(mode os.FileMode) uint32 {
	m := uint32(mode.Perm())
	if mode&os.ModeSetuid != 0 {
		m |= unix.S_ISUID
	}
	if mode&os.ModeSetgid != 0 {
		m |= unix.S_ISGID
	}
	if mode&os.ModeSticky != 0 {
		m |= unix.S_ISVTX
	}
	return m
}

func isDir(mode uint32) bool {
	return mode&unix.S_IFMT == unix.S_IFDIR
}
