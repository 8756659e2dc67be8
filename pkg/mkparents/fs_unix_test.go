//go:build !windows

package mkparents

import (
	"errors"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

// faultFS wraps the real filesystem and lets tests fail individual calls.
type faultFS struct {
	unixFS

	openErr  map[string]error
	fstatErr error
	// mkdirHook, when set, runs instead of the real mkdir. Returning
	// errPassThrough falls back to the real call.
	mkdirHook func(path string, mode os.FileMode) error
	chownErr  error

	opens  []string
	mkdirs []string
	chowns []string
}

var errPassThrough = errors.New("pass through")

func (f *faultFS) Open(path string) (int, error) {
	f.opens = append(f.opens, path)
	if err, ok := f.openErr[path]; ok {
		return -1, err
	}
	return f.unixFS.Open(path)
}

func (f *faultFS) Fstat(fd int) (uint32, error) {
	if f.fstatErr != nil {
		return 0, f.fstatErr
	}
	return f.unixFS.Fstat(fd)
}

func (f *faultFS) Mkdir(path string, mode os.FileMode) error {
	f.mkdirs = append(f.mkdirs, path)
	if f.mkdirHook != nil {
		if err := f.mkdirHook(path, mode); err != errPassThrough {
			return err
		}
	}
	return f.unixFS.Mkdir(path, mode)
}

func (f *faultFS) Chown(path string, uid, gid int) error {
	f.chowns = append(f.chowns, path)
	if f.chownErr != nil {
		return f.chownErr
	}
	return f.unixFS.Chown(path, uid, gid)
}

// currentUmask returns the process umask without changing it.
func currentUmask(t *testing.T) os.FileMode {
	t.Helper()
	old := unix.Umask(0)
	unix.Umask(old)
	return os.FileMode(old)
}

func TestSyscallMode(t *testing.T) {
	tests := []struct {
		mode     os.FileMode
		expected uint32
	}{
		{mode: 0o755, expected: 0o755},
		{mode: 0o700 | os.ModeDir, expected: 0o700},
		{mode: 0o775 | os.ModeSetgid, expected: 0o2775},
		{mode: 0o777 | os.ModeSticky, expected: 0o1777},
		{mode: 0o755 | os.ModeSetuid, expected: 0o4755},
	}
	for _, tc := range tests {
		if got := syscallMode(tc.mode); got != tc.expected {
			t.Errorf("syscallMode(%v) = %#o, expected %#o", tc.mode, got, tc.expected)
		}
	}
}
