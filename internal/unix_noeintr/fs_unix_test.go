//go:build !windows

package unix_noeintr

import (
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestMkdirOpenFstat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "d")
	assert.NilError(t, Mkdir(dir, 0o755))
	assert.Check(t, is.ErrorIs(Mkdir(dir, 0o755), unix.EEXIST))

	fd, err := Open(dir, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	assert.NilError(t, err)
	var st unix.Stat_t
	assert.Check(t, Fstat(fd, &st))
	assert.Check(t, is.Equal(uint32(st.Mode)&unix.S_IFMT, uint32(unix.S_IFDIR))) // nolint: unconvert
	assert.Check(t, Close(fd))

	_, err = Open(filepath.Join(dir, "missing"), unix.O_RDONLY, 0)
	assert.Check(t, is.ErrorIs(err, unix.ENOENT))
}

func TestChownSelf(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "d")
	assert.NilError(t, Mkdir(dir, 0o755))
	assert.Check(t, Chown(dir, unix.Geteuid(), unix.Getegid()))
}
