//go:build !windows

// Wrappers for unix syscalls that retry on EINTR
// TODO: Consider moving (for example to moby/sys) and making the wrappers
// auto-generated.
package unix_noeintr

import (
	"errors"

	"golang.org/x/sys/unix"
)

func retryOnIntr(f func() error) {
	for {
		err := f()
		if !errors.Is(err, unix.EINTR) {
			return
		}
	}
}

func Open(path string, mode int, perm uint32) (fd int, err error) {
	retryOnIntr(func() error {
		fd, err = unix.Open(path, mode, perm)
		return err
	})
	return fd, err
}

func Close(fd int) (err error) {
	retryOnIntr(func() error {
		err = unix.Close(fd)
		return err
	})
	return err
}

func Fstat(fd int, stat *unix.Stat_t) (err error) {
	retryOnIntr(func() error {
		err = unix.Fstat(fd, stat)
		return err
	})
	return err
}

func Mkdir(path string, mode uint32) (err error) {
	retryOnIntr(func() error {
		err = unix.Mkdir(path, mode)
		return err
	})
	return err
}

func Chown(path string, uid, gid int) (err error) {
	retryOnIntr(func() error {
		err = unix.Chown(path, uid, gid)
		return err
	})
	return err
}
