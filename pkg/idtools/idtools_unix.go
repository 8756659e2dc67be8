//go:build !windows

package idtools

import (
	"os"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/moby/sys/user"
	"github.com/pkg/errors"
)

// CurrentIdentity returns the effective uid and gid of the process.
func CurrentIdentity() Identity {
	return Identity{UID: NewID(os.Geteuid()), GID: NewID(os.Getegid())}
}

func lookupUID(name string) (uid ID, primaryGID ID, _ error) {
	if n, ok, err := parseNumericID(name); ok {
		if err != nil {
			return Unset, Unset, err
		}
		// A uid without a passwd entry is still a valid owner; its group
		// is left unset.
		u, err := user.LookupUid(n)
		if err != nil {
			if errors.Is(err, user.ErrNoPasswdEntries) || errors.Is(err, os.ErrNotExist) {
				return NewID(n), Unset, nil
			}
			return Unset, Unset, errors.Wrapf(err, "failed to look up uid %d", n)
		}
		return NewID(n), NewID(u.Gid), nil
	}
	u, err := user.LookupUser(name)
	if err != nil {
		if errors.Is(err, user.ErrNoPasswdEntries) {
			return Unset, Unset, errors.Wrapf(cerrdefs.ErrNotFound, "unknown user %q", name)
		}
		return Unset, Unset, errors.Wrapf(err, "failed to look up user %q", name)
	}
	return NewID(u.Uid), NewID(u.Gid), nil
}

func lookupGID(name string) (ID, error) {
	if n, ok, err := parseNumericID(name); ok {
		if err != nil {
			return Unset, err
		}
		return NewID(n), nil
	}
	g, err := user.LookupGroup(name)
	if err != nil {
		if errors.Is(err, user.ErrNoGroupEntries) {
			return Unset, errors.Wrapf(cerrdefs.ErrNotFound, "unknown group %q", name)
		}
		return Unset, errors.Wrapf(err, "failed to look up group %q", name)
	}
	return NewID(g.Gid), nil
}
