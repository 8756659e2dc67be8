package idtools

import (
	cerrdefs "github.com/containerd/errdefs"
	"github.com/pkg/errors"
)

// CurrentIdentity returns an unset Identity; ownership on Windows is
// expressed through ACLs and is not handled here.
func CurrentIdentity() Identity {
	return Identity{}
}

func lookupUID(name string) (ID, ID, error) {
	if n, ok, err := parseNumericID(name); ok {
		if err != nil {
			return Unset, Unset, err
		}
		return NewID(n), Unset, nil
	}
	return Unset, Unset, errors.Wrapf(cerrdefs.ErrNotImplemented, "cannot resolve user name %q", name)
}

func lookupGID(name string) (ID, error) {
	if n, ok, err := parseNumericID(name); ok {
		if err != nil {
			return Unset, err
		}
		return NewID(n), nil
	}
	return Unset, errors.Wrapf(cerrdefs.ErrNotImplemented, "cannot resolve group name %q", name)
}
