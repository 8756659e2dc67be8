// Package idtools describes the ownership applied to directories created on
// behalf of another user.
package idtools

import (
	"strconv"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/pkg/errors"
)

// ID is a user or group id that may be left unset. The zero value is unset.
type ID struct {
	id  int
	set bool
}

// Unset is an ID that leaves ownership unchanged.
var Unset = ID{}

// NewID returns an ID that is set to id.
func NewID(id int) ID {
	return ID{id: id, set: true}
}

// Value returns the id and whether it is set.
func (i ID) Value() (int, bool) {
	return i.id, i.set
}

// IsSet reports whether the id holds a value.
func (i ID) IsSet() bool {
	return i.set
}

func (i ID) String() string {
	if !i.set {
		return "unset"
	}
	return strconv.Itoa(i.id)
}

// Identity is the owner of a directory, either part of which may be unset.
type Identity struct {
	UID ID
	GID ID
}

// Chownable reports whether both ids are set. Ownership is only changed when
// a complete uid:gid pair is known.
func (id Identity) Chownable() bool {
	return id.UID.IsSet() && id.GID.IsSet()
}

func (id Identity) String() string {
	return id.UID.String() + ":" + id.GID.String()
}

// ParseIdentity parses an owner of the form "user[:group]". Each part is
// either a numeric id or a name resolved through the system user and group
// databases. When only a user is given, the group is that user's primary
// group. A numeric uid with no passwd entry leaves the group unset. An empty
// string yields an unset Identity.
func ParseIdentity(owner string) (Identity, error) {
	if owner == "" {
		return Identity{}, nil
	}
	userPart, groupPart, hasGroup := strings.Cut(owner, ":")
	if userPart == "" && !hasGroup {
		return Identity{}, errors.Wrapf(cerrdefs.ErrInvalidArgument, "invalid owner %q", owner)
	}

	var ident Identity
	if userPart != "" {
		uid, primaryGID, err := lookupUID(userPart)
		if err != nil {
			return Identity{}, err
		}
		ident.UID = uid
		if !hasGroup {
			ident.GID = primaryGID
		}
	}
	if hasGroup {
		if groupPart == "" {
			return Identity{}, errors.Wrapf(cerrdefs.ErrInvalidArgument, "invalid owner %q: empty group", owner)
		}
		gid, err := lookupGID(groupPart)
		if err != nil {
			return Identity{}, err
		}
		ident.GID = gid
	}
	return ident, nil
}

// parseNumericID reports whether s is made of digits only and, if so,
// converts it. Ids are limited to 32 bits, excluding the all-ones value
// which the kernel reserves to mean "no change".
func parseNumericID(s string) (int, bool, error) {
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, true, errors.Wrapf(cerrdefs.ErrInvalidArgument, "id %s out of range", s)
	}
	return int(n), true, nil
}
