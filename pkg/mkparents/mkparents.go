//go:build !windows

// Package mkparents creates the missing parent directories of a path with a
// given owner and mode, leaving the last path component alone. It is meant to
// run before a privileged process writes a file into a directory that may
// not exist yet.
package mkparents

import (
	"context"
	"fmt"
	"os"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/moby/mkparents/internal/iterutil"
	"github.com/moby/mkparents/internal/otelutil"
	"github.com/moby/mkparents/pkg/idtools"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"
)

// MkdirParents makes sure every directory leading up to the last component
// of path exists. Missing directories are created with mode, subject to the
// umask, and chowned to owner when both its uid and gid are set; failing to
// chown is not an error. Directories that already exist are left untouched.
//
// The first failure stops the walk and is returned as an *Error. Directories
// created before that point are not removed.
func MkdirParents(ctx context.Context, path string, owner idtools.Identity, mode os.FileMode, opts ...Option) error {
	_, err := MkdirParentsCreated(ctx, path, owner, mode, opts...)
	return err
}

// EnsureParents is MkdirParents reduced to success or failure. The reason
// for a failure is only reported to the Warner, and not at all when quiet is
// set.
func EnsureParents(ctx context.Context, path string, owner idtools.Identity, mode os.FileMode, quiet bool, opts ...Option) bool {
	return MkdirParents(ctx, path, owner, mode, append(opts, WithQuiet(quiet))...) == nil
}

// MkdirParentsCreated is like MkdirParents and also returns the directories
// it created, in creation order.
func MkdirParentsCreated(ctx context.Context, path string, owner idtools.Identity, mode os.FileMode, opts ...Option) (created []string, retErr error) {
	o := newOptions(opts)

	ctx, span := otel.Tracer("").Start(ctx, "mkparents.MkdirParents", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("mode", fmt.Sprintf("%#o", syscallMode(mode))),
		attribute.String("owner", owner.String())))
	defer func() {
		span.SetAttributes(attribute.Int("created", len(created)))
		otelutil.EndWithStatus(span, retErr)
	}()

	if path == "" {
		err := errors.Wrap(cerrdefs.ErrInvalidArgument, "empty path")
		o.warn(err)
		return nil, err
	}

	for dir := range iterutil.Prefixes(path, "/") {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		made, err := o.ensureDir(ctx, dir, owner, mode)
		if err != nil {
			o.warn(err)
			return created, err
		}
		if made {
			created = append(created, dir)
		}
	}
	return created, nil
}

func (o *options) warn(err error) {
	if !o.quiet {
		o.warner.Warn(err)
	}
}

// ensureDir checks that dir is a directory, creating it if it does not
// exist. It reports whether dir was created by this call.
func (o *options) ensureDir(ctx context.Context, dir string, owner idtools.Identity, mode os.FileMode) (bool, error) {
	log.G(ctx).Debugf("mkdir %s, mode %#o, uid %s, gid %s", dir, syscallMode(mode), owner.UID, owner.GID)

	for retries := 0; ; retries++ {
		fd, err := o.fs.Open(dir)
		if err == nil {
			st, err := o.fs.Fstat(fd)
			if cerr := o.fs.Close(fd); cerr != nil {
				log.G(ctx).WithError(cerr).WithField("path", dir).Debug("failed to close directory")
			}
			if err != nil {
				return false, &Error{Kind: StatFailed, Path: dir, Err: err}
			}
			if !isDir(st) {
				return false, &Error{Kind: NotADirectory, Path: dir, Mode: st, Err: unix.ENOTDIR}
			}
			return false, nil
		}
		if !errors.Is(err, unix.ENOENT) {
			return false, &Error{Kind: LookupFailed, Path: dir, Err: err}
		}

		err = o.fs.Mkdir(dir, mode)
		if err == nil {
			o.chown(ctx, dir, owner)
			return true, nil
		}
		if !errors.Is(err, unix.EEXIST) {
			return false, &Error{Kind: CreateFailed, Path: dir, Err: err}
		}
		// Someone else created dir between our open and mkdir. Look again
		// to find out what they created.
		if o.maxRetries >= 0 && retries >= o.maxRetries {
			return false, &Error{Kind: CreateFailed, Path: dir, Err: errors.Wrapf(err, "still racing after %d retries", retries)}
		}
		log.G(ctx).WithField("path", dir).Debug("directory created concurrently, checking again")
	}
}

func (o *options) chown(ctx context.Context, dir string, owner idtools.Identity) {
	if !owner.Chownable() {
		return
	}
	uid, _ := owner.UID.Value()
	gid, _ := owner.GID.Value()
	if err := o.fs.Chown(dir, uid, gid); err != nil {
		log.G(ctx).WithError(&Error{Kind: OwnershipChangeFailed, Path: dir, Err: err}).WithFields(log.Fields{
			"uid": uid,
			"gid": gid,
		}).Debug("unable to chown directory")
	}
}
