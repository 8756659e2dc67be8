//go:build !windows

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/containerd/log"
	"github.com/moby/mkparents/internal/config"
	"github.com/moby/mkparents/pkg/idtools"
	"github.com/moby/mkparents/pkg/mkparents"
	"github.com/moby/sys/atomicwriter"
	"github.com/moby/sys/userns"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
)

func loadConfig(opts *options) (*config.Config, error) {
	required := opts.flags != nil && opts.flags.Changed("config-file")
	if err := config.MergeConfigFile(opts.conf, opts.flags, opts.configFile, required); err != nil {
		return nil, err
	}
	if err := config.Validate(opts.conf); err != nil {
		return nil, err
	}
	return opts.conf, nil
}

func runMkparents(ctx context.Context, opts *options, paths []string, stdin io.Reader, stdout, stderr io.Writer) error {
	conf, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := configureLogging(conf, stderr); err != nil {
		return err
	}
	if opts.stdin && len(paths) != 1 {
		return errors.New("--stdin requires exactly one PATH")
	}

	tp, err := getTracerProvider(ctx, os.Getenv)
	if err != nil {
		if !errors.Is(err, errTracingDisabled) {
			log.G(ctx).WithError(err).Warn("Failed to initialize tracing, skipping")
		}
	} else {
		otel.SetTracerProvider(tp)
		defer func() {
			if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
				log.G(ctx).WithError(err).Debug("failed to flush traces")
			}
		}()
	}

	owner, err := idtools.ParseIdentity(conf.Owner)
	if err != nil {
		return err
	}
	dirMode, _ := config.ParseMode(conf.Mode)
	fileMode, _ := config.ParseMode(conf.FileMode)

	if conf.Owner != "" && !owner.Chownable() {
		log.G(ctx).WithField("owner", owner).Debug("owner has no uid:gid pair, ownership will not be changed")
	}
	if owner.Chownable() && userns.RunningInUserNS() {
		log.G(ctx).WithField("owner", owner).Debug("running in a user namespace, changing ownership may fail")
	}

	warner := mkparents.NewWriterWarner(stderr, "mkparents")
	var failed int
	for _, p := range paths {
		created, err := mkparents.MkdirParentsCreated(ctx, p, owner, dirMode,
			mkparents.WithQuiet(conf.Quiet),
			mkparents.WithWarner(warner),
			mkparents.WithMaxRetries(conf.MaxRetries),
		)
		if opts.verbose {
			for _, dir := range created {
				fmt.Fprintf(stdout, "mkparents: created directory '%s'\n", dir)
			}
		}
		if err != nil {
			failed++
			continue
		}
		if opts.stdin {
			if err := writeFile(p, stdin, fileMode, owner); err != nil {
				if !conf.Quiet {
					warner.Warn(err)
				}
				failed++
			}
		}
	}
	if failed > 0 {
		return StatusError{StatusCode: 1}
	}
	return nil
}

// writeFile atomically replaces path with the contents of r.
func writeFile(path string, r io.Reader, mode os.FileMode, owner idtools.Identity) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "unable to read standard input")
	}
	if err := atomicwriter.WriteFile(path, data, mode); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	if owner.Chownable() {
		uid, _ := owner.UID.Value()
		gid, _ := owner.GID.Value()
		if err := os.Chown(path, uid, gid); err != nil {
			return errors.Wrapf(err, "unable to chown %s", path)
		}
	}
	return nil
}
