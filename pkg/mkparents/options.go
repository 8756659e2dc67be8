//go:build !windows

package mkparents

type options struct {
	quiet      bool
	warner     Warner
	maxRetries int
	fs         FS
}

// Option configures MkdirParents.
type Option func(*options)

// WithQuiet suppresses the human-readable warning emitted on failure. Debug
// logging is not affected.
func WithQuiet(quiet bool) Option {
	return func(o *options) {
		o.quiet = quiet
	}
}

// WithWarner sets where failure diagnostics go. The default writes to
// stderr, prefixed with the program name.
func WithWarner(w Warner) Option {
	return func(o *options) {
		if w != nil {
			o.warner = w
		}
	}
}

// WithMaxRetries bounds how many times a single path component is
// re-inspected after mkdir reports that it already exists. A negative value,
// the default, retries for as long as the race keeps happening.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithFileSystem replaces the filesystem primitives.
func WithFileSystem(fs FS) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		warner:     defaultWarner,
		maxRetries: -1,
		fs:         unixFS{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
