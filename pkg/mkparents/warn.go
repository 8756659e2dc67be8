package mkparents

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Warner receives a human-readable diagnostic when MkdirParents fails.
// It is not called when quiet is set.
type Warner interface {
	Warn(err error)
}

// WarnerFunc adapts a function to a Warner.
type WarnerFunc func(err error)

func (f WarnerFunc) Warn(err error) {
	f(err)
}

type writerWarner struct {
	mu   sync.Mutex
	w    io.Writer
	prog string
}

// NewWriterWarner returns a Warner that writes one "prog: message" line per
// failure to w.
func NewWriterWarner(w io.Writer, prog string) Warner {
	return &writerWarner{w: w, prog: prog}
}

func (ww *writerWarner) Warn(err error) {
	ww.mu.Lock()
	defer ww.mu.Unlock()
	_, _ = fmt.Fprintf(ww.w, "%s: %v\n", ww.prog, err)
}

var defaultWarner = NewWriterWarner(os.Stderr, filepath.Base(os.Args[0]))
