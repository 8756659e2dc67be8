//go:build !windows

package mkparents

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/moby/mkparents/internal/iterutil"
	"github.com/moby/mkparents/pkg/idtools"
	"pgregory.net/rapid"
)

// For any relative layout under an empty directory, the parents of the last
// component exist afterwards, the last component does not, and exactly the
// missing parents are reported as created.
func TestMkdirParentsProperty(t *testing.T) {
	base := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		root, err := os.MkdirTemp(base, "case")
		if err != nil {
			rt.Fatal(err)
		}
		pre := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 0, 3).Draw(rt, "existing")
		segs := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 1, 6).Draw(rt, "segments")

		if len(pre) > 0 {
			if err := os.MkdirAll(filepath.Join(append([]string{root}, pre...)...), 0o755); err != nil {
				rt.Fatal(err)
			}
		}

		path := root + "/" + strings.Join(segs, "/")
		orig := strings.Clone(path)

		var missing []string
		for i := 1; i < len(segs); i++ {
			dir := root + "/" + strings.Join(segs[:i], "/")
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				missing = append(missing, dir)
			}
		}

		created, err := MkdirParentsCreated(context.Background(), path, idtools.Identity{}, 0o755)
		if err != nil {
			rt.Fatalf("MkdirParents(%q): %v", path, err)
		}
		if path != orig {
			rt.Fatalf("path changed: %q != %q", path, orig)
		}
		if !iterutil.SameValues(slices.Values(created), slices.Values(missing)) {
			rt.Fatalf("created %q, expected %q", created, missing)
		}
		for i := 1; i < len(created); i++ {
			if !strings.HasPrefix(created[i], created[i-1]+"/") {
				rt.Fatalf("created out of order: %q", created)
			}
		}
		if fi, err := os.Stat(filepath.Dir(path)); err != nil || !fi.IsDir() {
			rt.Fatalf("parent of %q is not a directory: %v", path, err)
		}
		if len(pre) < len(segs) || strings.Join(pre[:len(segs)], "/") != strings.Join(segs, "/") {
			if _, err := os.Lstat(path); !os.IsNotExist(err) {
				rt.Fatalf("last component %q was created", path)
			}
		}
	})
}
