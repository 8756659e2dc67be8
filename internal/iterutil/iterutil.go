package iterutil

import (
	"iter"
	"maps"
	"strings"
)

// SameValues checks if a and b yield the same values, independent of order.
func SameValues[T comparable](a, b iter.Seq[T]) bool {
	m, n := make(map[T]int), make(map[T]int)
	for v := range a {
		m[v]++
	}
	for v := range b {
		n[v]++
	}
	return maps.Equal(m, n)
}

// Prefixes yields, from shortest to longest, the part of s preceding each
// occurrence of sep. A separator in the first position is not a boundary, so
// "/a/b" yields "/a" and never the empty string. The last segment of s is
// not yielded.
func Prefixes(s, sep string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if s == "" || sep == "" {
			return
		}
		off := 1
		for {
			i := strings.Index(s[off:], sep)
			if i < 0 {
				return
			}
			end := off + i
			if !yield(s[:end]) {
				return
			}
			off = end + len(sep)
			if off >= len(s) {
				return
			}
		}
	}
}
