package iterutil

import (
	"slices"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"pgregory.net/rapid"
)

func TestSameValues(t *testing.T) {
	a := slices.Values([]int{1, 2, 3})
	b := slices.Values([]int{3, 1, 2})
	c := slices.Values([]int{2, 2, 3})
	d := slices.Values([]int{1, 1, 2, 3})
	e := slices.Values([]int{1, 2, 3})

	assert.Check(t, SameValues(a, b))
	assert.Check(t, SameValues(a, e))
	assert.Check(t, !SameValues(a, c))
	assert.Check(t, !SameValues(a, d))
}

func TestPrefixes(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{in: "", expected: nil},
		{in: "/", expected: nil},
		{in: "file", expected: nil},
		{in: "/file", expected: nil},
		{in: "a/", expected: []string{"a"}},
		{in: "/var/log/app/audit.log", expected: []string{"/var", "/var/log", "/var/log/app"}},
		{in: "rel/dir/f", expected: []string{"rel", "rel/dir"}},
		{in: "a//b", expected: []string{"a", "a/"}},
		{in: "//a", expected: []string{"/"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Check(t, is.DeepEqual(slices.Collect(Prefixes(tc.in, "/")), tc.expected))
		})
	}
}

func TestPrefixesStopsEarly(t *testing.T) {
	var got []string
	for p := range Prefixes("/a/b/c/d", "/") {
		got = append(got, p)
		if len(got) == 2 {
			break
		}
	}
	assert.Check(t, is.DeepEqual(got, []string{"/a", "/a/b"}))
}

// Every separator past the first byte marks exactly one prefix, in order.
func TestPrefixesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[ab/]{0,16}`).Draw(t, "path")

		var expected []string
		for i := 1; i < len(s); i++ {
			if s[i] == '/' {
				expected = append(expected, s[:i])
			}
		}
		got := slices.Collect(Prefixes(s, "/"))
		if !slices.Equal(got, expected) {
			t.Fatalf("Prefixes(%q) = %q, expected %q", s, got, expected)
		}
	})
}
