package pathmatch_test

import (
	"testing"

	"github.com/filedock/filedock/internal/app/system/pathmatch"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"a", "a"},
		{"a/", "a"},
		{"a/b/c", "a/b/c"},
		{"a/b/c/", "a/b/c"},
	}
	for _, c := range cases {
		if got := pathmatch.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsAncestorOrEqual(t *testing.T) {
	cases := []struct {
		prefix, path string
		want         bool
	}{
		{"", "", true},
		{"", "anything/below", true},
		{"a", "a", true},
		{"a", "a/b", true},
		{"a", "a/b/c", true},
		{"a", "ab", false},
		{"a/b", "a", false},
		{"team/final", "team/final/report.pdf", true},
		{"team", "teammate/file", false},
	}
	for _, c := range cases {
		if got := pathmatch.IsAncestorOrEqual(c.prefix, c.path); got != c.want {
			t.Errorf("IsAncestorOrEqual(%q, %q): got %v, want %v", c.prefix, c.path, got, c.want)
		}
	}
}

func TestIsDescendantOrEqual(t *testing.T) {
	cases := []struct {
		prefix, path string
		want         bool
	}{
		// Root is reachable from anything.
		{"a/b", "", true},
		{"", "", true},
		{"a", "a", true},
		{"a/b", "a", true},
		{"a/b/c", "a", true},
		{"a", "a/b", false},
		{"ab", "a", false},
		{"team/final", "team", true},
		{"team/final", "teammate", false},
	}
	for _, c := range cases {
		if got := pathmatch.IsDescendantOrEqual(c.prefix, c.path); got != c.want {
			t.Errorf("IsDescendantOrEqual(%q, %q): got %v, want %v", c.prefix, c.path, got, c.want)
		}
	}
}

func TestPrefixSet_LongestMatch(t *testing.T) {
	set := pathmatch.NewPrefixSet([]string{"proj", "proj/sub", "other/"})

	key, ok := set.LongestMatch("proj/sub/file.txt")
	if !ok || key != "proj/sub" {
		t.Errorf("LongestMatch(proj/sub/file.txt): got %q/%v, want proj/sub", key, ok)
	}

	key, ok = set.LongestMatch("proj/readme.md")
	if !ok || key != "proj" {
		t.Errorf("LongestMatch(proj/readme.md): got %q/%v, want proj", key, ok)
	}

	// Trailing-slash key was normalized before insertion.
	key, ok = set.LongestMatch("other/nested/deep")
	if !ok || key != "other" {
		t.Errorf("LongestMatch(other/nested/deep): got %q/%v, want other", key, ok)
	}

	if _, ok := set.LongestMatch("elsewhere"); ok {
		t.Error("LongestMatch(elsewhere): expected no match")
	}
}

func TestPrefixSet_EmptyAndRootKeys(t *testing.T) {
	empty := pathmatch.NewPrefixSet(nil)
	if _, ok := empty.LongestMatch("x"); ok {
		t.Error("empty set should never match")
	}

	// A root key matches everything, but longer keys still win.
	set := pathmatch.NewPrefixSet([]string{"", "docs"})
	key, ok := set.LongestMatch("docs/a.txt")
	if !ok || key != "docs" {
		t.Errorf("got %q/%v, want docs", key, ok)
	}
	key, ok = set.LongestMatch("media/b.png")
	if !ok || key != "" {
		t.Errorf("got %q/%v, want root key", key, ok)
	}
}
