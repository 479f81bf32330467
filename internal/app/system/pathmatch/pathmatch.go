// Package pathmatch provides pure path-prefix relations used by the access
// resolver. Paths are slash-separated object keys with no leading slash;
// the empty string denotes the store root.
package pathmatch

import (
	"sort"
	"strings"
)

// Normalize strips a single trailing slash from path. The empty string is
// returned unchanged and denotes the store root.
func Normalize(path string) string {
	if path == "/" {
		return ""
	}
	return strings.TrimSuffix(path, "/")
}

// IsAncestorOrEqual reports whether path equals prefix or lies somewhere
// below it. The root ("") is an ancestor of every path.
func IsAncestorOrEqual(prefix, path string) bool {
	if prefix == "" {
		return true
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// IsDescendantOrEqual reports whether prefix equals path or lies somewhere
// below it. It is the inverse relation of IsAncestorOrEqual and is used for
// browse-through: a path is reachable when it is a parent of a folder the
// principal is allowed into. The root is reachable from anything.
func IsDescendantOrEqual(prefix, path string) bool {
	if path == "" {
		return true
	}
	if prefix == path {
		return true
	}
	return strings.HasPrefix(prefix, path+"/")
}

// PrefixSet holds a set of folder paths ordered for longest-prefix lookup.
// It backs per-folder permission override resolution, where the most
// specific matching folder key wins.
type PrefixSet struct {
	keys []string
}

// NewPrefixSet builds a PrefixSet from the given folder paths. Keys are
// normalized and sorted by descending length so the first ancestor match
// during a scan is the longest one.
func NewPrefixSet(paths []string) *PrefixSet {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, Normalize(p))
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &PrefixSet{keys: keys}
}

// LongestMatch returns the longest key that is an ancestor of (or equal to)
// path, and whether any key matched.
func (s *PrefixSet) LongestMatch(path string) (string, bool) {
	path = Normalize(path)
	for _, k := range s.keys {
		if IsAncestorOrEqual(k, path) {
			return k, true
		}
	}
	return "", false
}

// Keys returns the keys in lookup order (longest first).
func (s *PrefixSet) Keys() []string {
	return s.keys
}
