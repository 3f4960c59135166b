package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	for _, tc := range []struct {
		base     string
		ref      string
		expected string
	}{
		{"http://a/b/c/d;p?q", "g", "http://a/b/c/g"},
		{"http://a/b/c/d;p?q", "./g", "http://a/b/c/g"},
		{"http://a/b/c/d;p?q", "g/", "http://a/b/c/g/"},
		{"http://a/b/c/d;p?q", "/g", "http://a/g"},
		{"http://a/b/c/d;p?q", "../g", "http://a/b/g"},
		{"http://a/b/c/d;p?q", "../../g", "http://a/g"},
		{"http://a/b/c/d;p?q", "#s", "http://a/b/c/d;p?q#s"},
		{"http://a/b/c/d;p?q", "?y", "http://a/b/c/d;p?y"},
		{"http://a/b/c/d;p?q", "http://other/x", "http://other/x"},
		{"", "relative", "relative"},
		{"http://a/b", "", "http://a/b"},
	} {
		assert.Equal(t, tc.expected, Resolve(tc.base, tc.ref), "resolve(%q, %q)", tc.base, tc.ref)
	}
}

func TestRemoveDotSegments(t *testing.T) {
	assert.Equal(t, "/a/b", removeDotSegments("/a/./b", true))
	assert.Equal(t, "/b", removeDotSegments("/a/../b", true))
	assert.Equal(t, "/a/b/", removeDotSegments("/a/b/c/..//", true))
	assert.Equal(t, "a/c", removeDotSegments("a/./c", true))
}
