package gen

import (
	"path"
	"strings"
)

// RelativePath returns the path of to relative to the directory containing
// from. Both are slash-separated paths relative to the same output root;
// the result does not depend on the working directory.
func RelativePath(from, to string) string {
	src := segments(path.Dir(from))
	dst := segments(to)
	common := 0
	for common < len(src) && common < len(dst)-1 && src[common] == dst[common] {
		common++
	}
	parts := make([]string, 0, len(src)-common+len(dst)-common)
	for range src[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, dst[common:]...)
	return strings.Join(parts, "/")
}

func segments(p string) []string {
	var out []string
	for _, s := range strings.Split(path.Clean(p), "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}
