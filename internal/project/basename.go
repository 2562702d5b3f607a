package project

import "strings"

// FileBaseName returns the last path element of path, accepting both "/"
// and "\" separators: whichever split yields the shorter tail wins.
func FileBaseName(path string) string {
	if path == "" {
		return ""
	}
	back := path[strings.LastIndex(path, `\`)+1:]
	forward := path[strings.LastIndex(path, "/")+1:]
	if len(back) < len(forward) {
		return back
	}
	return forward
}
