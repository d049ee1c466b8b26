// Package routes is the routing table of the course API: symbolic names to
// URL patterns. The server registers from it and clients resolve against it.
package routes

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	CourseList   = "course-list"
	CourseDetail = "course-detail"
)

var table = map[string]string{
	CourseList:   "/courses/",
	CourseDetail: "/courses/{courseID}/",
}

// Pattern returns the canonical pattern of a named route.
func Pattern(name string) (string, bool) {
	p, ok := table[name]
	return p, ok
}

// ChiPattern is Pattern without the trailing slash, the form the router
// registers once trailing slashes are stripped.
func ChiPattern(name string) string {
	p, ok := table[name]
	if !ok {
		panic("routes: unknown route " + name)
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Reverse fills the placeholders of the named route with args, in order.
func Reverse(name string, args ...any) (string, error) {
	p, ok := table[name]
	if !ok {
		return "", fmt.Errorf("no route named %q", name)
	}
	var b strings.Builder
	used := 0
	for {
		open := strings.IndexByte(p, '{')
		if open < 0 {
			b.WriteString(p)
			break
		}
		end := strings.IndexByte(p[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("route %q: unterminated placeholder", name)
		}
		if used >= len(args) {
			return "", fmt.Errorf("route %q: expected more than %d argument(s)", name, len(args))
		}
		b.WriteString(p[:open])
		b.WriteString(url.PathEscape(fmt.Sprint(args[used])))
		used++
		p = p[open+end+1:]
	}
	if used != len(args) {
		return "", fmt.Errorf("route %q: takes %d argument(s), got %d", name, used, len(args))
	}
	return b.String(), nil
}

// MustReverse is Reverse that panics on error.
func MustReverse(name string, args ...any) string {
	s, err := Reverse(name, args...)
	if err != nil {
		panic(err)
	}
	return s
}
