package steps

import (
	"strings"

	"github.com/abhisek/dyscreen/internal/catalog"
)

// RoutePrefix is the first path segment of every test route.
const RoutePrefix = "/test/"

// Route builds the canonical path of a step.
func Route(t catalog.TestType, step string) string {
	return RoutePrefix + string(t) + "/" + strings.Trim(step, "/")
}

// ParsePath splits a route of the form /test/{testType}/{step} into its parts.
// The step is the whole trailing remainder, so "simple/1" and "simple" stay
// distinct. Query strings, fragments and trailing slashes are ignored.
// A route naming only the test type yields an empty step.
func ParsePath(path string) (catalog.TestType, string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, RoutePrefix) {
		return "", "", false
	}
	rest := strings.Trim(strings.TrimPrefix(path, RoutePrefix), "/")
	typ, step, _ := strings.Cut(rest, "/")
	tt, err := catalog.ParseTestType(typ)
	if err != nil {
		return "", "", false
	}
	return tt, strings.Trim(step, "/"), true
}
