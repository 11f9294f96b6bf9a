// AngelaMos | 2026
// slug.go

// Package slug derives URL-safe identifiers from display names. The API
// accepts any non-empty slug on write; Make is offered to the console so
// forms can suggest a normalized value.
package slug

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/bythepixel/propixel/internal/core"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphens    = regexp.MustCompile(`-+`)
	canonical  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make lower-cases s, drops characters outside [a-z0-9], whitespace and
// hyphens, then turns whitespace runs and repeated hyphens into one hyphen.
func Make(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	return hyphens.ReplaceAllString(s, "-")
}

// Valid reports whether s is already in canonical form: non-empty, no
// leading, trailing or doubled hyphens.
func Valid(s string) bool {
	return canonical.MatchString(s)
}

type Response struct {
	Slug  string `json:"slug"`
	Valid bool   `json:"valid"`
}

// Handler serves GET /slugify?text=...
func Handler(w http.ResponseWriter, r *http.Request) {
	s := Make(r.URL.Query().Get("text"))
	core.OK(w, Response{Slug: s, Valid: Valid(s)})
}
