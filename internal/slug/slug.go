package slug

import (
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Make derives a URL-safe slug from a title: lowercase, trim, strip
// everything outside [a-z0-9 -], collapse whitespace to single hyphens and
// collapse repeated hyphens. The result is used as a uniqueness key for
// products, so Make must stay deterministic and idempotent.
func Make(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return s
}
