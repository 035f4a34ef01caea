package gapi

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// AllowList decides which methods the generic request tool may call.
// Methods are addressed as `<api>.<version>.<method>`, eg- `storage.v1.buckets.list`.
// Patterns are globs where `*` matches within one dot-separated segment and `**` across segments.
// An empty AllowList denies every method.
type AllowList struct {
	patterns []string
	globs    []glob.Glob
}

// NewAllowList compiles the given patterns. Blank patterns are ignored.
func NewAllowList(patterns []string) (*AllowList, error) {
	a := &AllowList{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid allow-list pattern '%s': %w", p, err)
		}
		a.patterns = append(a.patterns, p)
		a.globs = append(a.globs, g)
	}
	return a, nil
}

// MethodKey builds the name an API method is matched by.
func MethodKey(api, version, method string) string {
	return api + "." + version + "." + method
}

// Allows reports whether key matches at least one pattern.
func (a *AllowList) Allows(key string) bool {
	if a == nil {
		return false
	}
	for _, g := range a.globs {
		if g.Match(key) {
			return true
		}
	}
	return false
}

// Patterns returns the compiled patterns.
func (a *AllowList) Patterns() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.patterns...)
}
