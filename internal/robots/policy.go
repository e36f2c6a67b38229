
// Package robots decides which docs paths are kept out of search indexes.
package robots

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gobwas/glob"
	"github.com/temoto/robotstxt"

	"docsite-frame-checker/internal/languages"
	"docsite-frame-checker/internal/versions"
)

// DefaultDisallow matches sections that are never indexed.
var DefaultDisallow = []string{
	"/*/early-access",
	"/*/early-access/**",
	"/*/*@*/early-access/**",
}

type Policy struct {
	langs    *languages.Registry
	catalog  *versions.Catalog
	patterns []string
	globs    []glob.Glob
}

// NewPolicy compiles disallow patterns. Patterns use '/' as the separator, so
// '*' matches one path segment and '**' any number of them.
func NewPolicy(langs *languages.Registry, catalog *versions.Catalog, disallow []string) (*Policy, error) {
	p := &Policy{langs: langs, catalog: catalog, patterns: disallow}
	for _, pat := range disallow {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("robots: pattern %q: %w", pat, err)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// BlockIndex reports whether path must not be indexed. Paths under a WIP
// language, a hidden plan or a deprecated release are blocked, as are the
// disallowed sections. Paths without a language prefix are left alone.
func (p *Policy) BlockIndex(path string) bool {
	path = stripQuery(path)
	lang, rest := p.langs.Split(path)
	if lang != "" && !p.langs.Has(lang) {
		return true
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(rest, "/"), "/")
	if strings.Contains(segment, "@") {
		plan, deprecated, known := p.catalog.Lookup(segment)
		if !known || deprecated || plan.Hidden {
			return true
		}
	}

	for _, g := range p.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Middleware marks responses for blocked paths with X-Robots-Tag.
func (p *Policy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.BlockIndex(r.URL.Path) {
			w.Header().Set("X-Robots-Tag", "noindex")
		}
		next.ServeHTTP(w, r)
	})
}

// RobotsTxt renders the disallow patterns as a robots.txt for all agents.
func (p *Policy) RobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	seen := map[string]bool{}
	for _, pat := range p.patterns {
		// robots.txt has no '**'; a single '*' already spans segments there.
		line := strings.ReplaceAll(pat, "**", "*")
		line = strings.TrimSuffix(line, "/*")
		if seen[line] {
			continue
		}
		seen[line] = true
		fmt.Fprintf(&b, "Disallow: %s\n", line)
	}
	for _, l := range p.langs.All() {
		if l.WIP {
			fmt.Fprintf(&b, "Disallow: /%s/\nDisallow: /%s$\n", l.Code, l.Code)
		}
	}
	return b.String()
}

// AllowedByRobotsTxt evaluates a fetched robots.txt response for path and
// agent. A 4xx allows everything and a 5xx disallows everything.
func AllowedByRobotsTxt(status int, body []byte, path, agent string) (bool, error) {
	data, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		return false, fmt.Errorf("robots: parse robots.txt: %w", err)
	}
	return data.TestAgent(path, agent), nil
}

func stripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i]
	}
	return path
}
