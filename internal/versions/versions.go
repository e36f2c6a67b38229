
// Package versions models the product plans a docs page can be published under
// and the "prefix@release" version strings derived from them.
package versions

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed versions.yml
var defaultCatalogYAML []byte

// Latest is the release name of plans that are not versioned.
const Latest = "latest"

var (
	ErrUnknownPlan = errors.New("versions: unknown plan")
	ErrBadRange    = errors.New("versions: bad range")
)

type Plan struct {
	Short      string   `yaml:"short"`
	Prefix     string   `yaml:"prefix"`
	Releases   []string `yaml:"releases"`
	Deprecated []string `yaml:"deprecated"`
	Hidden     bool     `yaml:"hidden"`
}

// Version returns the version string for one of the plan's releases.
func (p Plan) Version(release string) string { return p.Prefix + "@" + release }

type Catalog struct {
	plans    []Plan
	byShort  map[string]Plan
	byPrefix map[string]Plan
}

func Load(r io.Reader) (*Catalog, error) {
	var plans []Plan
	if err := yaml.NewDecoder(r).Decode(&plans); err != nil {
		return nil, fmt.Errorf("versions: parse: %w", err)
	}
	c := &Catalog{byShort: map[string]Plan{}, byPrefix: map[string]Plan{}}
	for _, p := range plans {
		if p.Short == "" || p.Prefix == "" {
			return nil, fmt.Errorf("versions: plan needs short and prefix: %+v", p)
		}
		if len(p.Releases) == 0 {
			p.Releases = []string{Latest}
		}
		if _, dup := c.byShort[p.Short]; dup {
			return nil, fmt.Errorf("versions: duplicate plan %q", p.Short)
		}
		c.plans = append(c.plans, p)
		c.byShort[p.Short] = p
		c.byPrefix[p.Prefix] = p
	}
	if len(c.plans) == 0 {
		return nil, errors.New("versions: empty catalog")
	}
	return c, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Plans() []Plan { return append([]Plan(nil), c.plans...) }

// DefaultVersion is the first release of the first plan; URLs without a
// version segment are served under it.
func (c *Catalog) DefaultVersion() string {
	p := c.plans[0]
	return p.Version(p.Releases[0])
}

// Lookup classifies a version string. known is false when the prefix is not in
// the catalog; a release that is neither current nor deprecated is reported as
// unknown as well.
func (c *Catalog) Lookup(version string) (plan Plan, deprecated, known bool) {
	prefix, release, ok := Split(version)
	if !ok {
		return Plan{}, false, false
	}
	plan, ok = c.byPrefix[prefix]
	if !ok {
		return Plan{}, false, false
	}
	for _, r := range plan.Releases {
		if r == release {
			return plan, false, true
		}
	}
	for _, r := range plan.Deprecated {
		if r == release {
			return plan, true, true
		}
	}
	return plan, false, false
}

// Resolve expands a page's versions frontmatter into its ordered applicable
// versions: catalog plan order first, then release order within a plan.
// Hidden plans never contribute.
func (c *Catalog) Resolve(frontmatter map[string]string) ([]string, error) {
	for key := range frontmatter {
		if _, ok := c.byShort[key]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, key)
		}
	}
	var out []string
	for _, p := range c.plans {
		expr, ok := frontmatter[p.Short]
		if !ok || p.Hidden {
			continue
		}
		match, err := parseRange(expr)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", p.Short, err)
		}
		for _, r := range p.Releases {
			if r == Latest {
				if match.all {
					out = append(out, p.Version(r))
				} else if len(match.terms) > 0 {
					return nil, fmt.Errorf("%w: plan %s is not versioned, use '*'", ErrBadRange, p.Short)
				}
				continue
			}
			if match.matches(r) {
				out = append(out, p.Version(r))
			}
		}
	}
	return out, nil
}

// Split breaks "enterprise-server@3.12" into its prefix and release.
func Split(version string) (prefix, release string, ok bool) {
	prefix, release, ok = strings.Cut(version, "@")
	if !ok || prefix == "" || release == "" {
		return "", "", false
	}
	return prefix, release, true
}

// Prefix returns everything before the first "@", or the whole string.
func Prefix(version string) string {
	prefix, _, _ := strings.Cut(version, "@")
	return prefix
}

type rangeTerm struct {
	op  string
	ver []int
}

type rangeExpr struct {
	all   bool
	terms []rangeTerm
}

func parseRange(expr string) (rangeExpr, error) {
	expr = strings.TrimSpace(expr)
	if expr == "*" {
		return rangeExpr{all: true}, nil
	}
	if expr == "" {
		return rangeExpr{}, fmt.Errorf("%w: empty", ErrBadRange)
	}
	var out rangeExpr
	for _, tok := range strings.Fields(expr) {
		op := ""
		for _, candidate := range []string{">=", "<=", ">", "<", "="} {
			if strings.HasPrefix(tok, candidate) {
				op = candidate
				break
			}
		}
		v, err := parseRelease(strings.TrimPrefix(tok, op))
		if err != nil {
			return rangeExpr{}, fmt.Errorf("%w: %q", ErrBadRange, tok)
		}
		if op == "" {
			op = "="
		}
		out.terms = append(out.terms, rangeTerm{op: op, ver: v})
	}
	return out, nil
}

func (e rangeExpr) matches(release string) bool {
	if e.all {
		return true
	}
	v, err := parseRelease(release)
	if err != nil {
		return false
	}
	for _, t := range e.terms {
		cmp := compare(v, t.ver)
		var ok bool
		switch t.op {
		case ">=":
			ok = cmp >= 0
		case "<=":
			ok = cmp <= 0
		case ">":
			ok = cmp > 0
		case "<":
			ok = cmp < 0
		default:
			ok = cmp == 0
		}
		if !ok {
			return false
		}
	}
	return true
}

func parseRelease(s string) ([]int, error) {
	if s == "" {
		return nil, errors.New("empty release")
	}
	parts := strings.Split(s, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("release %q is not dotted numbers", s)
		}
		out[i] = n
	}
	return out, nil
}

func compare(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}
