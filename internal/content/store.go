
package content

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"docsite-frame-checker/internal/versions"
)

// Store resolves URL paths to localized pages, falling back to the default
// language when a translation is missing.
type Store struct {
	fsys        fs.FS
	base        string
	defaultLang string
	catalog     *versions.Catalog
}

func NewStore(fsys fs.FS, base, defaultLang string, catalog *versions.Catalog) *Store {
	if base == "" {
		base = "."
	}
	return &Store{fsys: fsys, base: base, defaultLang: defaultLang, catalog: catalog}
}

// Load finds the document for a URL path such as "/get-started" by trying
// "get-started.md" then "get-started/index.md".
func (s *Store) Load(lang, urlPath string) (*Page, error) {
	page, err := s.load(lang, urlPath)
	if errors.Is(err, ErrNotFound) && lang != s.defaultLang {
		page, err = s.load(s.defaultLang, urlPath)
		if err == nil {
			page.LanguageCode = lang
		}
	}
	return page, err
}

func (s *Store) load(lang, urlPath string) (*Page, error) {
	clean := strings.Trim(path.Clean("/"+urlPath), "/")
	candidates := []string{path.Join(clean, "index.md")}
	if clean != "" {
		candidates = []string{clean + ".md", path.Join(clean, "index.md")}
	}
	var lastErr error
	for _, rel := range candidates {
		p, err := Init(InitOptions{FS: s.fsys, BasePath: s.base, RelativePath: rel, LanguageCode: lang}, s.catalog)
		if err == nil {
			return p, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, lastErr
}
