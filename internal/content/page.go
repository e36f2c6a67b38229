
// Package content loads markdown documents and their frontmatter into pages.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"docsite-frame-checker/internal/versions"
)

var ErrNotFound = errors.New("content: page not found")

// InitOptions locates a document at BasePath/LanguageCode/RelativePath.
// FS defaults to the working directory.
type InitOptions struct {
	FS           fs.FS
	BasePath     string
	RelativePath string
	LanguageCode string
}

type frontMatter struct {
	Title      string            `yaml:"title"`
	ShortTitle string            `yaml:"shortTitle"`
	Intro      string            `yaml:"intro"`
	Versions   map[string]string `yaml:"versions"`
	Children   []string          `yaml:"children"`
	Survey     string            `yaml:"survey"`
}

type Page struct {
	RelativePath       string
	LanguageCode       string
	Title              string
	ShortTitle         string
	Intro              string
	Survey             string
	Versions           map[string]string
	ApplicableVersions []string
	Children           []string

	body []byte
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Init reads and parses one document. ApplicableVersions is resolved through
// catalog in catalog order.
func Init(opts InitOptions, catalog *versions.Catalog) (*Page, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	base := opts.BasePath
	if base == "" {
		base = "."
	}
	rel := strings.TrimPrefix(opts.RelativePath, "/")
	file := path.Join(base, opts.LanguageCode, rel)

	src, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, file)
		}
		return nil, fmt.Errorf("content: read %s: %w", file, err)
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, fmt.Errorf("content: frontmatter %s: %w", file, err)
	}
	applicable, err := catalog.Resolve(meta.Versions)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", file, err)
	}

	return &Page{
		RelativePath:       rel,
		LanguageCode:       opts.LanguageCode,
		Title:              meta.Title,
		ShortTitle:         meta.ShortTitle,
		Intro:              meta.Intro,
		Survey:             meta.Survey,
		Versions:           meta.Versions,
		ApplicableVersions: applicable,
		Children:           meta.Children,
		body:               body,
	}, nil
}

// Path is the URL path of the page without language or version segments.
func (p *Page) Path() string {
	s := strings.TrimSuffix(p.RelativePath, ".md")
	if s == "index" {
		return "/"
	}
	return "/" + strings.TrimSuffix(s, "/index")
}

// Href builds /{lang}/{version}{path}. An empty version leaves the segment out.
func (p *Page) Href(lang, version string) string {
	return Href(lang, version, p.Path())
}

func Href(lang, version, pagePath string) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(lang)
	if version != "" {
		b.WriteString("/")
		b.WriteString(version)
	}
	if pagePath != "/" && pagePath != "" {
		b.WriteString("/")
		b.WriteString(strings.TrimPrefix(pagePath, "/"))
	}
	return b.String()
}

// Label prefers the short title, as navigation does.
func (p *Page) Label() string {
	if p.ShortTitle != "" {
		return p.ShortTitle
	}
	return p.Title
}

// AppliesTo reports whether version is one of the page's applicable versions.
func (p *Page) AppliesTo(version string) bool {
	for _, v := range p.ApplicableVersions {
		if v == version {
			return true
		}
	}
	return false
}

func (p *Page) RenderBody() (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(p.body, &buf); err != nil {
		return "", fmt.Errorf("content: render %s: %w", p.RelativePath, err)
	}
	return template.HTML(buf.String()), nil
}
