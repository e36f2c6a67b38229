// Package site serves a translated docs site from markdown content: localized
// homepages, versioned article pages, hreflang alternates and robots.txt.
package site

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docsite-frame-checker/internal/content"
	"docsite-frame-checker/internal/languages"
	"docsite-frame-checker/internal/models"
	"docsite-frame-checker/internal/robots"
	"docsite-frame-checker/internal/versions"
	"docsite-frame-checker/pkg/logger"
)

//go:embed all:content
var sampleFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

// SampleContent is the content tree built into the binary.
func SampleContent() fs.FS {
	sub, err := fs.Sub(sampleFS, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

type Options struct {
	Languages *languages.Registry
	Catalog   *versions.Catalog
	Policy    *robots.Policy
	// Content holds <lang>/<path>.md documents; nil serves SampleContent.
	Content fs.FS
	// SiteURL is the canonical origin used for canonical and hreflang links.
	SiteURL string
	Logger  *logger.Logger
}

type Server struct {
	langs   *languages.Registry
	catalog *versions.Catalog
	policy  *robots.Policy
	store   *content.Store
	siteURL string
	log     *logger.Logger
	tmpl    *template.Template
	router  chi.Router
}

type link struct {
	Href string
	Text string
}

type sidebar struct {
	Root  link
	Links []link
}

type pageView struct {
	Lang        string
	Title       string
	Intro       string
	Canonical   string
	Alternates  []models.Alternate
	Breadcrumbs []link
	Sidebar     *sidebar
	Home        bool
	Products    []link
	Body        template.HTML
	Survey      string
}

func New(opts Options) (*Server, error) {
	if opts.Languages == nil || opts.Catalog == nil || opts.Policy == nil {
		return nil, errors.New("site: languages, catalog and policy are required")
	}
	if opts.Content == nil {
		opts.Content = SampleContent()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		langs:   opts.Languages,
		catalog: opts.Catalog,
		policy:  opts.Policy,
		store:   content.NewStore(opts.Content, ".", opts.Languages.DefaultCode(), opts.Catalog),
		siteURL: strings.TrimSuffix(opts.SiteURL, "/"),
		log:     opts.Logger.WithPrefix("site"),
		tmpl:    tmpl,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequest)
	r.Use(s.policy.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(s.policy.RobotsTxt()))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+s.langs.DefaultCode(), http.StatusFound)
	})
	r.Get("/{lang}", s.serveDocs)
	r.Get("/{lang}/*", s.serveDocs)
	return r
}

// serveDocs handles /{lang}, /{lang}/{version} and /{lang}/[{version}/]{path}.
func (s *Server) serveDocs(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if _, ok := s.langs.Get(lang); !ok {
		http.NotFound(w, r)
		return
	}

	rest := strings.Trim(chi.URLParam(r, "*"), "/")
	version := ""
	if first, remainder, _ := strings.Cut(rest, "/"); strings.Contains(first, "@") {
		plan, deprecated, known := s.catalog.Lookup(first)
		if !known || deprecated || plan.Hidden {
			http.NotFound(w, r)
			return
		}
		if first == s.catalog.DefaultVersion() {
			http.Redirect(w, r, content.Href(lang, "", "/"+remainder), http.StatusMovedPermanently)
			return
		}
		version, rest = first, remainder
	}

	var (
		view *pageView
		err  error
	)
	if rest == "" {
		view, err = s.homepage(lang, version)
	} else {
		view, err = s.article(lang, version, "/"+rest)
	}
	switch {
	case errors.Is(err, content.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.log.Errorf("render %s: %v", r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page.html", view); err != nil {
		s.log.Errorf("template %s: %v", r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) homepage(lang, version string) (*pageView, error) {
	page, err := s.store.Load(lang, "/")
	if err != nil {
		return nil, err
	}
	view := s.baseView(page, lang, version, "/")
	view.Home = true
	view.Survey = page.Survey
	for _, child := range page.Children {
		cp, err := s.store.Load(lang, child)
		if err != nil {
			s.log.Warnf("homepage %s: child %s: %v", lang, child, err)
			continue
		}
		if !s.applies(cp, version) {
			continue
		}
		view.Products = append(view.Products, link{Href: content.Href(lang, version, cp.Path()), Text: cp.Label()})
	}
	return view, nil
}

func (s *Server) article(lang, version, path string) (*pageView, error) {
	page, err := s.store.Load(lang, path)
	if err != nil {
		return nil, err
	}
	if !s.applies(page, version) {
		return nil, content.ErrNotFound
	}
	body, err := page.RenderBody()
	if err != nil {
		return nil, err
	}
	body, err = anchorHeadings(body)
	if err != nil {
		return nil, err
	}

	view := s.baseView(page, lang, version, page.Path())
	view.Body = body
	view.Breadcrumbs = s.breadcrumbs(lang, version, page.Path())
	view.Sidebar = s.sidebar(lang, version, page.Path())
	return view, nil
}

func (s *Server) baseView(page *content.Page, lang, version, path string) *pageView {
	view := &pageView{
		Lang:      lang,
		Title:     page.Title,
		Intro:     page.Intro,
		Canonical: s.siteURL + content.Href(lang, version, path),
	}
	for _, code := range s.langs.Keys() {
		if code == lang {
			continue
		}
		l, _ := s.langs.Get(code)
		view.Alternates = append(view.Alternates, models.Alternate{
			Hreflang: l.Hreflang,
			Href:     s.siteURL + content.Href(code, version, path),
		})
	}
	return view
}

// breadcrumbs lists every ancestor of path that exists, path included.
func (s *Server) breadcrumbs(lang, version, path string) []link {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	var out []link
	for i := 1; i <= len(segs); i++ {
		p := "/" + strings.Join(segs[:i], "/")
		cp, err := s.store.Load(lang, p)
		if err != nil {
			continue
		}
		out = append(out, link{Href: content.Href(lang, version, p), Text: cp.Label()})
	}
	return out
}

// sidebar is built from the product root (first path segment) and its
// children, all in the requested language.
func (s *Server) sidebar(lang, version, path string) *sidebar {
	first, _, _ := strings.Cut(strings.Trim(path, "/"), "/")
	root := "/" + first
	rootPage, err := s.store.Load(lang, root)
	if err != nil {
		return nil
	}
	sb := &sidebar{Root: link{Href: content.Href(lang, version, root), Text: rootPage.Label()}}
	for _, child := range rootPage.Children {
		p := root + "/" + strings.TrimPrefix(child, "/")
		cp, err := s.store.Load(lang, p)
		if err != nil || !s.applies(cp, version) {
			continue
		}
		sb.Links = append(sb.Links, link{Href: content.Href(lang, version, p), Text: cp.Label()})
	}
	return sb
}

// applies treats pages without versions frontmatter as published everywhere.
// An empty version means the catalog default.
func (s *Server) applies(page *content.Page, version string) bool {
	if len(page.Versions) == 0 {
		return true
	}
	if version == "" {
		version = s.catalog.DefaultVersion()
	}
	return page.AppliesTo(version)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Infof("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
