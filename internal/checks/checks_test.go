package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite-frame-checker/internal/content"
	"docsite-frame-checker/internal/crawler"
	"docsite-frame-checker/internal/languages"
	"docsite-frame-checker/internal/parser"
	"docsite-frame-checker/internal/robots"
	"docsite-frame-checker/internal/versions"
)

type fakeSite struct {
	pages  map[string]string
	status map[string]int
	gets   []string
}

func (f *fakeSite) GetDOM(_ context.Context, path string) (*parser.Document, error) {
	html, ok := f.pages[path]
	if !ok {
		return nil, fmt.Errorf("%w 404 for %s", crawler.ErrBadStatus, path)
	}
	return parser.Parse(strings.NewReader(html), "text/html")
}

func (f *fakeSite) Get(_ context.Context, path string) (*crawler.Response, error) {
	f.gets = append(f.gets, path)
	if code, ok := f.status[path]; ok {
		return &crawler.Response{StatusCode: code}, nil
	}
	if html, ok := f.pages[path]; ok {
		return &crawler.Response{StatusCode: 200, Body: []byte(html)}, nil
	}
	return &crawler.Response{StatusCode: 404}, nil
}

func newEnv(t *testing.T, site *fakeSite) *Env {
	t.Helper()
	langs := languages.Default()
	policy, err := robots.NewPolicy(langs, versions.Default(), robots.DefaultDisallow)
	require.NoError(t, err)
	return &Env{DOM: site, HTTP: site, Policy: policy, Languages: langs}
}

func find(t *testing.T, list []Check, name, lang string) Check {
	t.Helper()
	for _, c := range list {
		if c.Name == name && c.Lang == lang {
			return c
		}
	}
	t.Fatalf("no check %q for %s", name, lang)
	return Check{}
}

func TestFrameExpandsPerLanguage(t *testing.T) {
	env := newEnv(t, &fakeSite{})
	list := Frame(env, []string{"ja", "pt"})

	require.Len(t, list, len(frameChecks)*2)
	assert.Equal(t, "allows crawling of ja pages", list[0].Name)
	assert.Equal(t, "allows crawling of pt pages", list[1].Name)

	skipped := 0
	for _, c := range list {
		assert.Equal(t, SuiteFrame, c.Suite)
		if c.Skip != "" {
			skipped++
		}
	}
	assert.Equal(t, 4, skipped)
	assert.Equal(t, "Docs Engineering issue: 2096", find(t, list, "autogenerated heading IDs on ja are in english", "ja").Skip)
	assert.Equal(t, "Docs Engineering issue: 2637", find(t, list, "loads the survey via site data in pt", "pt").Skip)

	home := Homepage(env, []string{"ja"})
	require.Len(t, home, 2)
	assert.Equal(t, "homepage in non-default product in non-default language", home[0].Name)
}

func TestAllowsCrawling(t *testing.T) {
	env := newEnv(t, &fakeSite{})
	for _, c := range Frame(env, env.Languages.NonDefault()) {
		if strings.HasPrefix(c.Name, "allows crawling") {
			assert.NoError(t, c.Run(context.Background()), c.Name)
		}
	}
	assert.Error(t, allowsCrawling(context.Background(), env, "ko"), "wip languages are blocked")
}

func TestBreadcrumbs(t *testing.T) {
	site := &fakeSite{pages: map[string]string{
		"/ja/get-started/learning-about-github": `<nav data-testid="breadcrumbs"><a href="/ja/get-started">x</a><a href="/ja/get-started/learning-about-github">y</a></nav>`,
		"/pt/get-started/learning-about-github": `<nav data-testid="breadcrumbs"><a href="/en/get-started">x</a></nav>`,
		"/es/get-started/learning-about-github": `<p>no crumbs</p>`,
	}}
	env := newEnv(t, site)
	ctx := context.Background()

	assert.NoError(t, breadcrumbsLinkToLang(ctx, env, "ja"))

	err := breadcrumbsLinkToLang(ctx, env, "pt")
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "/pt/get-started", ae.Expected)
	assert.Equal(t, "/en/get-started", ae.Actual)
	assert.Equal(t, `first breadcrumb href: expected "/pt/get-started", got "/en/get-started"`, err.Error())

	assert.Error(t, breadcrumbsLinkToLang(ctx, env, "es"))
	assert.ErrorIs(t, breadcrumbsLinkToLang(ctx, env, "zh"), crawler.ErrBadStatus)
}

func TestHomepageChecks(t *testing.T) {
	site := &fakeSite{pages: map[string]string{
		"/en": `<html lang="en"><head>
<link rel="alternate" hreflang="ja" href="https://docs.github.com/ja">
<link rel="alternate" hreflang="pt" href="https://docs.github.com/pt">
<link rel="alternate" hreflang="pt" href="https://docs.github.com/pt">
</head></html>`,
		"/ja":                         `<html lang="ja"><body><div data-testid="product"><a data-testid="bump-link" href="/ja/get-started">x</a></div></body></html>`,
		"/pt":                         `<html lang="en"><body><div data-testid="product"></div><div data-testid="product"><a data-testid="bump-link" href="/en/get-started">x</a></div></body></html>`,
		"/ja/enterprise-cloud@latest": `<div data-testid="product"></div>`,
	}}
	env := newEnv(t, site)
	ctx := context.Background()

	assert.NoError(t, homepageLinksLocalized(ctx, env, "ja"))
	assert.Error(t, homepageLinksLocalized(ctx, env, "pt"))

	assert.NoError(t, homepageHreflang(ctx, env, "ja"))
	assert.Error(t, homepageHreflang(ctx, env, "pt"), "duplicate alternates")
	assert.Error(t, homepageHreflang(ctx, env, "zh"), "missing alternate")

	assert.NoError(t, htmlLangAttribute(ctx, env, "ja"))
	assert.Error(t, htmlLangAttribute(ctx, env, "pt"))

	assert.NoError(t, homepageProducts(ctx, env, "ja"))
	assert.Error(t, homepageProducts(ctx, env, "pt"))
	assert.NoError(t, productHomepageProducts(ctx, env, "ja"))
}

func TestHreflangUsesConfiguredSite(t *testing.T) {
	site := &fakeSite{pages: map[string]string{
		"/en": `<link rel="alternate" hreflang="ja" href="https://docs.example.com/ja">`,
	}}
	env := newEnv(t, site)
	env.SiteURL = "https://docs.example.com/"
	assert.NoError(t, homepageHreflang(context.Background(), env, "ja"))
}

func TestSidebarLocalized(t *testing.T) {
	site := &fakeSite{pages: map[string]string{
		"/en/get-started": `<nav><a href="/en/get-started">Get started</a></nav>`,
		"/ja/get-started": `<nav><a href="/ja/get-started">概要</a></nav>`,
		"/pt/get-started": `<nav><a href="/pt/get-started">Get started</a></nav>`,
		"/es/get-started": `<nav></nav>`,
	}}
	env := newEnv(t, site)
	ctx := context.Background()

	assert.NoError(t, sidebarLocalized(ctx, env, "ja"))
	assert.Error(t, sidebarLocalized(ctx, env, "pt"), "untranslated sidebar")
	assert.Error(t, sidebarLocalized(ctx, env, "es"), "missing sidebar link")
}

func TestReleaseNotes(t *testing.T) {
	fsys := fstest.MapFS{
		"content/en/admin/release-notes.md": {Data: []byte("---\ntitle: Release notes\nversions:\n  ghec: '*'\n  ghes: '>=3.13'\n---\n")},
	}
	page, err := content.Init(content.InitOptions{
		FS: fsys, BasePath: "content", RelativePath: "admin/release-notes.md", LanguageCode: "en",
	}, versions.Default())
	require.NoError(t, err)

	site := &fakeSite{status: map[string]int{
		"/ja/enterprise-cloud@latest/admin/release-notes": 200,
		"/pt/enterprise-cloud@latest/admin/release-notes": 200,
		"/ja/enterprise-server@3.14/admin/release-notes":  200,
		"/pt/enterprise-server@3.14/admin/release-notes":  500,
		"/ja/enterprise-server@3.13/admin/release-notes":  200,
	}}
	env := newEnv(t, site)
	list := ReleaseNotes(env, []string{"ja", "pt"}, page)

	require.Len(t, list, 4, "one release per plan per language")
	assert.Equal(t, "enterprise-cloud@latest", list[0].Version)
	assert.Equal(t, "pt", list[1].Lang)
	assert.Equal(t, "enterprise-server@3.14", list[2].Version)

	for _, c := range list[:3] {
		assert.NoError(t, c.Run(context.Background()), c.Lang+" "+c.Version)
	}
	err = list[3].Run(context.Background())
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 500, ae.Actual)
	assert.NotContains(t, site.gets, "/ja/enterprise-server@3.13/admin/release-notes")
}

func TestRobotsSuite(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/robots.txt": "User-agent: *\nDisallow: /ja/articles\n"}}
	env := newEnv(t, site)
	list := Robots(env, []string{"ja", "pt"})
	require.Len(t, list, 2)
	assert.Error(t, list[0].Run(context.Background()))
	assert.NoError(t, list[1].Run(context.Background()))

	// no robots.txt means nothing is disallowed
	env = newEnv(t, &fakeSite{})
	assert.NoError(t, Robots(env, []string{"ja"})[0].Run(context.Background()))

	env = newEnv(t, &fakeSite{status: map[string]int{"/robots.txt": 403}})
	assert.NoError(t, Robots(env, []string{"ja"})[0].Run(context.Background()), "4xx allows all")

	env = newEnv(t, &fakeSite{status: map[string]int{"/robots.txt": 503}})
	assert.Error(t, Robots(env, []string{"ja"})[0].Run(context.Background()), "5xx disallows all")
}

func TestAllLeavesOutReleaseNotesWithoutPage(t *testing.T) {
	env := newEnv(t, &fakeSite{})
	n := len(env.Languages.NonDefault())
	list := All(env, nil)
	assert.Len(t, list, n*(len(frameChecks)+len(homepageChecks)+1))
	for _, c := range list {
		assert.NotEqual(t, SuiteReleaseNotes, c.Suite)
	}
}

func TestExpectNotEqual(t *testing.T) {
	assert.NoError(t, expectNotEqual("x", "a", "b"))
	err := expectNotEqual("survey heading", "Hi", "Hi")
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*AssertionError)))
	assert.Contains(t, err.Error(), `anything but "Hi"`)
}
