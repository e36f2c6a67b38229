
// Package checks defines the frame, homepage, release notes and robots checks
// run against a docs site, one check per language or language/version pair.
package checks

import (
	"context"
	"fmt"
	"strings"

	"docsite-frame-checker/internal/content"
	"docsite-frame-checker/internal/crawler"
	"docsite-frame-checker/internal/languages"
	"docsite-frame-checker/internal/parser"
	"docsite-frame-checker/internal/robots"
	"docsite-frame-checker/internal/versions"
)

const (
	DefaultSiteURL = "https://docs.github.com"

	SuiteFrame        = "frame"
	SuiteHomepage     = "homepage"
	SuiteReleaseNotes = "release notes"
	SuiteRobots       = "robots"

	crawlCheckPath   = "/articles/verifying-your-email-address"
	breadcrumbPath   = "/get-started/learning-about-github"
	sidebarPath      = "/get-started"
	termsPath        = "/site-policy/github-terms/github-terms-of-service"
	productHomepage  = "enterprise-cloud@latest"
	releaseNotesPath = "/admin/release-notes"
)

// DOMFetcher returns parsed pages; crawler.DOMCache satisfies it.
type DOMFetcher interface {
	GetDOM(ctx context.Context, path string) (*parser.Document, error)
}

// Getter issues raw GETs; crawler.HTTPClient satisfies it.
type Getter interface {
	Get(ctx context.Context, path string) (*crawler.Response, error)
}

type Env struct {
	DOM       DOMFetcher
	HTTP      Getter
	Policy    *robots.Policy
	Languages *languages.Registry
	// SiteURL is the canonical origin hreflang alternates point at.
	SiteURL string
	// UserAgent is the agent robots.txt rules are evaluated for.
	UserAgent string
}

func (e *Env) siteURL() string {
	if e.SiteURL == "" {
		return DefaultSiteURL
	}
	return strings.TrimSuffix(e.SiteURL, "/")
}

func (e *Env) userAgent() string {
	if e.UserAgent == "" {
		return "Googlebot"
	}
	return e.UserAgent
}

// Check is a single named assertion. A non-empty Skip names the tracking
// issue the check is parked under; Run is not called for skipped checks.
type Check struct {
	Suite   string
	Name    string
	Lang    string
	Version string
	Skip    string
	Run     func(ctx context.Context) error
}

// All returns every suite for the registry's non-default languages.
// releaseNotes may be nil, in which case that suite is left out.
func All(env *Env, releaseNotes *content.Page) []Check {
	langs := env.Languages.NonDefault()
	var out []Check
	out = append(out, Frame(env, langs)...)
	out = append(out, Homepage(env, langs)...)
	if releaseNotes != nil {
		out = append(out, ReleaseNotes(env, langs, releaseNotes)...)
	}
	out = append(out, Robots(env, langs)...)
	return out
}

type langCheck struct {
	name string
	skip string
	run  func(ctx context.Context, env *Env, lang string) error
}

var frameChecks = []langCheck{
	{name: "allows crawling of %s pages", run: allowsCrawling},
	{name: "breadcrumbs link to %s pages", run: breadcrumbsLinkToLang},
	{name: "homepage links go to %s pages", run: homepageLinksLocalized},
	{name: "includes homepage hreflang to %s", run: homepageHreflang},
	{name: "sets `lang` attribute on <html> attribute in %s", run: htmlLangAttribute},
	{name: "autogenerated heading IDs on %s are in english", skip: "Docs Engineering issue: 2096", run: headingIDsInEnglish},
	{name: "loads the side bar via site tree in %s", run: sidebarLocalized},
	{name: "loads the survey via site data in %s", skip: "Docs Engineering issue: 2637", run: surveyLocalized},
}

var homepageChecks = []langCheck{
	{name: "homepage in non-default product in non-default language", run: productHomepageProducts},
	{name: "homepage in non-default language has product links", run: homepageProducts},
}

func Frame(env *Env, langs []string) []Check {
	return expand(env, SuiteFrame, frameChecks, langs)
}

func Homepage(env *Env, langs []string) []Check {
	return expand(env, SuiteHomepage, homepageChecks, langs)
}

func expand(env *Env, suite string, defs []langCheck, langs []string) []Check {
	var out []Check
	for _, def := range defs {
		for _, lang := range langs {
			name := def.name
			if strings.Contains(name, "%s") {
				name = fmt.Sprintf(name, lang)
			}
			out = append(out, Check{
				Suite: suite,
				Name:  name,
				Lang:  lang,
				Skip:  def.skip,
				Run:   func(ctx context.Context) error { return def.run(ctx, env, lang) },
			})
		}
	}
	return out
}

// ReleaseNotes checks one release per plan in every language.
func ReleaseNotes(env *Env, langs []string, page *content.Page) []Check {
	var out []Check
	for _, combo := range versions.Combinations(langs, page.ApplicableVersions) {
		href := content.Href(combo.Lang, combo.Version, page.Path())
		out = append(out, Check{
			Suite:   SuiteReleaseNotes,
			Name:    "latest release notes",
			Lang:    combo.Lang,
			Version: combo.Version,
			Run: func(ctx context.Context) error {
				resp, err := env.HTTP.Get(ctx, href)
				if err != nil {
					return err
				}
				return expectEqual("status of "+href, 200, resp.StatusCode)
			},
		})
	}
	return out
}

// Robots verifies the served robots.txt agrees with the crawl policy for the
// translated sample article.
func Robots(env *Env, langs []string) []Check {
	var out []Check
	for _, lang := range langs {
		out = append(out, Check{
			Suite: SuiteRobots,
			Name:  fmt.Sprintf("robots.txt allows crawling of %s pages", lang),
			Lang:  lang,
			Run: func(ctx context.Context) error {
				resp, err := env.HTTP.Get(ctx, "/robots.txt")
				if err != nil {
					return err
				}
				ok, err := robots.AllowedByRobotsTxt(resp.StatusCode, resp.Body, "/"+lang+crawlCheckPath, env.userAgent())
				if err != nil {
					return err
				}
				return expectEqual("robots.txt allows /"+lang+crawlCheckPath, true, ok)
			},
		})
	}
	return out
}
