package main

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docsite-frame-checker/internal/config"
	"docsite-frame-checker/internal/content"
	"docsite-frame-checker/internal/crawler"
	"docsite-frame-checker/internal/languages"
	"docsite-frame-checker/internal/robots"
	"docsite-frame-checker/internal/site"
	"docsite-frame-checker/internal/versions"
	"docsite-frame-checker/pkg/logger"
)

// app is everything a command needs, built once from the effective config.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	langs   *languages.Registry
	catalog *versions.Catalog
	policy  *robots.Policy
}

func loadApp(cmd *cobra.Command, flags *rootFlags, overrides map[string]any) (*app, error) {
	if overrides == nil {
		overrides = map[string]any{}
	}
	set := func(name, key, val string) {
		if cmd.Flags().Changed(name) {
			overrides[key] = val
		}
	}
	set("base-url", "base_url", flags.baseURL)
	set("site-url", "site_url", flags.siteURL)
	set("content-dir", "content_dir", flags.contentDir)
	set("languages", "languages_file", flags.languagesFile)
	set("versions", "versions_file", flags.versionsFile)
	set("log-level", "log_level", flags.logLevel)

	cfg, err := config.Load(config.LoadOptions{
		ConfigPath:    flags.configPath,
		Required:      cmd.Flags().Changed("config"),
		FlagOverrides: overrides,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger.NewWithOptions(cmd.ErrOrStderr(), cfg.LogLevel)}
	if a.langs, err = loadLanguages(cfg.LanguagesFile); err != nil {
		return nil, err
	}
	if a.catalog, err = loadCatalog(cfg.VersionsFile); err != nil {
		return nil, err
	}
	if a.policy, err = robots.NewPolicy(a.langs, a.catalog, cfg.Robots.Disallow); err != nil {
		return nil, err
	}
	return a, nil
}

func loadLanguages(path string) (*languages.Registry, error) {
	if path == "" {
		return languages.Default(), nil
	}
	return languages.LoadFile(path)
}

func loadCatalog(path string) (*versions.Catalog, error) {
	if path == "" {
		return versions.Default(), nil
	}
	return versions.LoadFile(path)
}

func (a *app) contentFS() fs.FS {
	if a.cfg.ContentDir == "" {
		return site.SampleContent()
	}
	return os.DirFS(a.cfg.ContentDir)
}

// releaseNotes loads the page whose applicable versions drive the release
// notes suite, in the default language.
func (a *app) releaseNotes() (*content.Page, error) {
	return content.Init(content.InitOptions{
		FS:           a.contentFS(),
		BasePath:     ".",
		RelativePath: a.cfg.ReleaseNotesPath,
		LanguageCode: a.langs.DefaultCode(),
	}, a.catalog)
}

func (a *app) client() (*crawler.HTTPClient, error) {
	c, err := crawler.NewHTTPClient(a.cfg.BaseURL, a.cfg.HTTP.Timeout, a.cfg.HTTP.DialTimeout, a.cfg.HTTP.SizeCap)
	if err != nil {
		return nil, err
	}
	c.SetUserAgent(a.cfg.HTTP.UserAgent)
	return c, nil
}

// selectLangs resolves --lang values against the registry; empty means every
// non-default language.
func (a *app) selectLangs(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return a.langs.NonDefault(), nil
	}
	var out []string
	for _, raw := range requested {
		for _, code := range strings.Split(raw, ",") {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			if !a.langs.Has(code) || code == a.langs.DefaultCode() {
				return nil, fmt.Errorf("unknown or default language %q", code)
			}
			out = append(out, code)
		}
	}
	return out, nil
}
