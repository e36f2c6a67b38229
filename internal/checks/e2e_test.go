package checks_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite-frame-checker/internal/checks"
	"docsite-frame-checker/internal/content"
	"docsite-frame-checker/internal/crawler"
	"docsite-frame-checker/internal/languages"
	"docsite-frame-checker/internal/models"
	"docsite-frame-checker/internal/robots"
	"docsite-frame-checker/internal/runner"
	"docsite-frame-checker/internal/site"
	"docsite-frame-checker/internal/versions"
)

func TestAllSuitesPassAgainstSampleSite(t *testing.T) {
	langs := languages.Default()
	catalog := versions.Default()
	policy, err := robots.NewPolicy(langs, catalog, robots.DefaultDisallow)
	require.NoError(t, err)

	srv, err := site.New(site.Options{Languages: langs, Catalog: catalog, Policy: policy, SiteURL: checks.DefaultSiteURL})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client, err := crawler.NewHTTPClient(ts.URL, 10*time.Second, 2*time.Second, 1<<20)
	require.NoError(t, err)
	cache := crawler.NewDOMCache(client)

	page, err := content.Init(content.InitOptions{
		FS:           site.SampleContent(),
		BasePath:     ".",
		RelativePath: "admin/release-notes.md",
		LanguageCode: langs.DefaultCode(),
	}, catalog)
	require.NoError(t, err)

	env := &checks.Env{DOM: cache, HTTP: client, Policy: policy, Languages: langs}
	list := checks.All(env, page)
	results := runner.Run(context.Background(), list, runner.Options{Concurrency: 4, Timeout: 10 * time.Second})

	require.Len(t, results, len(list))
	for _, r := range results {
		if r.Status == models.StatusFail {
			t.Errorf("%s / %s [%s %s]: %s", r.Suite, r.Name, r.Lang, r.Version, r.Error)
		}
	}

	nonDefault := len(langs.NonDefault())
	sum := models.Summarize(results)
	assert.True(t, sum.OK())
	assert.Equal(t, 2*nonDefault, sum.Skipped)

	// one release per plan: enterprise-cloud and enterprise-server
	notes := 0
	for _, r := range results {
		if r.Suite == checks.SuiteReleaseNotes {
			notes++
		}
	}
	assert.Equal(t, 2*nonDefault, notes)
	assert.Greater(t, cache.Len(), 0)
}
