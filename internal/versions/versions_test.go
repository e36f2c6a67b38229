
package versions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		fm   map[string]string
		want []string
	}{
		{
			name: "all plans",
			fm:   map[string]string{"fpt": "*", "ghec": "*", "ghes": "*"},
			want: []string{
				"free-pro-team@latest",
				"enterprise-cloud@latest",
				"enterprise-server@3.14",
				"enterprise-server@3.13",
				"enterprise-server@3.12",
				"enterprise-server@3.11",
				"enterprise-server@3.10",
			},
		},
		{
			name: "ghes range",
			fm:   map[string]string{"ghes": ">=3.11 <3.14"},
			want: []string{"enterprise-server@3.13", "enterprise-server@3.12", "enterprise-server@3.11"},
		},
		{
			name: "exact release",
			fm:   map[string]string{"ghes": "3.12"},
			want: []string{"enterprise-server@3.12"},
		},
		{
			name: "hidden plan contributes nothing",
			fm:   map[string]string{"ghae": "*", "ghec": "*"},
			want: []string{"enterprise-cloud@latest"},
		},
		{
			name: "no versions",
			fm:   nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve(tt.fm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	c := Default()

	_, err := c.Resolve(map[string]string{"nope": "*"})
	assert.ErrorIs(t, err, ErrUnknownPlan)

	_, err = c.Resolve(map[string]string{"ghes": ">=three"})
	assert.ErrorIs(t, err, ErrBadRange)

	_, err = c.Resolve(map[string]string{"ghec": ">=3.10"})
	assert.ErrorIs(t, err, ErrBadRange)
}

func TestLookup(t *testing.T) {
	c := Default()

	plan, deprecated, known := c.Lookup("enterprise-server@3.12")
	assert.True(t, known)
	assert.False(t, deprecated)
	assert.Equal(t, "ghes", plan.Short)

	_, deprecated, known = c.Lookup("enterprise-server@3.8")
	assert.True(t, known)
	assert.True(t, deprecated)

	plan, _, known = c.Lookup("github-ae@latest")
	assert.True(t, known)
	assert.True(t, plan.Hidden)

	_, _, known = c.Lookup("enterprise-server@2.0")
	assert.False(t, known)
	_, _, known = c.Lookup("get-started")
	assert.False(t, known)
}

func TestLoadRejectsDuplicatePlans(t *testing.T) {
	_, err := Load(strings.NewReader("- {short: a, prefix: x}\n- {short: a, prefix: y}\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("- {short: a}\n"))
	assert.Error(t, err)

	c, err := Load(strings.NewReader("- {short: a, prefix: x}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{Latest}, c.Plans()[0].Releases)
}

func TestSplitAndPrefix(t *testing.T) {
	p, r, ok := Split("enterprise-server@3.12")
	assert.True(t, ok)
	assert.Equal(t, "enterprise-server", p)
	assert.Equal(t, "3.12", r)

	_, _, ok = Split("enterprise-server")
	assert.False(t, ok)
	_, _, ok = Split("@3.12")
	assert.False(t, ok)

	assert.Equal(t, "enterprise-cloud", Prefix("enterprise-cloud@latest"))
	assert.Equal(t, "plain", Prefix("plain"))
}

func TestCombinations(t *testing.T) {
	versions := []string{
		"enterprise-server@3.8",
		"enterprise-server@3.7",
		"github-ae@latest",
		"enterprise-server@3.6",
		"enterprise-cloud@latest",
	}
	got := Combinations([]string{"ja", "pt"}, versions)
	assert.Equal(t, []Combination{
		{Lang: "ja", Version: "enterprise-server@3.8"},
		{Lang: "pt", Version: "enterprise-server@3.8"},
		{Lang: "ja", Version: "github-ae@latest"},
		{Lang: "pt", Version: "github-ae@latest"},
		{Lang: "ja", Version: "enterprise-cloud@latest"},
		{Lang: "pt", Version: "enterprise-cloud@latest"},
	}, got)
}

func TestCombinationsEmpty(t *testing.T) {
	assert.Empty(t, Combinations([]string{"ja"}, nil))
	assert.Empty(t, Combinations(nil, []string{"enterprise-cloud@latest"}))
	assert.Empty(t, FirstPerPrefix(nil))
}

func TestDefaultVersion(t *testing.T) {
	assert.Equal(t, "free-pro-team@latest", Default().DefaultVersion())
}
