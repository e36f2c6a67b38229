
package models

type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result is the outcome of one check against one language or combination.
type Result struct {
	Suite      string `json:"suite"`
	Name       string `json:"name"`
	Lang       string `json:"lang,omitempty"`
	Version    string `json:"version,omitempty"`
	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		}
	}
	return s
}

// OK is true when nothing failed.
func (s Summary) OK() bool { return s.Failed == 0 }

// Alternate is a <link rel="alternate" hreflang> entry.
type Alternate struct {
	Hreflang string `json:"hreflang"`
	Href     string `json:"href"`
}

type Classification struct {
	Label  string            `json:"label"`
	Reason map[string]string `json:"reason,omitempty"`
}

// PageReport describes one fetched docs page.
type PageReport struct {
	Path        string         `json:"path"`
	URL         string         `json:"url,omitempty"`
	StatusCode  int            `json:"status"`
	FetchMs     int64          `json:"fetchMs"`
	Lang        string         `json:"lang,omitempty"`
	Title       string         `json:"title,omitempty"`
	Canonical   string         `json:"canonical,omitempty"`
	Breadcrumbs []string       `json:"breadcrumbs,omitempty"`
	Alternates  []Alternate    `json:"alternates,omitempty"`
	NoIndex     bool           `json:"noindex,omitempty"`
	Class       Classification `json:"class"`
	Topics      []string       `json:"topics,omitempty"`
	Error       string         `json:"error,omitempty"`
}
